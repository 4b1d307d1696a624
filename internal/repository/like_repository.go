package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
)

// LikeRepository provides database access for post and comment likes.
type LikeRepository struct {
	db *sqlx.DB
}

// NewLikeRepository creates a new instance of LikeRepository.
func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Find returns the like a user holds on a target, if any.
func (r *LikeRepository) Find(ctx context.Context, userID string, target models.LikeTarget, targetID string) (*models.Like, error) {
	const query = `SELECT id, user_id, target, target_id, created_at FROM likes WHERE user_id = $1 AND target = $2 AND target_id = $3 LIMIT 1`
	var like models.Like
	if err := r.db.GetContext(ctx, &like, query, userID, target, targetID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find like: %w", err)
	}
	return &like, nil
}

// Create inserts a like.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO likes (id, user_id, target, target_id, created_at) VALUES (:id, :user_id, :target, :target_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, like); err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

// Delete removes a like by identifier.
func (r *LikeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM likes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}
