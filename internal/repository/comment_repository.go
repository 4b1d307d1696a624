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

// CommentRepository provides database access for post comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new instance of CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = "id, post_id, user_id, parent_id, anonymous_name, content, like_count, created_at, updated_at"

// FindByID returns a comment by identifier.
func (r *CommentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM comments WHERE id = $1 LIMIT 1", commentColumns)
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return &comment, nil
}

// ListByPost returns paginated comments for a post, oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string, page, pageSize int) ([]models.Comment, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s FROM comments WHERE post_id = $1 ORDER BY created_at ASC LIMIT %d OFFSET %d", commentColumns, pageSize, offset)
	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, listQuery, postID); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	return comments, total, nil
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now

	const query = `INSERT INTO comments (id, post_id, user_id, parent_id, anonymous_name, content, like_count, created_at, updated_at) VALUES (:id, :post_id, :user_id, :parent_id, :anonymous_name, :content, :like_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Update rewrites the comment content.
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE comments SET content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment and its likes.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete comment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE target = $1 AND target_id = $2`, models.LikeTargetComment, id); err != nil {
		return fmt.Errorf("delete comment likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete comment: %w", err)
	}
	return nil
}

// AdjustLikeCount shifts the denormalised like counter.
func (r *CommentRepository) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	const query = `UPDATE comments SET like_count = like_count + $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, delta); err != nil {
		return fmt.Errorf("adjust comment like count: %w", err)
	}
	return nil
}
