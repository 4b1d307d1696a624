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

// PostRepository provides database access for board posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = "id, user_id, anonymous_name, category, content, like_count, created_at, updated_at"

// FindByID returns a post by identifier.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts WHERE id = $1 LIMIT 1", postColumns)
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return &post, nil
}

// List returns posts ordered by like count, then recency.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	baseQuery := `FROM posts WHERE 1=1`
	var args []interface{}

	if filter.Category != nil {
		baseQuery += fmt.Sprintf(" AND category = $%d", len(args)+1)
		args = append(args, *filter.Category)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY like_count DESC, created_at DESC LIMIT %d OFFSET %d", postColumns, baseQuery, pageSize, offset)

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	return posts, total, nil
}

// ListAll returns every post, used by admin exports.
func (r *PostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts ORDER BY created_at DESC", postColumns)
	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	return posts, nil
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	const query = `INSERT INTO posts (id, user_id, anonymous_name, category, content, like_count, created_at, updated_at) VALUES (:id, :user_id, :anonymous_name, :category, :content, :like_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update updates mutable fields of a post.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE posts SET category = :category, content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post and its comments and likes.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete post: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE target = $1 AND target_id = $2`, models.LikeTargetPost, id); err != nil {
		return fmt.Errorf("delete post likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE target = $1 AND target_id IN (SELECT id FROM comments WHERE post_id = $2)`, models.LikeTargetComment, id); err != nil {
		return fmt.Errorf("delete comment likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete post: %w", err)
	}
	return nil
}

// AdjustLikeCount shifts the denormalised like counter.
func (r *PostRepository) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	const query = `UPDATE posts SET like_count = like_count + $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, delta); err != nil {
		return fmt.Errorf("adjust post like count: %w", err)
	}
	return nil
}
