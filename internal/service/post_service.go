package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type postRepository interface {
	FindByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// CreatePostRequest describes the payload for new posts.
type CreatePostRequest struct {
	Category models.PostCategory `json:"category" validate:"required"`
	Content  string              `json:"content" validate:"required,max=2000"`
}

// UpdatePostRequest updates mutable fields of a post.
type UpdatePostRequest struct {
	Category models.PostCategory `json:"category" validate:"required"`
	Content  string              `json:"content" validate:"required,max=2000"`
}

// PostService handles the anonymous board.
type PostService struct {
	repo      postRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs a PostService instance.
func NewPostService(repo postRepository, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, validator: validate, logger: logger}
}

// anonymousName generates the per-entry display alias. Each post and
// comment gets its own, so entries by one author are not linkable.
func anonymousName() string {
	return fmt.Sprintf("anonymous-%s", uuid.NewString()[:8])
}

// List returns paginated posts ordered by likes, then recency.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidCategory, "")
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	return posts, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a post by ID.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPostNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}
	return post, nil
}

// Create stores a new post under a fresh anonymous alias.
func (s *PostService) Create(ctx context.Context, userID string, req CreatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}
	if !req.Category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidCategory, "")
	}

	post := &models.Post{
		UserID:        userID,
		AnonymousName: anonymousName(),
		Category:      req.Category,
		Content:       req.Content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	return post, nil
}

// Update rewrites a post. Only the author or an admin may do so.
func (s *PostService) Update(ctx context.Context, userID string, role models.UserRole, postID string, req UpdatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post payload")
	}
	if !req.Category.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidCategory, "")
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrNotAuthor, "")
	}

	post.Category = req.Category
	post.Content = req.Content
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update post")
	}
	return post, nil
}

// Delete removes a post. Only the author or an admin may do so.
func (s *PostService) Delete(ctx context.Context, userID string, role models.UserRole, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID && role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrNotAuthor, "")
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete post")
	}
	return nil
}
