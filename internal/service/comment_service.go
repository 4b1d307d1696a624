package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type commentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, page, pageSize int) ([]models.Comment, int, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
}

// CreateCommentRequest describes the payload for new comments.
type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,max=1000"`
	ParentID *string `json:"parent_id"`
}

// UpdateCommentRequest rewrites a comment body.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// CommentService handles comments under board posts.
type CommentService struct {
	comments  commentRepository
	posts     postRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommentService constructs a CommentService instance.
func NewCommentService(comments commentRepository, posts postRepository, validate *validator.Validate, logger *zap.Logger) *CommentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{comments: comments, posts: posts, validator: validate, logger: logger}
}

// ListByPost returns paginated comments for an existing post.
func (s *CommentService) ListByPost(ctx context.Context, postID string, page, pageSize int) ([]models.Comment, *models.Pagination, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrPostNotFound, "")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}

	comments, total, err := s.comments.ListByPost(ctx, postID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return comments, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Create stores a comment, optionally as a reply to a parent comment on
// the same post.
func (s *CommentService) Create(ctx context.Context, userID, postID string, req CreateCommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPostNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}

	if req.ParentID != nil {
		parent, err := s.comments.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrCommentNotFound, "")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch parent comment")
		}
		if parent.PostID != postID {
			return nil, appErrors.Clone(appErrors.ErrCommentNotFound, "parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:        postID,
		UserID:        userID,
		ParentID:      req.ParentID,
		AnonymousName: anonymousName(),
		Content:       req.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

// Update rewrites a comment. Only the author or an admin may do so.
func (s *CommentService) Update(ctx context.Context, userID string, role models.UserRole, commentID string, req UpdateCommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}

	comment, err := s.get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrNotAuthor, "")
	}

	comment.Content = req.Content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update comment")
	}
	return comment, nil
}

// Delete removes a comment. Only the author or an admin may do so.
func (s *CommentService) Delete(ctx context.Context, userID string, role models.UserRole, commentID string) error {
	comment, err := s.get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrNotAuthor, "")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	return nil
}

func (s *CommentService) get(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCommentNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}
	return comment, nil
}
