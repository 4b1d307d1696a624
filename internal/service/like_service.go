package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type likeRepository interface {
	Find(ctx context.Context, userID string, target models.LikeTarget, targetID string) (*models.Like, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, id string) error
}

type likedPostRepository interface {
	FindByID(ctx context.Context, id string) (*models.Post, error)
	AdjustLikeCount(ctx context.Context, id string, delta int) error
}

type likedCommentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	AdjustLikeCount(ctx context.Context, id string, delta int) error
}

type likeCountAdjuster interface {
	AdjustLikeCount(ctx context.Context, id string, delta int) error
}

// LikeService enforces the like policies: no self-like, no duplicates,
// and unlike only where a like exists.
type LikeService struct {
	likes    likeRepository
	posts    likedPostRepository
	comments likedCommentRepository
	logger   *zap.Logger
}

// NewLikeService constructs a LikeService instance.
func NewLikeService(likes likeRepository, posts likedPostRepository, comments likedCommentRepository, logger *zap.Logger) *LikeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LikeService{likes: likes, posts: posts, comments: comments, logger: logger}
}

// LikePost adds a like on a post.
func (s *LikeService) LikePost(ctx context.Context, userID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrLikeTargetMissing, "post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}
	if post.UserID == userID {
		return appErrors.Clone(appErrors.ErrCannotLikeOwn, "cannot like your own post")
	}

	return s.like(ctx, userID, models.LikeTargetPost, postID, s.posts)
}

// UnlikePost removes a like from a post.
func (s *LikeService) UnlikePost(ctx context.Context, userID, postID string) error {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrLikeTargetMissing, "post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch post")
	}
	return s.unlike(ctx, userID, models.LikeTargetPost, postID, s.posts)
}

// LikeComment adds a like on a comment.
func (s *LikeService) LikeComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrLikeTargetMissing, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}
	if comment.UserID == userID {
		return appErrors.Clone(appErrors.ErrCannotLikeOwn, "cannot like your own comment")
	}

	return s.like(ctx, userID, models.LikeTargetComment, commentID, s.comments)
}

// UnlikeComment removes a like from a comment.
func (s *LikeService) UnlikeComment(ctx context.Context, userID, commentID string) error {
	if _, err := s.comments.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrLikeTargetMissing, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}
	return s.unlike(ctx, userID, models.LikeTargetComment, commentID, s.comments)
}

func (s *LikeService) like(ctx context.Context, userID string, target models.LikeTarget, targetID string, counts likeCountAdjuster) error {
	if _, err := s.likes.Find(ctx, userID, target, targetID); err == nil {
		return appErrors.Clone(appErrors.ErrAlreadyLiked, "")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check like")
	}

	if err := s.likes.Create(ctx, &models.Like{UserID: userID, Target: target, TargetID: targetID}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create like")
	}
	if err := counts.AdjustLikeCount(ctx, targetID, 1); err != nil {
		s.logger.Warn("failed to bump like count", zap.String("target_id", targetID), zap.Error(err))
	}
	return nil
}

func (s *LikeService) unlike(ctx context.Context, userID string, target models.LikeTarget, targetID string, counts likeCountAdjuster) error {
	like, err := s.likes.Find(ctx, userID, target, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrLikeNotFound, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check like")
	}

	if err := s.likes.Delete(ctx, like.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete like")
	}
	if err := counts.AdjustLikeCount(ctx, targetID, -1); err != nil {
		s.logger.Warn("failed to drop like count", zap.String("target_id", targetID), zap.Error(err))
	}
	return nil
}
