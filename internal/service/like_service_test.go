package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type fakeLikeRepo struct {
	likes map[string]*models.Like
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]*models.Like)}
}

func (m *fakeLikeRepo) Find(ctx context.Context, userID string, target models.LikeTarget, targetID string) (*models.Like, error) {
	for _, l := range m.likes {
		if l.UserID == userID && l.Target == target && l.TargetID == targetID {
			return l, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *fakeLikeRepo) Create(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.NewString()
	}
	m.likes[like.ID] = like
	return nil
}

func (m *fakeLikeRepo) Delete(ctx context.Context, id string) error {
	delete(m.likes, id)
	return nil
}

func newLikeFixture(t *testing.T) (*LikeService, *fakePostRepo, *fakeCommentRepo, *models.Post, *models.Comment) {
	t.Helper()
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()
	svc := NewLikeService(newFakeLikeRepo(), posts, comments, nil)

	post := seedPost(t, posts, "author")
	comment := &models.Comment{PostID: post.ID, UserID: "commenter", AnonymousName: "anonymous-c", Content: "c"}
	require.NoError(t, comments.Create(context.Background(), comment))

	return svc, posts, comments, post, comment
}

func TestLikePostBumpsCount(t *testing.T) {
	svc, posts, _, post, _ := newLikeFixture(t)

	require.NoError(t, svc.LikePost(context.Background(), "reader", post.ID))
	assert.Equal(t, 1, posts.posts[post.ID].LikeCount)

	require.NoError(t, svc.UnlikePost(context.Background(), "reader", post.ID))
	assert.Equal(t, 0, posts.posts[post.ID].LikeCount)
}

func TestLikePostDuplicate(t *testing.T) {
	svc, _, _, post, _ := newLikeFixture(t)

	require.NoError(t, svc.LikePost(context.Background(), "reader", post.ID))

	err := svc.LikePost(context.Background(), "reader", post.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyLiked.Code, appErrors.FromError(err).Code)
}

func TestLikeOwnPostRejected(t *testing.T) {
	svc, _, _, post, _ := newLikeFixture(t)

	err := svc.LikePost(context.Background(), "author", post.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCannotLikeOwn.Code, appErrors.FromError(err).Code)
}

func TestLikeMissingPost(t *testing.T) {
	svc, _, _, _, _ := newLikeFixture(t)

	err := svc.LikePost(context.Background(), "reader", "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrLikeTargetMissing.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestUnlikeWithoutLike(t *testing.T) {
	svc, _, _, post, _ := newLikeFixture(t)

	err := svc.UnlikePost(context.Background(), "reader", post.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLikeNotFound.Code, appErrors.FromError(err).Code)
}

func TestLikeCommentPolicies(t *testing.T) {
	svc, _, comments, _, comment := newLikeFixture(t)

	err := svc.LikeComment(context.Background(), "commenter", comment.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCannotLikeOwn.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.LikeComment(context.Background(), "reader", comment.ID))
	assert.Equal(t, 1, comments.comments[comment.ID].LikeCount)

	// Post likes and comment likes are independent targets: the same
	// reader may like the comment's post separately.
	require.NoError(t, svc.LikePost(context.Background(), "reader", comment.PostID))

	require.NoError(t, svc.UnlikeComment(context.Background(), "reader", comment.ID))
	assert.Equal(t, 0, comments.comments[comment.ID].LikeCount)
}
