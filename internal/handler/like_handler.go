package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// LikeHandler exposes like and unlike endpoints for posts and comments.
type LikeHandler struct {
	service *service.LikeService
	users   *service.UserService
}

// NewLikeHandler creates a new handler.
func NewLikeHandler(svc *service.LikeService, users *service.UserService) *LikeHandler {
	return &LikeHandler{service: svc, users: users}
}

// LikePost godoc
// @Summary Like a post
// @Tags Likes
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts/{id}/likes [post]
func (h *LikeHandler) LikePost(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.LikePost(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "post liked")
}

// UnlikePost godoc
// @Summary Unlike a post
// @Tags Likes
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts/{id}/likes [delete]
func (h *LikeHandler) UnlikePost(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.UnlikePost(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "post unliked")
}

// LikeComment godoc
// @Summary Like a comment
// @Tags Likes
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /comments/{id}/likes [post]
func (h *LikeHandler) LikeComment(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.LikeComment(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "comment liked")
}

// UnlikeComment godoc
// @Summary Unlike a comment
// @Tags Likes
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /comments/{id}/likes [delete]
func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.UnlikeComment(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "comment unliked")
}
