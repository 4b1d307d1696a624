package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// CommentHandler exposes comment endpoints nested under posts.
type CommentHandler struct {
	service *service.CommentService
	users   *service.UserService
}

// NewCommentHandler creates a new handler.
func NewCommentHandler(svc *service.CommentService, users *service.UserService) *CommentHandler {
	return &CommentHandler{service: svc, users: users}
}

// ListByPost godoc
// @Summary List comments on a post
// @Tags Comments
// @Produce json
// @Param id path string true "Post ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c *gin.Context) {
	page := 1
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	size := 20
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}

	comments, pagination, err := h.service.ListByPost(c.Request.Context(), c.Param("id"), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, comments, pagination)
}

// Create godoc
// @Summary Create a comment
// @Description Optionally a reply when parent_id names a comment on the same post
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param payload body service.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /posts/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	comment, err := h.service.Create(c.Request.Context(), user.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, comment)
}

// Update godoc
// @Summary Update a comment
// @Description Only the author or an admin may update
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param payload body service.UpdateCommentRequest true "Comment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}

	comment, err := h.service.Update(c.Request.Context(), user.ID, user.Role, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, comment, nil)
}

// Delete godoc
// @Summary Delete a comment
// @Description Only the author or an admin may delete; replies and likes go with it
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	user, err := currentUser(c, h.users)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), user.ID, user.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "comment deleted")
}
