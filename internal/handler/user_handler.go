package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// UserHandler exposes signup, profile and resignation endpoints.
type UserHandler struct {
	service *service.UserService
	cookies *token.CookieWriter
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService, cookies *token.CookieWriter) *UserHandler {
	return &UserHandler{service: svc, cookies: cookies}
}

// Signup godoc
// @Summary Register a new account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "Signup payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}

	res, err := h.service.Signup(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// Me godoc
// @Summary Get current user profile
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrLoginRequired)
		return
	}

	user, err := h.service.Profile(c.Request.Context(), claims.Subject)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// UpdateProfile godoc
// @Summary Update display name and password
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrLoginRequired)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), claims.Subject, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// Resign godoc
// @Summary Resign the current account
// @Description Permanently blocks the account and clears the session
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body object true "Password confirmation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/me/resign [post]
func (h *UserHandler) Resign(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrLoginRequired)
		return
	}

	var payload struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "password confirmation required"))
		return
	}

	if err := h.service.Resign(c.Request.Context(), claims.Subject, payload.Password, requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}

	// The session slot is already gone; expire the cookies too.
	h.cookies.ClearAll(c)

	response.Message(c, http.StatusOK, "account resigned")
}

// List godoc
// @Summary List users (admin)
// @Tags Users
// @Produce json
// @Param search query string false "Search email or name"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	filter.Search = c.Query("search")
	if status := c.Query("status"); status != "" {
		s := models.UserStatus(status)
		filter.Status = &s
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	users, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, users, pagination)
}
