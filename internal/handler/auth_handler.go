package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// AuthHandler wires the auth flow to HTTP. Tokens enter and leave only
// through cookies; response bodies never carry them.
type AuthHandler struct {
	service *service.AuthService
	cookies *token.CookieWriter
	metrics *service.MetricsService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, cookies *token.CookieWriter, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, metrics: metrics}
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

// Login godoc
// @Summary Authenticate user
// @Description Verify credentials and set access/refresh token cookies
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadLogin.Code, http.StatusBadRequest, appErrors.ErrBadLogin.Message))
		return
	}

	pair, err := h.service.Login(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		h.metrics.ObserveAuthEvent("login", "failure")
		response.Error(c, err)
		return
	}

	h.cookies.WriteRefresh(c, pair.Refresh)
	h.cookies.WriteAccess(c, pair.Access)
	h.metrics.ObserveAuthEvent("login", "success")

	response.Message(c, http.StatusOK, "login succeeded")
}

// Reissue godoc
// @Summary Reissue access token
// @Description Exchange the refresh-token cookie for a fresh access-token cookie
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/reissue [post]
func (h *AuthHandler) Reissue(c *gin.Context) {
	raw, err := h.cookies.ReadRefresh(c)
	if err != nil {
		h.metrics.ObserveAuthEvent("reissue", "failure")
		response.Error(c, err)
		return
	}

	accessToken, err := h.service.Reissue(c.Request.Context(), raw, requestMeta(c))
	if err != nil {
		h.metrics.ObserveAuthEvent("reissue", "failure")
		response.Error(c, err)
		return
	}

	h.cookies.WriteAccess(c, accessToken)
	h.metrics.ObserveAuthEvent("reissue", "success")

	response.Message(c, http.StatusOK, "access token reissued")
}

// Logout godoc
// @Summary Logout current session
// @Description Clear the session binding and expire both token cookies
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, err := h.cookies.ReadAccess(c)
	if err != nil {
		h.metrics.ObserveAuthEvent("logout", "failure")
		response.Error(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), raw, requestMeta(c)); err != nil {
		h.metrics.ObserveAuthEvent("logout", "failure")
		response.Error(c, err)
		return
	}

	h.cookies.ClearAll(c)
	h.metrics.ObserveAuthEvent("logout", "success")

	response.Message(c, http.StatusOK, "logout succeeded")
}
