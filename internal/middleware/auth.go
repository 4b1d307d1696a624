package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// ContextUserKey is the gin context key storing verified token claims.
const ContextUserKey = "currentUser"

// Auth protects routes by requiring a valid access token in the
// access-token cookie. Tokens never travel in the Authorization header.
func Auth(authService *service.AuthService, cookies *token.CookieWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := cookies.ReadAccess(c)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrLoginRequired, ""))
			c.Abort()
			return
		}

		claims, err := authService.ValidateAccess(raw)
		if err != nil {
			// Expired keeps its 403 so clients know to hit the reissue
			// endpoint rather than re-entering credentials.
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
