package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/middleware"
	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.TokenClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentUser resolves the account behind the token subject. Token
// subjects are emails, while board rows reference user IDs.
func currentUser(c *gin.Context, users *service.UserService) (*models.User, error) {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil, appErrors.ErrLoginRequired
	}
	return users.Profile(c.Request.Context(), claims.Subject)
}
