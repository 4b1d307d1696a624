package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// LoginRateLimit bounds repeated login attempts per client IP using a
// redis counter with a rolling window. Redis outages fail open: login
// availability outranks the limiter.
func LoginRateLimit(rdb *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if !cfg.Enabled || rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("login:attempts:%s", c.ClientIP())
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			logger.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(c.Request.Context(), key, cfg.LoginWindow).Err(); err != nil {
				logger.Warn("rate limit expiry not set", zap.String("key", key), zap.Error(err))
			}
		}

		if count > int64(cfg.LoginAttempts) {
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
