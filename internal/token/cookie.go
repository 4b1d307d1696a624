package token

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

// Cookie names are fixed protocol constants, not configuration.
const (
	AccessCookieName  = "access-token"
	RefreshCookieName = "refresh-token"
)

// CookieWriter attaches and clears token-carrying cookies. Max-Age always
// mirrors the corresponding token TTL; attributes are fixed at startup.
type CookieWriter struct {
	accessMaxAge  int
	refreshMaxAge int
	domain        string
	secure        bool
}

// NewCookieWriter derives cookie lifetimes from the JWT TTLs.
func NewCookieWriter(jwtCfg config.JWTConfig, cookieCfg config.CookieConfig) *CookieWriter {
	return &CookieWriter{
		accessMaxAge:  int(jwtCfg.AccessTTL.Seconds()),
		refreshMaxAge: int(jwtCfg.RefreshTTL.Seconds()),
		domain:        cookieCfg.Domain,
		secure:        cookieCfg.Secure,
	}
}

// WriteAccess sets the access-token cookie.
func (w *CookieWriter) WriteAccess(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, token, w.accessMaxAge, "/", w.domain, w.secure, true)
}

// WriteRefresh sets the refresh-token cookie.
func (w *CookieWriter) WriteRefresh(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, token, w.refreshMaxAge, "/", w.domain, w.secure, true)
}

// ClearAll expires both token cookies with empty values.
func (w *CookieWriter) ClearAll(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, "", -1, "/", w.domain, w.secure, true)
	c.SetCookie(RefreshCookieName, "", -1, "/", w.domain, w.secure, true)
}

// ReadAccess returns the raw (still prefixed) access token from the request.
func (w *CookieWriter) ReadAccess(c *gin.Context) (string, error) {
	value, err := c.Cookie(AccessCookieName)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrTokenNotFound, "")
	}
	return value, nil
}

// ReadRefresh returns the raw refresh token from the request.
func (w *CookieWriter) ReadRefresh(c *gin.Context) (string, error) {
	value, err := c.Cookie(RefreshCookieName)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrTokenNotFound, "")
	}
	return value, nil
}
