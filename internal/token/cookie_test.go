package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

func testCookieWriter() *CookieWriter {
	return NewCookieWriter(
		config.JWTConfig{AccessTTL: 30 * time.Minute, RefreshTTL: 14 * 24 * time.Hour},
		config.CookieConfig{},
	)
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestWriteAccessMirrorsTTL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	w := testCookieWriter()
	w.WriteAccess(c, SchemePrefix+"tok")

	ck := cookieByName(t, rec, AccessCookieName)
	assert.Equal(t, int((30 * time.Minute).Seconds()), ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/", ck.Path)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	w := testCookieWriter()
	w.WriteRefresh(c, SchemePrefix+"refresh value")

	req := httptest.NewRequest(http.MethodPost, "/auth/reissue", nil)
	req.AddCookie(cookieByName(t, rec, RefreshCookieName))

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = req

	got, err := w.ReadRefresh(c2)
	require.NoError(t, err)
	assert.Equal(t, SchemePrefix+"refresh value", got)
}

func TestClearAllExpiresBothCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	testCookieWriter().ClearAll(c)

	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		ck := cookieByName(t, rec, name)
		assert.Empty(t, ck.Value)
		assert.Less(t, ck.MaxAge, 0)
	}
}

func TestReadMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := testCookieWriter().ReadAccess(c)
	assert.True(t, appErrors.Is(err, appErrors.ErrTokenNotFound))
}
