package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo-dev/community-board-api/internal/middleware"
	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) UpdateProfile(ctx context.Context, id, name, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Name = name
	u.PasswordHash = passwordHash
	return nil
}

func (m *memUserRepo) UpdateRefreshToken(ctx context.Context, id string, refreshToken string) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.RefreshToken = &refreshToken
	return nil
}

func (m *memUserRepo) ClearRefreshToken(ctx context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.RefreshToken = nil
	return nil
}

func (m *memUserRepo) MarkResigned(ctx context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Status = models.UserStatusResigned
	u.RefreshToken = nil
	return nil
}

func (m *memUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func newUserTestRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemUserRepo()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "test", AccessTTL: 30 * time.Minute, RefreshTTL: 14 * 24 * time.Hour}
	codec := token.NewCodec(jwtCfg, nil)
	cookies := token.NewCookieWriter(jwtCfg, config.CookieConfig{})
	authService := service.NewAuthService(repo, codec, nil, nil, nil)
	userService := service.NewUserService(repo, nil, nil, nil)

	authHandler := NewAuthHandler(authService, cookies, nil)
	userHandler := NewUserHandler(userService, cookies)

	r := gin.New()
	r.POST("/users/signup", userHandler.Signup)
	r.POST("/auth/login", authHandler.Login)

	admin := r.Group("/admin", middleware.Auth(authService, cookies), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", func(c *gin.Context) {
		response.Message(c, http.StatusOK, "admin area")
	})

	return r, repo
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// Self-registration must never produce an elevated account, no matter
// what extra fields the caller smuggles into the payload.
func TestSignupCannotSelfGrantAdmin(t *testing.T) {
	r, repo := newUserTestRouter(t)

	rec := postJSON(t, r, "/users/signup",
		`{"email":"sneaky@example.com","password":"password123","name":"sneaky","admin":true,"role":"ADMIN"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, err := repo.FindByEmail(context.Background(), "sneaky@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role)

	// The freshly signed-up account stays locked out of admin routes.
	login := postJSON(t, r, "/auth/login", `{"email":"sneaky@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	access := cookieByName(login.Result().Cookies(), token.AccessCookieName)
	require.NotNil(t, access)

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(access)
	adminRec := httptest.NewRecorder()
	r.ServeHTTP(adminRec, req)
	assert.Equal(t, http.StatusForbidden, adminRec.Code)
}

func TestSignupReturnsAccountWithoutCredentials(t *testing.T) {
	r, _ := newUserTestRouter(t)

	rec := postJSON(t, r, "/users/signup",
		`{"email":"plain@example.com","password":"password123","name":"plain"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := rec.Body.String()
	assert.Contains(t, body, "plain@example.com")
	assert.Contains(t, body, `"USER"`)
	assert.NotContains(t, body, "password123")
}
