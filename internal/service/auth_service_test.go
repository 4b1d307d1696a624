package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type fakeAuthRepo struct {
	user            *models.User
	findByEmailErr  error
	updateSlotErr   error
	slotUpdateCount int
	slotClearCount  int
}

func (m *fakeAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.user == nil || m.user.Email != email {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *fakeAuthRepo) UpdateRefreshToken(ctx context.Context, id string, refreshToken string) error {
	if m.updateSlotErr != nil {
		return m.updateSlotErr
	}
	m.slotUpdateCount++
	m.user.RefreshToken = &refreshToken
	return nil
}

func (m *fakeAuthRepo) ClearRefreshToken(ctx context.Context, id string) error {
	m.slotClearCount++
	m.user.RefreshToken = nil
	return nil
}

type fakeAuditRecorder struct {
	logs []*models.AuditLog
}

func (m *fakeAuditRecorder) Record(log *models.AuditLog) {
	m.logs = append(m.logs, log)
}

func newTestUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Name:         "user",
		Status:       models.UserStatusNormal,
		Role:         models.RoleUser,
	}
}

func newTestAuthService(repo *fakeAuthRepo, audit AuditRecorder, now func() time.Time) *AuthService {
	codec := token.NewCodec(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "test",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}, now)
	return NewAuthService(repo, codec, audit, validator.New(), zap.NewNop())
}

func TestLoginBindsSession(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	audit := &fakeAuditRecorder{}
	svc := newTestAuthService(repo, audit, nil)

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pair.Access, token.SchemePrefix))
	assert.True(t, strings.HasPrefix(pair.Refresh, token.SchemePrefix))

	require.NotNil(t, repo.user.RefreshToken)
	assert.Equal(t, pair.Refresh, *repo.user.RefreshToken)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionLogin, audit.logs[0].Action)
}

func TestLoginUnknownEmailAndWrongPasswordCollapse(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	svc := newTestAuthService(repo, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "password123"}, models.RequestMeta{})
	require.Error(t, err)
	unknownEmail := appErrors.FromError(err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"}, models.RequestMeta{})
	require.Error(t, err)
	wrongPassword := appErrors.FromError(err)

	assert.Equal(t, appErrors.ErrBadLogin.Code, unknownEmail.Code)
	assert.Equal(t, unknownEmail.Code, wrongPassword.Code)
	assert.Equal(t, unknownEmail.Status, wrongPassword.Status)
}

func TestLoginResignedGetsNoTokens(t *testing.T) {
	user := newTestUser(t, "password123")
	user.Status = models.UserStatusResigned
	repo := &fakeAuthRepo{user: user}
	svc := newTestAuthService(repo, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrResignedAccount.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.slotUpdateCount)
	assert.Nil(t, repo.user.RefreshToken)
}

func TestLoginResignedWrongPasswordStaysBadLogin(t *testing.T) {
	user := newTestUser(t, "password123")
	user.Status = models.UserStatusResigned
	repo := &fakeAuthRepo{user: user}
	svc := newTestAuthService(repo, nil, nil)

	// Credentials are checked before the resignation policy, so a wrong
	// password on a resigned account reads the same as any bad login.
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBadLogin.Code, appErrors.FromError(err).Code)
}

func TestReissueReturnsFreshAccessToken(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	svc := newTestAuthService(repo, nil, nil)

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	access, err := svc.Reissue(context.Background(), pair.Refresh, models.RequestMeta{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(access, token.SchemePrefix))

	claims, err := svc.ValidateAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Subject)
}

func TestReissueSupersededSessionMismatch(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	svc := newTestAuthService(repo, nil, nil)

	// First login from device A.
	first, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	// Second login from device B overwrites the single session slot.
	second, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	// Device A's refresh token is signed and unexpired, but no longer bound.
	_, err = svc.Reissue(context.Background(), first.Refresh, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionMismatch.Code, appErrors.FromError(err).Code)

	// Device B keeps working.
	_, err = svc.Reissue(context.Background(), second.Refresh, models.RequestMeta{})
	assert.NoError(t, err)
}

func TestReissueAfterLogoutSessionMismatch(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	svc := newTestAuthService(repo, nil, nil)

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.Access, models.RequestMeta{}))

	_, err = svc.Reissue(context.Background(), pair.Refresh, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionMismatch.Code, appErrors.FromError(err).Code)
}

func TestReissueExpiredRefreshToken(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	current := time.Now()
	svc := newTestAuthService(repo, nil, func() time.Time { return current })

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	current = current.Add(15 * 24 * time.Hour)

	_, err = svc.Reissue(context.Background(), pair.Refresh, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpiredRefreshToken.Code, appErrors.FromError(err).Code)
}

func TestReissueMissingToken(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	svc := newTestAuthService(repo, nil, nil)

	_, err := svc.Reissue(context.Background(), "", models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTokenNotFound.Code, appErrors.FromError(err).Code)
}

func TestLogoutClearsSlot(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	audit := &fakeAuditRecorder{}
	svc := newTestAuthService(repo, audit, nil)

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.Access, models.RequestMeta{}))
	assert.Nil(t, repo.user.RefreshToken)
	assert.Equal(t, 1, repo.slotClearCount)

	require.Len(t, audit.logs, 2)
	assert.Equal(t, models.AuditActionLogout, audit.logs[1].Action)
}

func TestLogoutAcceptsExpiredAccessToken(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	current := time.Now()
	svc := newTestAuthService(repo, nil, func() time.Time { return current })

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	// Past the access TTL but inside the refresh TTL.
	current = current.Add(time.Hour)

	require.NoError(t, svc.Logout(context.Background(), pair.Access, models.RequestMeta{}))
	assert.Nil(t, repo.user.RefreshToken)
}

func TestLogoutRejectsTamperedToken(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	svc := newTestAuthService(repo, nil, nil)

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	tampered := pair.Access + "xx"
	err = svc.Logout(context.Background(), tampered, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)

	// The slot survives: a forged token must not log anyone out.
	assert.NotNil(t, repo.user.RefreshToken)
}

func TestValidateAccessExpired(t *testing.T) {
	repo := &fakeAuthRepo{user: newTestUser(t, "password123")}
	current := time.Now()
	svc := newTestAuthService(repo, nil, func() time.Time { return current })

	pair, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password123"}, models.RequestMeta{})
	require.NoError(t, err)

	current = current.Add(31 * time.Minute)

	_, err = svc.ValidateAccess(pair.Access)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpiredToken.Code, appErrors.FromError(err).Code)
}
