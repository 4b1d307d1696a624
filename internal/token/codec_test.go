package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test_secret",
		Issuer:     "community-board-api",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testJWTConfig(), func() time.Time { return base })

	raw, err := codec.Issue("u@example.com", models.RoleUser, KindAccess)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, SchemePrefix))

	bare, err := StripScheme(raw)
	require.NoError(t, err)

	claims, err := codec.Verify(bare)
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, codec.TTL(KindAccess), claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestRefreshTTLLongerThanAccess(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testJWTConfig(), func() time.Time { return base })

	raw, err := codec.Issue("u@example.com", models.RoleAdmin, KindRefresh)
	require.NoError(t, err)

	bare, err := StripScheme(raw)
	require.NoError(t, err)

	claims, err := codec.Verify(bare)
	require.NoError(t, err)
	assert.Equal(t, codec.TTL(KindRefresh), claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testJWTConfig(), func() time.Time { return base })

	// Same subject, same kind, same instant: the jti still separates
	// the two issuances.
	first, err := codec.Issue("u@example.com", models.RoleUser, KindAccess)
	require.NoError(t, err)
	second, err := codec.Issue("u@example.com", models.RoleUser, KindAccess)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	firstBare, err := StripScheme(first)
	require.NoError(t, err)
	secondBare, err := StripScheme(second)
	require.NoError(t, err)

	firstClaims, err := codec.Verify(firstBare)
	require.NoError(t, err)
	secondClaims, err := codec.Verify(secondBare)
	require.NoError(t, err)
	assert.NotEmpty(t, firstClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	codec := NewCodec(cfg, func() time.Time { return now })

	raw, err := codec.Issue("u@example.com", models.RoleUser, KindAccess)
	require.NoError(t, err)
	bare, err := StripScheme(raw)
	require.NoError(t, err)

	// One instant before expiry the token is still valid.
	now = issued.Add(cfg.AccessTTL - time.Second)
	_, err = codec.Verify(bare)
	assert.NoError(t, err)

	// At the expiry instant it is not.
	now = issued.Add(cfg.AccessTTL)
	claims, err := codec.Verify(bare)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrExpiredToken))
	// Claims still decode so lenient callers can resolve the subject.
	require.NotNil(t, claims)
	assert.Equal(t, "u@example.com", claims.Subject)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodec(testJWTConfig(), func() time.Time { return base })

	raw, err := codec.Issue("u@example.com", models.RoleUser, KindAccess)
	require.NoError(t, err)
	bare, err := StripScheme(raw)
	require.NoError(t, err)

	other := NewCodec(config.JWTConfig{Secret: "other_secret", AccessTTL: time.Hour, RefreshTTL: time.Hour}, func() time.Time { return base })
	claims, err := other.Verify(bare)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidToken))
	assert.Nil(t, claims)

	_, err = codec.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidToken))
}

func TestStripScheme(t *testing.T) {
	bare, err := StripScheme(SchemePrefix + "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", bare)

	_, err = StripScheme("")
	assert.True(t, appErrors.Is(err, appErrors.ErrTokenNotFound))

	_, err = StripScheme("abc")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidToken))
}
