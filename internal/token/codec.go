package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

// SchemePrefix is the fixed transport marker carried by every issued
// token, in cookies and in the persisted session slot alike.
const SchemePrefix = "Bearer "

// Kind selects the TTL applied at issuance.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

// Codec issues and verifies signed, time-bound tokens. Verification is a
// pure function of (token, secret, clock); only the refresh flow ever
// consults persistent state.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewCodec builds a codec from JWT configuration. A nil clock defaults to
// time.Now; tests inject a fixed clock to pin expiry boundaries.
func NewCodec(cfg config.JWTConfig, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        now,
	}
}

// TTL returns the lifetime applied to the given token kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token for the subject and role, stamped with an absolute
// expiry of now + ttl(kind). The returned string carries SchemePrefix.
// A jti claim keeps two issuances distinct even when they land in the
// same second, where iat/exp alone would collide.
func (c *Codec) Issue(subject string, role models.UserRole, kind Kind) (string, error) {
	issuedAt := c.now().UTC()
	claims := &models.TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.TTL(kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTokenValidation.Code, appErrors.ErrTokenValidation.Status, "failed to sign token")
	}
	return SchemePrefix + signed, nil
}

// Verify parses a bare (prefix-stripped) token. Expired tokens return the
// decoded claims alongside ErrExpiredToken so lenient callers such as
// logout can still resolve the subject. Tampered or malformed tokens
// return ErrInvalidToken with no claims.
func (c *Codec) Verify(bare string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	_, err := jwt.ParseWithClaims(bare, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err == nil {
		return claims, nil
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return claims, appErrors.Wrap(err, appErrors.ErrExpiredToken.Code, appErrors.ErrExpiredToken.Status, appErrors.ErrExpiredToken.Message)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, appErrors.ErrInvalidToken.Message)
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrTokenValidation.Code, appErrors.ErrTokenValidation.Status, appErrors.ErrTokenValidation.Message)
	}
}

// StripScheme removes the transport prefix from a raw token value. An
// empty value means no token was presented at all; a non-empty value
// without the prefix is treated as invalid, never verified as-is.
func StripScheme(raw string) (string, error) {
	if raw == "" {
		return "", appErrors.Clone(appErrors.ErrTokenNotFound, "")
	}
	if !strings.HasPrefix(raw, SchemePrefix) {
		return "", appErrors.Clone(appErrors.ErrInvalidToken, "token scheme prefix missing")
	}
	return raw[len(SchemePrefix):], nil
}
