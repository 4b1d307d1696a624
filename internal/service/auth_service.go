package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, id string, refreshToken string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

// AuditRecorder receives auth events for asynchronous persistence.
type AuditRecorder interface {
	Record(log *models.AuditLog)
}

// TokenPair carries freshly issued tokens to the cookie layer. Both
// values still wear the transport prefix.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthService orchestrates login, token reissue and logout over the
// identity's single session slot.
type AuthService struct {
	repo      authUserRepository
	codec     *token.Codec
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, codec *token.Codec, audit AuditRecorder, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, codec: codec, audit: audit, validator: validate, logger: logger}
}

// Login authenticates credentials and issues a fresh token pair. A lookup
// miss and a password mismatch collapse into the same BadLogin error so
// responses never reveal which half was wrong. Resigned accounts are
// rejected after the password check, as a policy failure rather than an
// authentication one, and receive no tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, meta models.RequestMeta) (*TokenPair, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadLogin.Code, appErrors.ErrBadLogin.Status, appErrors.ErrBadLogin.Message)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBadLogin, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadLogin, "")
	}

	if user.Status == models.UserStatusResigned {
		return nil, appErrors.Clone(appErrors.ErrResignedAccount, "")
	}

	refreshToken, err := s.codec.Issue(user.Email, user.Role, token.KindRefresh)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.codec.Issue(user.Email, user.Role, token.KindAccess)
	if err != nil {
		return nil, err
	}

	// Bind before returning: the stored copy, not the issuance, is
	// authoritative for the refresh flow.
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bind refresh token")
	}

	s.record(&user.ID, models.AuditActionLogin, "login succeeded", meta)

	return &TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Reissue exchanges a presented refresh token for a new access token. The
// presented value must parse as a valid, unexpired token and must equal
// the stored session slot exactly; a mismatch means the session was
// superseded by a later login or cleared by logout, and the client should
// log in again.
func (s *AuthService) Reissue(ctx context.Context, rawRefresh string, meta models.RequestMeta) (string, error) {
	presented, err := token.StripScheme(rawRefresh)
	if err != nil {
		return "", err
	}

	claims, err := s.codec.Verify(presented)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrExpiredToken) {
			return "", appErrors.Clone(appErrors.ErrExpiredRefreshToken, "")
		}
		return "", err
	}

	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if user.RefreshToken == nil {
		return "", appErrors.Clone(appErrors.ErrSessionMismatch, "")
	}
	stored, err := token.StripScheme(*user.RefreshToken)
	if err != nil || stored != presented {
		return "", appErrors.Clone(appErrors.ErrSessionMismatch, "")
	}

	accessToken, err := s.codec.Issue(user.Email, user.Role, token.KindAccess)
	if err != nil {
		return "", err
	}

	s.record(&user.ID, models.AuditActionRefresh, "access token reissued", meta)

	return accessToken, nil
}

// Logout clears the session slot for the subject of the presented access
// token. Expired access tokens are accepted here: logout is cleanup, not
// authorization, so a stale token still identifies whose slot to clear.
// Tampered tokens are rejected since the subject cannot be trusted.
func (s *AuthService) Logout(ctx context.Context, rawAccess string, meta models.RequestMeta) error {
	presented, err := token.StripScheme(rawAccess)
	if err != nil {
		return err
	}

	claims, err := s.codec.Verify(presented)
	if err != nil && !appErrors.Is(err, appErrors.ErrExpiredToken) {
		return err
	}

	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := s.repo.ClearRefreshToken(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear refresh token")
	}

	s.record(&user.ID, models.AuditActionLogout, "logout", meta)

	return nil
}

// ValidateAccess verifies a raw access token from the request cookie and
// returns its claims for per-request authorization.
func (s *AuthService) ValidateAccess(rawAccess string) (*models.TokenClaims, error) {
	presented, err := token.StripScheme(rawAccess)
	if err != nil {
		return nil, err
	}
	claims, err := s.codec.Verify(presented)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) record(userID *string, action, detail string, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	s.audit.Record(&models.AuditLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})
}
