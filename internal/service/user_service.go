package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id, name, passwordHash string) error
	MarkResigned(ctx context.Context, id string) error
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

// UserService covers signup, profile management and resignation.
type UserService struct {
	repo      userRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, audit AuditRecorder, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Signup registers a new account. Emails of resigned accounts stay
// burned, so the duplicate check covers every row regardless of status.
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest, meta models.RequestMeta) (*models.SignupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateUser, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	// Signup never assigns a role: everyone starts as USER, and the
	// admin-only routes stay closed to self-registered accounts.
	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Status:       models.UserStatusNormal,
		Role:         models.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	if s.audit != nil {
		s.audit.Record(&models.AuditLog{UserID: &user.ID, Action: models.AuditActionSignup, Detail: "account created", IPAddress: meta.IP, UserAgent: meta.UserAgent})
	}

	return &models.SignupResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

// Profile returns the account behind the token subject.
func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// UpdateProfile changes display name and optionally the password. The
// current password is always re-verified first.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	user, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadPassword, "")
	}

	newHash := user.PasswordHash
	if req.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		newHash = string(hash)
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, req.Name, newHash); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	user.Name = req.Name
	user.PasswordHash = newHash
	return user, nil
}

// Resign permanently blocks the account from authenticating and drops its
// session slot in the same statement.
func (s *UserService) Resign(ctx context.Context, email, password string, meta models.RequestMeta) error {
	user, err := s.Profile(ctx, email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return appErrors.Clone(appErrors.ErrBadPassword, "")
	}
	if user.Status == models.UserStatusResigned {
		return appErrors.Clone(appErrors.ErrResignedAccount, "")
	}

	if err := s.repo.MarkResigned(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resign user")
	}

	if s.audit != nil {
		s.audit.Record(&models.AuditLog{UserID: &user.ID, Action: models.AuditActionResign, Detail: "account resigned", IPAddress: meta.IP, UserAgent: meta.UserAgent})
	}

	return nil
}

// List returns paginated users for admin screens.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
