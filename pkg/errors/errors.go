package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Authentication and session errors.
var (
	// ErrBadLogin merges "no such user" and "wrong password" so responses
	// never reveal which field was wrong.
	ErrBadLogin            = New("BAD_LOGIN", http.StatusBadRequest, "please enter a valid email and password")
	ErrResignedAccount     = New("ACCOUNT_RESIGNED", http.StatusForbidden, "this account has been resigned")
	ErrDuplicateUser       = New("DUPLICATE_USER", http.StatusBadRequest, "a duplicate or resigned user already exists")
	ErrUserNotFound        = New("USER_NOT_FOUND", http.StatusBadRequest, "user is not registered")
	ErrTokenNotFound       = New("TOKEN_NOT_FOUND", http.StatusUnauthorized, "token not found")
	ErrInvalidToken        = New("INVALID_TOKEN", http.StatusUnauthorized, "invalid token")
	ErrExpiredToken        = New("EXPIRED_TOKEN", http.StatusForbidden, "token expired, reissue required")
	ErrExpiredRefreshToken = New("EXPIRED_REFRESH_TOKEN", http.StatusForbidden, "refresh token expired, please log in again")
	ErrSessionMismatch     = New("SESSION_MISMATCH", http.StatusUnauthorized, "session is no longer valid, please log in again")
	ErrTokenValidation     = New("TOKEN_VALIDATION", http.StatusInternalServerError, "token validation error")
	ErrLoginRequired       = New("LOGIN_REQUIRED", http.StatusUnauthorized, "login is required for this service")
	ErrBadPassword         = New("BAD_PASSWORD", http.StatusBadRequest, "current password does not match")
)

// Board domain errors.
var (
	ErrNotAuthor       = New("NOT_AUTHOR", http.StatusUnauthorized, "only the author or an admin can modify this")
	ErrPostNotFound    = New("POST_NOT_FOUND", http.StatusBadRequest, "post does not exist")
	ErrInvalidCategory = New("INVALID_CATEGORY", http.StatusBadRequest, "category must be one of DAILY_SHARE, CONSULT or ANONYMOUS_DEBATE")
	ErrCommentNotFound = New("COMMENT_NOT_FOUND", http.StatusBadRequest, "comment does not exist")

	ErrLikeTargetMissing = New("LIKE_TARGET_MISSING", http.StatusNotFound, "like target not found")
	ErrAlreadyLiked      = New("ALREADY_LIKED", http.StatusBadRequest, "already liked")
	ErrCannotLikeOwn     = New("CANNOT_LIKE_OWN", http.StatusBadRequest, "cannot like your own content")
	ErrLikeNotFound      = New("LIKE_NOT_FOUND", http.StatusBadRequest, "like not found")
)

// Generic errors.
var (
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrForbidden       = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized    = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrNotFound        = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrTooManyRequests = New("TOO_MANY_REQUESTS", http.StatusTooManyRequests, "too many attempts, try again later")
	ErrInternal        = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same error code as target.
func Is(err error, target *Error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return target != nil && e.Code == target.Code
}
