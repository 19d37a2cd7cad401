package user

import (
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(apperror.KindNotFound, "user not found")
	ErrUsernameTaken      = apperror.New(apperror.KindConflict, "username already taken")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid username or password")
	ErrUsernameRequired   = apperror.New(apperror.KindValidation, "username is required")
	ErrPasswordTooShort   = apperror.New(apperror.KindValidation, "password must be at least 8 characters")
)

// User represents an account that can hold bookings.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
