package entity

import "errors"

var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already registered")
	ErrTelefoneExists = errors.New("telefone already registered")
	ErrInvalidEmail   = errors.New("invalid email format")

	// Process errors
	ErrProcessNotFound      = errors.New("process not found")
	ErrProcessNumberExists  = errors.New("process number already registered")
	ErrProcessAlreadyClosed = errors.New("process already closed")

	// Schedule errors
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrScheduleOverlap   = errors.New("schedule overlaps an existing one")
	ErrScheduleDuplicate = errors.New("schedule duplicates an existing one")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationNotSent  = errors.New("notification was not delivered yet")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
	ErrUnauthorized  = errors.New("unauthorized access")
	ErrForbidden     = errors.New("forbidden operation")
)
