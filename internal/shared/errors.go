package shared

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the ledger facade. Callers match with errors.Is.
var (
	// ErrValidation indicates caller-supplied data failed domain constraints.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage indicates the underlying persistence operation failed.
	ErrStorage = errors.New("storage failure")
	// ErrCascadeIntegrity indicates a deletion could not cascade safely.
	ErrCascadeIntegrity = errors.New("cascade integrity violation")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Storagef wraps ErrStorage around an underlying persistence error.
func Storagef(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// Cascadef wraps ErrCascadeIntegrity with a formatted detail message.
func Cascadef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCascadeIntegrity, fmt.Sprintf(format, args...))
}

// UserSafeMessage returns a message suitable for display to the caller.
// Storage internals are hidden; domain errors pass through.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStorage):
		return "a storage error occurred, please try again"
	default:
		return err.Error()
	}
}
