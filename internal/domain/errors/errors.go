package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidStatus    = errors.New("invalid order status")
)

// Invalidf wraps one of the validation sentinels with a human-readable detail.
func Invalidf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// IsValidation reports whether err belongs to the client-input failure class.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidStatus)
}
