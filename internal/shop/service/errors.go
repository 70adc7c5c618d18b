package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the shop business core. Handlers map these to HTTP
// status codes with errors.Is; services wrap them with context via fmt.Errorf
// and %w.
var (
	ErrNotFound     = errors.New("record not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrProtected    = errors.New("record is referenced and cannot be deleted")
)

// parseDate validates a YYYY-MM-DD request field. A malformed value is a
// validation error, never a silent drop.
func parseDate(field, value string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q, want YYYY-MM-DD", ErrValidation, field, value)
	}
	return &t, nil
}
