package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrValidation       = errors.New("validation failed")
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNotReady         = errors.New("stream not ready")
	ErrTimeout          = errors.New("generation timed out")
	ErrProviderFailure  = errors.New("provider failure")
)

// VendorError carries the normalized failure of an external generation
// vendor: a stable human-readable message plus the raw vendor payload so
// the proxy can report both without leaking wire formats upstream.
type VendorError struct {
	Provider string
	Message  string
	Details  string
}

func (e *VendorError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *VendorError) Unwrap() error { return ErrProviderFailure }
