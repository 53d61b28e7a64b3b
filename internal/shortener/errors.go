package shortener

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL          = errors.New("invalid url: use http or https")
	ErrInvalidFormat       = errors.New("custom code must be 6-8 characters [A-Za-z0-9]")
	ErrAlreadyExists       = errors.New("code already exists")
	ErrAllocationExhausted = errors.New("could not generate unique code")
	ErrNotFound            = errors.New("code not found")

	// ErrStoreUnavailable wraps every failure talking to the underlying store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeError tags err as a store failure unless it already carries a known kind.
func storeError(err error) error {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
