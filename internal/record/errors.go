package record

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate  = errors.New("invalid calendar date")
	ErrUnknownValue = errors.New("value not in vocabulary")
	ErrNotFound     = errors.New("health record not found")
)

// FetchError is the single condition reported when the data-access
// collaborator cannot produce a record.
type FetchError struct {
	ID  int
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch health record %d failed: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err says the record does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
