package editor

import "errors"

var (
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrPickerIdle      = errors.New("date picker is not open")
	ErrPickerOpen      = errors.New("date picker is already open")
	ErrClosed          = errors.New("editor already closed")
	ErrUnknownSection  = errors.New("no editor for section")
)

// ValidationError is a user-correctable problem found when saving a draft.
// Index is the offending item, or -1 when the rule applies to the whole section.
type ValidationError struct {
	Rule    string
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
