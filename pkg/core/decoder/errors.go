package decoder

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrInputMissing is returned for empty or whitespace-only input.
	ErrInputMissing = errors.New("serialized data is required")

	// ErrFormatUndetermined matches any *UndeterminedError.
	ErrFormatUndetermined = errors.New("format undetermined")
)

// FormatParseError reports a grammar violation in input that was parsed as
// Format. Offset is the byte position of the offending token, or -1 when the
// parser could not tell.
type FormatParseError struct {
	Format string
	Offset int
	Detail string
}

func (e *FormatParseError) Error() string {
	action := "parsing"
	if e.Format == FormatPHP {
		action = "unserialization"
	}
	if e.Offset < 0 {
		return fmt.Sprintf("%s %s failed: %s", e.Format, action, e.Detail)
	}
	return fmt.Sprintf("%s %s failed: %s at offset %d", e.Format, action, e.Detail, e.Offset)
}

// UndeterminedError is returned when neither grammar accepted the input.
// It unwraps to the individual attempt errors.
type UndeterminedError struct {
	attempts error
}

func newUndeterminedError(jsonErr, phpErr error) *UndeterminedError {
	return &UndeterminedError{attempts: multierr.Combine(jsonErr, phpErr)}
}

func (e *UndeterminedError) Error() string {
	return "Unable to parse as PHP or JSON. Please check the format."
}

func (e *UndeterminedError) Unwrap() error { return e.attempts }

func (e *UndeterminedError) Is(target error) bool { return target == ErrFormatUndetermined }

// Attempts returns the errors of the JSON and PHP attempts, in that order.
func (e *UndeterminedError) Attempts() []error {
	return multierr.Errors(e.attempts)
}
