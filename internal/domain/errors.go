package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLabelNotFound is matched by every *LookupError.
	ErrLabelNotFound = errors.New("label not found")

	// ErrOutOfRange reports a raw input outside the range the form allows.
	ErrOutOfRange = errors.New("value out of range")
)

// LookupError reports a category label that has no code in its enumeration.
// Form inputs are always drawn from the enumeration, so this indicates a bug
// in the caller rather than bad user input.
type LookupError struct {
	Category string // "season", "weather" or "weekday"
	Label    string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s label %q not found", e.Category, e.Label)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLabelNotFound
}
