package content

import (
	"errors"
	"fmt"
)

// ErrProjectNotFound is returned when a project id has no match in the store.
var ErrProjectNotFound = errors.New("project not found")

// LoadError represents an error during reading, schema validation or JSON decoding
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// IntegrityError represents a document that decodes but breaks a store invariant,
// such as a duplicated id or a featured project that does not exist.
type IntegrityError struct {
	Message string
	Cause   error
}

func (e *IntegrityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("integrity error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("integrity error: %s", e.Message)
}

func (e *IntegrityError) Unwrap() error {
	return e.Cause
}
