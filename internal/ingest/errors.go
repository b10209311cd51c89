package ingest

import (
	"errors"
	"fmt"
)

// Import failure kinds. Match with errors.Is.
var (
	// ErrInvalidFormat: empty content or header mismatch.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrParse: the bytes could not be decoded as text.
	ErrParse = errors.New("parse error")
)

// ImportError is a whole-file failure. No partial result accompanies it.
type ImportError struct {
	Kind    error
	Message string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Kind
}

// InvalidFormat builds an ImportError of kind ErrInvalidFormat.
func InvalidFormat(format string, args ...any) *ImportError {
	return &ImportError{Kind: ErrInvalidFormat, Message: fmt.Sprintf(format, args...)}
}

// ParseError builds an ImportError of kind ErrParse.
func ParseError(format string, args ...any) *ImportError {
	return &ImportError{Kind: ErrParse, Message: fmt.Sprintf(format, args...)}
}
