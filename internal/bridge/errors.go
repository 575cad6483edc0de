package bridge

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a rejected viewer command
type ErrorType int

const (
	// ErrTypeParse indicates a message that is not a JSON command
	ErrTypeParse ErrorType = iota
	// ErrTypeValidation indicates a command with missing or unknown fields
	ErrTypeValidation
	// ErrTypeLookup indicates a path that does not address the live table
	ErrTypeLookup
	// ErrTypeNotEditable indicates a delete on a row that cannot be deleted
	ErrTypeNotEditable
	// ErrTypeUnavailable indicates the table is not bound or not answering
	ErrTypeUnavailable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeLookup:
		return "Lookup Error"
	case ErrTypeNotEditable:
		return "Not Editable"
	case ErrTypeUnavailable:
		return "Unavailable"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// CommandError is reported to the viewer that sent a rejected command.
type CommandError struct {
	Type    ErrorType
	Command string
	Message string
	Err     error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	prefix := e.Type.String()
	if e.Command != "" {
		prefix += " (" + e.Command + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsCommandError checks if err is a CommandError of type t
func IsCommandError(err error, t ErrorType) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Type == t
}
