package table

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/tablekit/internal/logging"
)

// ErrorType represents the category of a lookup failure
type ErrorType int

const (
	// ErrTypeSectionNotFound indicates a section index outside the live sequence
	ErrTypeSectionNotFound ErrorType = iota
	// ErrTypeRowNotFound indicates a row index outside its section
	ErrTypeRowNotFound
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeSectionNotFound:
		return "Section Not Found"
	case ErrTypeRowNotFound:
		return "Row Not Found"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// LookupError is returned when a coordinate does not address the live
// sequence. Hosts calling back with a stale coordinate mid-update should
// expect it.
type LookupError struct {
	Type    ErrorType
	Section int
	Row     int // only meaningful for ErrTypeRowNotFound
}

// Error implements the error interface
func (e *LookupError) Error() string {
	if e.Type == ErrTypeRowNotFound {
		return fmt.Sprintf("%s: row %d does not exist in section %d", e.Type, e.Row, e.Section)
	}
	return fmt.Sprintf("%s: section %d does not exist", e.Type, e.Section)
}

// IndexPath returns the coordinate that failed to resolve
func (e *LookupError) IndexPath() IndexPath {
	return IndexPath{Section: e.Section, Row: e.Row}
}

func newSectionNotFound(index int) *LookupError {
	return &LookupError{Type: ErrTypeSectionNotFound, Section: index}
}

func newRowNotFound(path IndexPath) *LookupError {
	return &LookupError{Type: ErrTypeRowNotFound, Section: path.Section, Row: path.Row}
}

// IsSectionNotFound checks if an error is a missing-section lookup error
func IsSectionNotFound(err error) bool {
	var le *LookupError
	return errors.As(err, &le) && le.Type == ErrTypeSectionNotFound
}

// IsRowNotFound checks if an error is a missing-row lookup error
func IsRowNotFound(err error) bool {
	var le *LookupError
	return errors.As(err, &le) && le.Type == ErrTypeRowNotFound
}

// PreconditionError is the panic value raised when the table is used in a
// way that can only be a programming mistake, such as adding a row without
// starting an update.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Message
}

// precondition panics with a PreconditionError when ok is false.
func precondition(ok bool, message string) {
	if ok {
		return
	}
	logging.Error("Table contract violated", zap.String("reason", message))
	panic(&PreconditionError{Message: message})
}
