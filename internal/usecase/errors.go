package usecase

import (
	"errors"
	"fmt"

	"resume-builder/internal/export"
	"resume-builder/internal/model"
)

var (
	ErrInvalidIndex = errors.New("index out of range")
	ErrPersist      = errors.New("persist failed")
	ErrInvalidStep  = errors.New("step out of range")
	// ErrUnknownField aliases model.ErrUnknownField so callers need one import.
	ErrUnknownField = model.ErrUnknownField
	// ErrBusy is returned while an AI improvement or export is running.
	ErrBusy = export.ErrBusy
)

// IndexError reports an out-of-range positional operation.
type IndexError struct {
	Collection string
	Index      int
	Len        int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Collection, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

// PersistError wraps a storage write failure. The in-memory change that
// triggered it is kept.
type PersistError struct {
	Key   string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Cause)
}

func (e *PersistError) Unwrap() []error { return []error{ErrPersist, e.Cause} }

// ValidationError carries a user-facing message for rejected input.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }
