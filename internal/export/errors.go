package export

import (
	"errors"
	"fmt"
)

const (
	AlertPDF           = "Failed to generate PDF. Please try again."
	AlertWord          = "Failed to generate document."
	AlertPDFNoContent  = "Could not find resume content to generate PDF."
	AlertWordNoContent = "Could not find resume content."
)

var (
	// ErrBusy is returned when an export is requested while another runs.
	ErrBusy = errors.New("export already in progress")
	// ErrNoContent means the rendered page has no preview element.
	ErrNoContent = errors.New("preview element not found")
)

// ExportError carries the user-facing alert for a failed export.
type ExportError struct {
	Format Format
	Alert  string
	Cause  error
}

func (e *ExportError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("export %s: %s", e.Format, e.Alert)
	}
	return fmt.Sprintf("export %s: %v", e.Format, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }
