package export

import (
	"errors"
	"fmt"
)

var (
	// ErrExportInProgress is returned when an export is requested while
	// another one is still capturing.
	ErrExportInProgress = errors.New("export already in progress")
	// ErrCaptureTarget is returned when the capture root is missing from the
	// page handed to the exporter.
	ErrCaptureTarget = errors.New("capture target not found")
	// ErrCorruptImage is returned when the captured bytes are not a PNG of
	// the expected size.
	ErrCorruptImage = errors.New("captured image is corrupt")
)

// CaptureError wraps a browser failure with the attempt number it happened on.
type CaptureError struct {
	Attempt int
	Cause   error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed on attempt %d: %v", e.Attempt, e.Cause)
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}
