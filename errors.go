package pdfdeck

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument is returned for documents that cannot be rendered,
	// such as one without slides.
	ErrInvalidDocument = errors.New("pdfdeck: invalid document")

	// ErrPageRange is returned by Preview for a page number outside the deck.
	ErrPageRange = errors.New("pdfdeck: page out of range")
)

// ExportError is an error that occurred during one stage of an export.
type ExportError struct {
	Op  string // "options", "render", "write", "append", "watermark", "preview"
	Err error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfdeck.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pdfdeck.%s: unknown error", e.Op)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func newExportError(op string, err error) *ExportError {
	return &ExportError{Op: op, Err: err}
}
