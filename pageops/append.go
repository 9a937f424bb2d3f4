package pageops

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Append writes the pages of every input, in order, as one PDF to w.
func Append(w io.Writer, inputPaths ...string) error {
	pdf, err := appendAll(inputPaths)
	if err != nil {
		return err
	}
	return write(pdf, w)
}

// AppendFile is Append writing to outputPath.
func AppendFile(outputPath string, inputPaths ...string) error {
	pdf, err := appendAll(inputPaths)
	if err != nil {
		return err
	}
	return writeFile(pdf, outputPath)
}

func appendAll(inputPaths []string) (*gofpdf.Fpdf, error) {
	if len(inputPaths) == 0 {
		return nil, ErrNoInput
	}
	pdf := newDocument()
	in := newImporter()
	for _, path := range inputPaths {
		if err := in.copyPages(pdf, path, nil); err != nil {
			return nil, fmt.Errorf("pageops: appending %s: %w", path, err)
		}
	}
	return pdf, nil
}
