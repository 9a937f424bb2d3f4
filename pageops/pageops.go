// Package pageops post-processes exported decks: stamping a text watermark
// on every page and appending the pages of other PDF files.
//
// Input pages are imported as templates with the gofpdi contrib package and
// drawn into a fresh gofpdf document, so the output is always a newly
// written PDF regardless of how the input was produced.
package pageops

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

var (
	ErrNoInput = errors.New("pageops: no input files provided")
	ErrNoPages = errors.New("pageops: document has no pages")
	ErrNoText  = errors.New("pageops: watermark text is empty")
)

// a4 is used for pages whose media box cannot be read.
var a4 = gofpdf.SizeType{Wd: 595.28, Ht: 841.89}

// importer imports pages of any number of input files into one output
// document. All files share a single gofpdi importer so template names stay
// unique across them; each file's pages are imported at most once.
type importer struct {
	imp   *gofpdi.Importer
	files map[string]*importedFile
}

// importedFile holds the template ids and page boxes of one input file.
type importedFile struct {
	path  string
	tpls  map[int]int
	sizes map[int]map[string]map[string]float64
}

func newImporter() *importer {
	return &importer{imp: gofpdi.NewImporter(), files: make(map[string]*importedFile)}
}

// guard turns panics raised by the importer on unreadable input into errors.
func guard(path string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pageops: reading %s: %v", path, r)
	}
}

// open imports the first page of path into pdf and records the page boxes
// of the whole file.
func (in *importer) open(pdf *gofpdf.Fpdf, path string) (f *importedFile, err error) {
	if f, ok := in.files[path]; ok {
		return f, nil
	}
	defer guard(path, &err)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("pageops: %w", err)
	}
	tpl := in.imp.ImportPage(pdf, path, 1, "/MediaBox")
	// Page boxes belong to the importer's current source, which is path
	// only until another file is imported.
	sizes := in.imp.GetPageSizes()
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPages, path)
	}
	f = &importedFile{path: path, tpls: map[int]int{1: tpl}, sizes: sizes}
	in.files[path] = f
	return f, nil
}

func (f *importedFile) pageCount() int { return len(f.sizes) }

// size returns the media box of page n, or A4 when it cannot be read.
func (f *importedFile) size(n int) gofpdf.SizeType {
	if dims, ok := f.sizes[n]; ok {
		if mb, ok := dims["/MediaBox"]; ok && mb["w"] > 0 && mb["h"] > 0 {
			return gofpdf.SizeType{Wd: mb["w"], Ht: mb["h"]}
		}
	}
	return a4
}

// page imports page n (1-based) of f and returns its template id.
func (in *importer) page(pdf *gofpdf.Fpdf, f *importedFile, n int) (tpl int, err error) {
	if tpl, ok := f.tpls[n]; ok {
		return tpl, nil
	}
	defer guard(f.path, &err)
	tpl = in.imp.ImportPage(pdf, f.path, n, "/MediaBox")
	f.tpls[n] = tpl
	return tpl, nil
}

// copyPages appends every page of path to pdf, calling overlay after each
// one is drawn.
func (in *importer) copyPages(pdf *gofpdf.Fpdf, path string, overlay func(size gofpdf.SizeType)) error {
	f, err := in.open(pdf, path)
	if err != nil {
		return err
	}
	for i := 1; i <= f.pageCount(); i++ {
		tpl, err := in.page(pdf, f, i)
		if err != nil {
			return err
		}
		size := f.size(i)
		pdf.AddPageFormat("P", size)
		in.imp.UseImportedTemplate(pdf, tpl, 0, 0, size.Wd, size.Ht)
		if overlay != nil {
			overlay(size)
		}
	}
	return pdf.Error()
}

func newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	return pdf
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	f, err := newImporter().open(newDocument(), path)
	if err != nil {
		return 0, err
	}
	return f.pageCount(), nil
}

func write(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pageops: writing output: %w", err)
	}
	return nil
}

func writeFile(pdf *gofpdf.Fpdf, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pageops: creating %s: %w", path, err)
	}
	if err := write(pdf, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
