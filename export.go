// Package pdfdeck renders presentation decks to PDF.
//
// A deck is a deck.Document: cover copy, an ordered list of slides, a
// closing call to action, branding and optional images. Export lays the
// document out as a cover page, one page per slide and a call-to-action
// page, and writes it as an A4 PDF.
//
//	doc := deck.Default()
//	doc, _ = doc.WithField(deck.FieldCoverTitle, "HOW WE SHIP 99.99% UPTIME")
//	err := pdfdeck.ExportFile(pdfdeck.SuggestedFilename(doc), doc,
//		pdfdeck.WithContactCode(layout.CodeQR),
//		pdfdeck.WithWatermark("DRAFT"),
//	)
//
// Preview renders a single page to PNG for quick checks without a PDF viewer.
package pdfdeck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/layout"
	"github.com/bytespark/pdfdeck/pageops"
	"github.com/bytespark/pdfdeck/render"
)

const creator = "pdfdeck"

// Export renders doc and writes the PDF to w.
func Export(w io.Writer, doc deck.Document, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return newExportError("options", err)
	}
	pages, err := cfg.pages(doc)
	if err != nil {
		return err
	}
	meta := layout.Meta{
		Title:        doc.CoverTitle,
		Author:       doc.Branding,
		Subject:      doc.CoverSubtitle,
		Creator:      creator,
		CreationDate: cfg.creationDate,
		Metrics:      cfg.render.Metrics,
	}

	if cfg.watermark == nil && len(cfg.appendix) == 0 {
		if err := layout.WritePDF(w, pages, meta); err != nil {
			return newExportError("write", err)
		}
		return nil
	}
	return cfg.postProcess(w, pages, meta)
}

// postProcess writes the deck to a scratch file and runs it through the
// page operations, which work on files.
func (c *config) postProcess(w io.Writer, pages []layout.Page, meta layout.Meta) error {
	dir, err := os.MkdirTemp("", "pdfdeck-*")
	if err != nil {
		return newExportError("write", err)
	}
	defer os.RemoveAll(dir)

	current := filepath.Join(dir, "deck.pdf")
	if err := writeFile(current, func(f io.Writer) error { return layout.WritePDF(f, pages, meta) }); err != nil {
		return newExportError("write", err)
	}

	if len(c.appendix) > 0 {
		combined := filepath.Join(dir, "combined.pdf")
		inputs := append([]string{current}, c.appendix...)
		if err := pageops.AppendFile(combined, inputs...); err != nil {
			return newExportError("append", err)
		}
		current = combined
	}

	if c.watermark != nil {
		if err := pageops.Watermark(w, current, *c.watermark); err != nil {
			return newExportError("watermark", err)
		}
		return nil
	}

	f, err := os.Open(current)
	if err != nil {
		return newExportError("write", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return newExportError("write", err)
	}
	return nil
}

// ExportFile is Export writing to path. A partially written file is removed
// on failure.
func ExportFile(path string, doc deck.Document, opts ...Option) error {
	err := writeFile(path, func(w io.Writer) error { return Export(w, doc, opts...) })
	if err != nil {
		os.Remove(path)
	}
	return err
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Preview renders page n (1 is the cover) of doc as a PNG.
func Preview(w io.Writer, doc deck.Document, n int, opts ...Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return newExportError("options", err)
	}
	pages, err := cfg.pages(doc)
	if err != nil {
		return err
	}
	if n < 1 || n > len(pages) {
		return fmt.Errorf("%w: %d of %d", ErrPageRange, n, len(pages))
	}
	if err := layout.WritePNG(w, pages[n-1], cfg.scale, cfg.render.Metrics); err != nil {
		return newExportError("preview", err)
	}
	return nil
}

func (c *config) pages(doc deck.Document) ([]layout.Page, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	pages, err := render.Pages(doc, c.render)
	if err != nil {
		return nil, newExportError("render", err)
	}
	return pages, nil
}

// SuggestedFilename returns "<branding>-presentation.pdf", with the branding
// reduced to characters that are safe in file names, or "presentation.pdf"
// when nothing is left.
func SuggestedFilename(doc deck.Document) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		case unicode.IsSpace(r):
			return '-'
		}
		return -1
	}, strings.TrimSpace(doc.Branding))
	name = strings.Trim(name, ".-")
	if name == "" {
		return "presentation.pdf"
	}
	return name + "-presentation.pdf"
}
