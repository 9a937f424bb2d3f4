package pdfdeck

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/layout"
	"github.com/bytespark/pdfdeck/pageops"
)

func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page\n"))
}

func TestExport(t *testing.T) {
	doc := deck.Default()
	var buf bytes.Buffer
	if err := Export(&buf, doc, WithCreationDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	if n := countPages(buf.Bytes()); n != len(doc.Slides)+2 {
		t.Fatalf("expected %d pages, got %d", len(doc.Slides)+2, n)
	}
}

func TestExportPageCounts(t *testing.T) {
	doc := deck.Default()
	for _, slides := range []int{1, 2, 6} {
		for len(doc.Slides) < slides {
			doc = doc.AddSlide()
		}
		for len(doc.Slides) > slides {
			doc, _ = doc.RemoveSlide(0)
		}
		var buf bytes.Buffer
		if err := Export(&buf, doc, WithAlternateBackground(), WithContactCode(layout.CodePDF417)); err != nil {
			t.Fatalf("%d slides: %v", slides, err)
		}
		if n := countPages(buf.Bytes()); n != slides+2 {
			t.Fatalf("%d slides: expected %d pages, got %d", slides, slides+2, n)
		}
	}
}

func TestExportInvalidDocument(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, deck.Document{CoverTitle: "empty"})
	if !errors.Is(err, ErrInvalidDocument) || !errors.Is(err, deck.ErrNoSlides) {
		t.Fatalf("expected ErrInvalidDocument wrapping ErrNoSlides, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("nothing should be written for an invalid document")
	}
}

func TestExportMissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, deck.Default(), WithFontFile("Inter", "", filepath.Join(t.TempDir(), "missing.ttf")))
	var ee *ExportError
	if !errors.As(err, &ee) || ee.Op != "options" {
		t.Fatalf("expected an options ExportError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected the file error to be wrapped, got %v", err)
	}
}

func TestExportFileWithPostProcessing(t *testing.T) {
	dir := t.TempDir()
	appendix := filepath.Join(dir, "appendix.pdf")
	if err := ExportFile(appendix, deck.Default()); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	out := filepath.Join(dir, "final.pdf")
	if err := ExportFile(out, deck.Default(), WithAppendix(appendix), WithWatermark("DRAFT")); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	n, err := pageops.PageCount(out)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 10 {
		t.Fatalf("expected 5 deck pages plus 5 appendix pages, got %d", n)
	}
}

func TestExportAppendixPagesAreDistinct(t *testing.T) {
	dir := t.TempDir()
	appendix := filepath.Join(dir, "appendix.pdf")
	if err := ExportFile(appendix, deck.Default()); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	var buf bytes.Buffer
	if err := Export(&buf, deck.Default(), WithAppendix(appendix)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	names := make(map[string]bool)
	for _, m := range regexp.MustCompile(`/GOFPDITPL\d+ \d+ 0 R`).FindAll(buf.Bytes(), -1) {
		names[string(m)] = true
	}
	if len(names) != 10 {
		t.Fatalf("expected 10 distinct page templates, got %d", len(names))
	}
}

func TestExportFileRemovesPartialOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "broken.pdf")
	err := ExportFile(out, deck.Default(), WithAppendix(filepath.Join(t.TempDir(), "missing.pdf")))
	var ee *ExportError
	if !errors.As(err, &ee) || ee.Op != "append" {
		t.Fatalf("expected an append ExportError, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("partial output was left behind")
	}
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := Preview(&buf, deck.Default(), 2, WithPreviewScale(0.5)); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatal("Preview did not produce a PNG")
	}

	for _, n := range []int{0, 6} {
		if err := Preview(&bytes.Buffer{}, deck.Default(), n); !errors.Is(err, ErrPageRange) {
			t.Errorf("page %d: expected ErrPageRange, got %v", n, err)
		}
	}
}

func TestSuggestedFilename(t *testing.T) {
	tests := []struct {
		branding string
		want     string
	}{
		{"bytespark", "bytespark-presentation.pdf"},
		{"Acme Corp", "Acme-Corp-presentation.pdf"},
		{"../../etc/passwd", "etcpasswd-presentation.pdf"},
		{"Café Müller", "Café-Müller-presentation.pdf"},
		{"   ", "presentation.pdf"},
		{"///", "presentation.pdf"},
	}
	for _, tt := range tests {
		doc, err := deck.Default().WithField(deck.FieldBranding, tt.branding)
		if err != nil {
			t.Fatal(err)
		}
		if got := SuggestedFilename(doc); got != tt.want {
			t.Errorf("SuggestedFilename(%q) = %q, want %q", tt.branding, got, tt.want)
		}
	}
}
