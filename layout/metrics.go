package layout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"
)

// FontFile is a TrueType font registered under Family/Style. Text set in a
// registered family is written as UTF-8; core fonts go through cp1252.
type FontFile struct {
	Family string
	Style  string
	Data   []byte
}

// Metrics measures strings with the same font tables the PDF writer uses, so
// wrapping decisions match the output exactly.
type Metrics struct {
	mu    sync.Mutex
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	faces map[string]bool // lower(family) + upper(style)
	fonts []FontFile
}

var (
	coreOnce    sync.Once
	coreMetrics *Metrics
)

// CoreMetrics returns a shared Metrics for the PDF core fonts.
func CoreMetrics() *Metrics {
	coreOnce.Do(func() {
		coreMetrics, _ = NewMetrics()
	})
	return coreMetrics
}

// NewMetrics returns a Metrics that knows the core fonts plus fonts.
func NewMetrics(fonts ...FontFile) (*Metrics, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	m := &Metrics{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		faces: make(map[string]bool),
		fonts: fonts,
	}
	for _, f := range fonts {
		pdf.AddUTF8FontFromBytes(f.Family, f.Style, f.Data)
		if pdf.Err() {
			return nil, fmt.Errorf("layout: registering font %s: %w", f.Family, pdf.Error())
		}
		m.faces[faceKey(f.Family, f.Style)] = true
	}
	return m, nil
}

func faceKey(family, style string) string {
	return strings.ToLower(family) + strings.ToUpper(style)
}

// Fonts returns the registered font files.
func (m *Metrics) Fonts() []FontFile {
	return m.fonts
}

// IsUTF8 reports whether the face of f was registered from a FontFile.
func (m *Metrics) IsUTF8(f Font) bool {
	return m.faces[faceKey(f.Family, f.Style)]
}

var coreFamilies = map[string]bool{
	"courier": true, "helvetica": true, "arial": true, "times": true,
}

// Resolve maps faces that were never registered to a core font so a typo
// cannot put the underlying writer into its error state. A registered family
// missing the requested style falls back to its regular face.
func (m *Metrics) Resolve(f Font) Font {
	if coreFamilies[strings.ToLower(f.Family)] || m.IsUTF8(f) {
		return f
	}
	if m.faces[faceKey(f.Family, "")] {
		f.Style = ""
		return f
	}
	f.Family = "Helvetica"
	return f
}

// Width returns the advance width of s in points.
func (m *Metrics) Width(s string, f Font) float64 {
	if s == "" {
		return 0
	}
	f = m.Resolve(f)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	if !m.IsUTF8(f) {
		s = m.tr(s)
	}
	return m.pdf.GetStringWidth(s)
}
