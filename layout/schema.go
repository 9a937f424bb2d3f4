// Package layout describes positioned pages and writes them out, either as a
// PDF (gofpdf) or as a raster preview (gg).
//
// Pages are plain data: every element carries its final box in points, and
// text elements carry their already-wrapped lines. Both writers therefore draw
// the same geometry, and a page can be compared with reflect.DeepEqual.
//
// Pages are normally assembled with a Builder:
//
//	b := layout.NewBuilder(layout.A4, layout.Hex("#020024"), layout.CoreMetrics())
//	b.AddBlock(layout.Box{X: 40, Y: 40, W: 60, H: 36}, layout.Hex("#7C3AED"), 18)
//	b.AddText(layout.Box{X: 60, Y: 140, W: 480}, style, layout.Run{Text: "Hello", Color: layout.White})
//	page, err := b.Page()
package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytespark/pdfdeck/deck"
)

// Size is a page size in points.
type Size struct {
	W, H float64
}

// A4 portrait in points.
var A4 = Size{W: 595.28, H: 841.89}

// Color is an RGB color.
type Color struct {
	R, G, B int
}

// White is the default text color on dark pages.
var White = Color{255, 255, 255}

// Hex parses "#RRGGBB" (the leading # is optional). Malformed input yields
// black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// String formats c as #RRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Font specifies a font face. Family is a PDF core font (Helvetica, Times,
// Courier) or a family registered through a FontFile.
type Font struct {
	Family string
	Style  string // "" (regular), "B", "I", "BI"
	Size   float64
}

// Bold reports whether the style includes bold.
func (f Font) Bold() bool {
	return strings.Contains(strings.ToUpper(f.Style), "B")
}

// Align is the horizontal alignment of text lines inside their box.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// TextStyle controls how runs are measured and wrapped.
type TextStyle struct {
	Font       Font
	LineHeight float64 // multiple of the font size; 0 means 1.2
	Align      Align
}

func (s TextStyle) lineAdvance() float64 {
	lh := s.LineHeight
	if lh <= 0 {
		lh = 1.2
	}
	return s.Font.Size * lh
}

// Run is a piece of text drawn in one color.
type Run struct {
	Text  string
	Color Color
}

// Segment is a measured piece of a wrapped line. X is relative to the box.
type Segment struct {
	X     float64
	Text  string
	Color Color
}

// Line is one wrapped line. Baseline is relative to the top of the box.
type Line struct {
	Baseline float64
	Width    float64
	Segments []Segment
}

// Box is a rectangle in points, origin at the top-left of the page.
type Box struct {
	X, Y, W, H float64
}

// Point is a position in points.
type Point struct {
	X, Y float64
}

// Kind selects how an Element is drawn.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindBlock Kind = "block" // filled, optionally rounded, rectangle
	KindShape Kind = "shape" // filled polygon
	KindCode  Kind = "code"  // 2D barcode
)

// CodeKind is the symbology of a Code element.
type CodeKind string

const (
	CodeQR     CodeKind = "qr"
	CodePDF417 CodeKind = "pdf417"
)

// Code is a 2D barcode payload.
type Code struct {
	Kind  CodeKind
	Value string
}

// Element is a single positioned item on a page. Kind determines which of
// the remaining fields are used.
type Element struct {
	Kind Kind
	Box  Box

	// text
	Runs  []Run
	Style TextStyle
	Lines []Line

	// image
	Image *deck.Image

	// block, shape
	Fill   Color
	Radius float64
	Points []Point

	// code
	Code *Code
}

// Page is one finished page.
type Page struct {
	Size       Size
	Background Color
	Elements   []Element
}
