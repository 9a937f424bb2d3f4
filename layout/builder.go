package layout

import (
	"errors"
	"fmt"

	"github.com/bytespark/pdfdeck/deck"
)

// ErrImageFormat is recorded when an image cannot be placed in a PDF.
var ErrImageFormat = errors.New("layout: unsupported image format")

// Builder assembles one Page. Absolute elements are placed by their box;
// flow elements are placed at the cursor, which then moves down past them.
// The first error sticks: later calls are ignored and Page reports it.
type Builder struct {
	page   Page
	m      *Metrics
	cursor float64
	err    error
}

// NewBuilder starts a page of the given size and background. A nil m means
// CoreMetrics.
func NewBuilder(size Size, bg Color, m *Metrics) *Builder {
	if m == nil {
		m = CoreMetrics()
	}
	return &Builder{page: Page{Size: size, Background: bg}, m: m}
}

// Metrics returns the metrics used for wrapping.
func (b *Builder) Metrics() *Metrics { return b.m }

// Size returns the page size.
func (b *Builder) Size() Size { return b.page.Size }

// Cursor returns the y position where the next flow element goes.
func (b *Builder) Cursor() float64 { return b.cursor }

// MoveTo sets the flow cursor.
func (b *Builder) MoveTo(y float64) *Builder {
	b.cursor = y
	return b
}

// Skip moves the flow cursor down by dy.
func (b *Builder) Skip(dy float64) *Builder {
	b.cursor += dy
	return b
}

// MeasureText returns the height runs would take when wrapped to width.
func (b *Builder) MeasureText(width float64, style TextStyle, runs ...Run) float64 {
	return Height(len(Wrap(b.m, runs, style, width)), style)
}

// AddText places wrapped text with its top-left corner at box.X, box.Y.
// box.W is the wrap width; box.H is replaced by the measured height.
func (b *Builder) AddText(box Box, style TextStyle, runs ...Run) *Builder {
	if b.err != nil {
		return b
	}
	lines := Wrap(b.m, runs, style, box.W)
	box.H = Height(len(lines), style)
	b.page.Elements = append(b.page.Elements, Element{
		Kind:  KindText,
		Box:   box,
		Runs:  append([]Run(nil), runs...),
		Style: style,
		Lines: lines,
	})
	return b
}

// FlowText places wrapped text at the cursor and moves the cursor past it
// plus gap.
func (b *Builder) FlowText(x, width float64, style TextStyle, gap float64, runs ...Run) *Builder {
	if b.err != nil {
		return b
	}
	b.AddText(Box{X: x, Y: b.cursor, W: width}, style, runs...)
	b.cursor += b.page.Elements[len(b.page.Elements)-1].Box.H + gap
	return b
}

// AddImage draws img stretched to box. Use Contain to keep the aspect
// ratio. A nil image is ignored.
func (b *Builder) AddImage(box Box, img *deck.Image) *Builder {
	if b.err != nil || img == nil {
		return b
	}
	if img.Format() == "" {
		b.err = fmt.Errorf("%w %q", ErrImageFormat, img.MIMEType)
		return b
	}
	b.page.Elements = append(b.page.Elements, Element{Kind: KindImage, Box: box, Image: img})
	return b
}

// AddBlock fills a rectangle, rounding its corners when radius > 0.
func (b *Builder) AddBlock(box Box, fill Color, radius float64) *Builder {
	if b.err != nil {
		return b
	}
	if limit := minf(box.W, box.H) / 2; radius > limit {
		radius = limit
	}
	b.page.Elements = append(b.page.Elements, Element{Kind: KindBlock, Box: box, Fill: fill, Radius: radius})
	return b
}

// AddShape fills the polygon pts, given relative to box's origin.
func (b *Builder) AddShape(box Box, fill Color, pts ...Point) *Builder {
	if b.err != nil {
		return b
	}
	if len(pts) < 3 {
		b.err = fmt.Errorf("layout: a shape needs at least 3 points, got %d", len(pts))
		return b
	}
	abs := make([]Point, len(pts))
	for i, p := range pts {
		abs[i] = Point{X: box.X + p.X, Y: box.Y + p.Y}
	}
	b.page.Elements = append(b.page.Elements, Element{Kind: KindShape, Box: box, Fill: fill, Points: abs})
	return b
}

// AddCode draws a 2D barcode of value in box.
func (b *Builder) AddCode(box Box, kind CodeKind, value string) *Builder {
	if b.err != nil {
		return b
	}
	if value == "" {
		b.err = errors.New("layout: empty barcode value")
		return b
	}
	if kind != CodeQR && kind != CodePDF417 {
		b.err = fmt.Errorf("layout: unknown barcode kind %q", kind)
		return b
	}
	b.page.Elements = append(b.page.Elements, Element{Kind: KindCode, Box: box, Code: &Code{Kind: kind, Value: value}})
	return b
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error { return b.err }

// Page returns the assembled page.
func (b *Builder) Page() (Page, error) {
	if b.err != nil {
		return Page{}, b.err
	}
	return b.page, nil
}

// Contain returns the size of img scaled to fit inside maxW x maxH with its
// aspect ratio kept. Images are never scaled up.
func Contain(img *deck.Image, maxW, maxH float64) (w, h float64, err error) {
	pw, ph, err := img.Size()
	if err != nil {
		return 0, 0, err
	}
	if pw == 0 || ph == 0 {
		return 0, 0, fmt.Errorf("layout: empty image")
	}
	w, h = float64(pw), float64(ph)
	scale := minf(maxW/w, maxH/h)
	if scale < 1 {
		w, h = w*scale, h*scale
	}
	return w, h, nil
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
