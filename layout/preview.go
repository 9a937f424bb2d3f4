package layout

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	goFontsOnce sync.Once
	goRegular   *truetype.Font
	goBold      *truetype.Font
	goFontsErr  error
)

func goFonts() (*truetype.Font, *truetype.Font, error) {
	goFontsOnce.Do(func() {
		goRegular, goFontsErr = truetype.Parse(goregular.TTF)
		if goFontsErr == nil {
			goBold, goFontsErr = truetype.Parse(gobold.TTF)
		}
	})
	return goRegular, goBold, goFontsErr
}

// RenderPNG rasterises page at scale pixels per point. Text is drawn with the
// Go fonts (or a registered FontFile) at the positions computed for the PDF,
// so glyph widths differ slightly from the PDF output.
func RenderPNG(page Page, scale float64, m *Metrics) (image.Image, error) {
	dc, err := raster(page, scale, m)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG encodes the rasterised page to w as PNG.
func WritePNG(w io.Writer, page Page, scale float64, m *Metrics) error {
	dc, err := raster(page, scale, m)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("layout: encoding preview: %w", err)
	}
	return nil
}

func raster(page Page, scale float64, m *Metrics) (*gg.Context, error) {
	if scale <= 0 {
		scale = 1
	}
	if m == nil {
		m = CoreMetrics()
	}
	r := &rasterizer{
		scale: scale,
		m:     m,
		faces: make(map[string]font.Face),
		dc:    gg.NewContext(int(math.Ceil(page.Size.W*scale)), int(math.Ceil(page.Size.H*scale))),
	}

	r.setColor(page.Background)
	r.dc.Clear()

	for i, el := range page.Elements {
		var err error
		switch el.Kind {
		case KindText:
			err = r.text(el)
		case KindImage:
			err = r.image(el)
		case KindBlock:
			r.block(el)
		case KindShape:
			r.shape(el)
		case KindCode:
			err = r.code(el)
		default:
			err = fmt.Errorf("unknown element kind %q", el.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("layout: preview element %d: %w", i, err)
		}
	}
	return r.dc, nil
}

type rasterizer struct {
	dc    *gg.Context
	scale float64
	m     *Metrics
	faces map[string]font.Face
}

func (r *rasterizer) setColor(c Color) {
	r.dc.SetRGB255(c.R, c.G, c.B)
}

func (r *rasterizer) face(f Font) (font.Face, error) {
	f = r.m.Resolve(f)
	key := fmt.Sprintf("%s|%.2f", faceKey(f.Family, f.Style), f.Size)
	if face, ok := r.faces[key]; ok {
		return face, nil
	}

	var ttf *truetype.Font
	if r.m.IsUTF8(f) {
		for _, ff := range r.m.Fonts() {
			if faceKey(ff.Family, ff.Style) == faceKey(f.Family, f.Style) {
				parsed, err := truetype.Parse(ff.Data)
				if err != nil {
					return nil, fmt.Errorf("parsing font %s: %w", ff.Family, err)
				}
				ttf = parsed
				break
			}
		}
	}
	if ttf == nil {
		regular, bold, err := goFonts()
		if err != nil {
			return nil, err
		}
		ttf = regular
		if f.Bold() {
			ttf = bold
		}
	}

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    f.Size * r.scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	r.faces[key] = face
	return face, nil
}

func (r *rasterizer) text(el Element) error {
	face, err := r.face(el.Style.Font)
	if err != nil {
		return err
	}
	r.dc.SetFontFace(face)
	for _, ln := range el.Lines {
		for _, seg := range ln.Segments {
			r.setColor(seg.Color)
			r.dc.DrawString(seg.Text, (el.Box.X+seg.X)*r.scale, (el.Box.Y+ln.Baseline)*r.scale)
		}
	}
	return nil
}

func (r *rasterizer) image(el Element) error {
	src, _, err := image.Decode(bytes.NewReader(el.Image.Data))
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	w := int(math.Round(el.Box.W * r.scale))
	h := int(math.Round(el.Box.H * r.scale))
	if w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	r.dc.DrawImage(dst, int(math.Round(el.Box.X*r.scale)), int(math.Round(el.Box.Y*r.scale)))
	return nil
}

func (r *rasterizer) block(el Element) {
	b := el.Box
	s := r.scale
	if el.Radius > 0 {
		r.dc.DrawRoundedRectangle(b.X*s, b.Y*s, b.W*s, b.H*s, el.Radius*s)
	} else {
		r.dc.DrawRectangle(b.X*s, b.Y*s, b.W*s, b.H*s)
	}
	r.setColor(el.Fill)
	r.dc.Fill()
}

func (r *rasterizer) shape(el Element) {
	s := r.scale
	for i, p := range el.Points {
		if i == 0 {
			r.dc.MoveTo(p.X*s, p.Y*s)
			continue
		}
		r.dc.LineTo(p.X*s, p.Y*s)
	}
	r.dc.ClosePath()
	r.setColor(el.Fill)
	r.dc.Fill()
}

func (r *rasterizer) code(el Element) error {
	var (
		code barcode.Barcode
		err  error
	)
	switch el.Code.Kind {
	case CodeQR:
		code, err = qr.Encode(el.Code.Value, qr.M, qr.Auto)
	case CodePDF417:
		code, err = pdf417.Encode(el.Code.Value, pdf417Security)
	default:
		err = fmt.Errorf("unknown barcode kind %q", el.Code.Kind)
	}
	if err != nil {
		return fmt.Errorf("encoding barcode: %w", err)
	}

	w := int(math.Round(el.Box.W * r.scale))
	h := int(math.Round(el.Box.H * r.scale))
	scaled, err := barcode.Scale(code, w, h)
	if err != nil {
		// Scale refuses targets smaller than the symbol; draw it unscaled.
		scaled = code
	}

	// Codes are drawn dark on a white quiet zone to stay scannable on dark pages.
	r.dc.SetColor(color.White)
	r.dc.DrawRectangle(el.Box.X*r.scale, el.Box.Y*r.scale, float64(w), float64(h))
	r.dc.Fill()
	r.dc.DrawImage(scaled, int(math.Round(el.Box.X*r.scale)), int(math.Round(el.Box.Y*r.scale)))
	return nil
}
