package pageops

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// TextWatermark is rotated translucent text drawn across the page centre.
type TextWatermark struct {
	Text     string   // required
	FontSize float64  // points; default 60
	Color    RGBColor // default light grey
	Opacity  float64  // 0 to 1; default 0.3
	Angle    float64  // degrees counter-clockwise; default 45
}

// RGBColor is a colour with components from 0 to 255.
type RGBColor struct {
	R, G, B int
}

func (wm TextWatermark) withDefaults() TextWatermark {
	if wm.FontSize <= 0 {
		wm.FontSize = 60
	}
	if wm.Opacity <= 0 || wm.Opacity > 1 {
		wm.Opacity = 0.3
	}
	if wm.Angle == 0 {
		wm.Angle = 45
	}
	if wm.Color == (RGBColor{}) {
		wm.Color = RGBColor{200, 200, 200}
	}
	return wm
}

// Watermark stamps wm on every page of inputPath and writes the result to w.
func Watermark(w io.Writer, inputPath string, wm TextWatermark) error {
	pdf, err := watermarked(inputPath, wm)
	if err != nil {
		return err
	}
	return write(pdf, w)
}

// WatermarkFile is Watermark writing to outputPath.
func WatermarkFile(inputPath, outputPath string, wm TextWatermark) error {
	pdf, err := watermarked(inputPath, wm)
	if err != nil {
		return err
	}
	return writeFile(pdf, outputPath)
}

func watermarked(inputPath string, wm TextWatermark) (*gofpdf.Fpdf, error) {
	if strings.TrimSpace(wm.Text) == "" {
		return nil, ErrNoText
	}
	wm = wm.withDefaults()

	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := tr(wm.Text)

	err := newImporter().copyPages(pdf, inputPath, func(size gofpdf.SizeType) {
		stamp(pdf, text, wm, size)
	})
	if err != nil {
		return nil, fmt.Errorf("pageops: watermark: %w", err)
	}
	return pdf, nil
}

func stamp(pdf *gofpdf.Fpdf, text string, wm TextWatermark, size gofpdf.SizeType) {
	pdf.SetFont("Helvetica", "B", wm.FontSize)
	pdf.SetTextColor(wm.Color.R, wm.Color.G, wm.Color.B)
	pdf.SetAlpha(wm.Opacity, "Normal")

	cx, cy := size.Wd/2, size.Ht/2
	pdf.TransformBegin()
	pdf.TransformRotate(wm.Angle, cx, cy)
	pdf.Text(cx-pdf.GetStringWidth(text)/2, cy+wm.FontSize/3, text)
	pdf.TransformEnd()

	pdf.SetAlpha(1, "Normal")
}
