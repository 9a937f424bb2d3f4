package layout

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	fpdfbarcode "github.com/jung-kurt/gofpdf/contrib/barcode"
)

// Meta is the document information written into the PDF.
type Meta struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	CreationDate time.Time // zero means now
	Metrics      *Metrics  // nil means CoreMetrics; must be the one the pages were built with
}

// pdf417Columns and pdf417Security are used for PDF417 contact codes.
const (
	pdf417Columns  = 6
	pdf417Security = 2
)

// WritePDF renders pages to w, one PDF page per Page.
func WritePDF(w io.Writer, pages []Page, meta Meta) error {
	m := meta.Metrics
	if m == nil {
		m = CoreMetrics()
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCatalogSort(true)
	if !meta.CreationDate.IsZero() {
		pdf.SetCreationDate(meta.CreationDate)
	}
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
	}
	for _, f := range m.Fonts() {
		pdf.AddUTF8FontFromBytes(f.Family, f.Style, f.Data)
	}

	wr := &pdfWriter{pdf: pdf, m: m, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	for i, page := range pages {
		if err := wr.page(page); err != nil {
			return fmt.Errorf("layout: page %d: %w", i+1, err)
		}
	}
	if len(pages) == 0 {
		pdf.AddPage()
	}

	if pdf.Err() {
		return fmt.Errorf("layout: %w", pdf.Error())
	}
	return pdf.Output(w)
}

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	m   *Metrics
	tr  func(string) string
}

func (wr *pdfWriter) page(p Page) error {
	pdf := wr.pdf
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: p.Size.W, Ht: p.Size.H})
	wr.fill(p.Background)
	pdf.Rect(0, 0, p.Size.W, p.Size.H, "F")

	for _, el := range p.Elements {
		var err error
		switch el.Kind {
		case KindText:
			wr.text(el)
		case KindImage:
			err = wr.image(el)
		case KindBlock:
			wr.block(el)
		case KindShape:
			wr.shape(el)
		case KindCode:
			err = wr.code(el)
		default:
			err = fmt.Errorf("unknown element kind %q", el.Kind)
		}
		if err != nil {
			return err
		}
		if pdf.Err() {
			return pdf.Error()
		}
	}
	return nil
}

func (wr *pdfWriter) fill(c Color) {
	wr.pdf.SetFillColor(c.R, c.G, c.B)
}

func (wr *pdfWriter) text(el Element) {
	font := wr.m.Resolve(el.Style.Font)
	wr.pdf.SetFont(font.Family, font.Style, font.Size)
	utf8 := wr.m.IsUTF8(font)
	for _, ln := range el.Lines {
		for _, seg := range ln.Segments {
			s := seg.Text
			if !utf8 {
				s = wr.tr(s)
			}
			wr.pdf.SetTextColor(seg.Color.R, seg.Color.G, seg.Color.B)
			wr.pdf.Text(el.Box.X+seg.X, el.Box.Y+ln.Baseline, s)
		}
	}
}

func (wr *pdfWriter) image(el Element) error {
	img := el.Image
	name := img.Key()
	opts := gofpdf.ImageOptions{ImageType: img.Format(), ReadDpi: false}
	if info := wr.pdf.GetImageInfo(name); info == nil {
		wr.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if wr.pdf.Err() {
			return fmt.Errorf("registering image: %w", wr.pdf.Error())
		}
	}
	wr.pdf.ImageOptions(name, el.Box.X, el.Box.Y, el.Box.W, el.Box.H, false, opts, 0, "")
	return nil
}

func (wr *pdfWriter) block(el Element) {
	wr.fill(el.Fill)
	b := el.Box
	if el.Radius > 0 {
		wr.pdf.RoundedRect(b.X, b.Y, b.W, b.H, el.Radius, "1234", "F")
		return
	}
	wr.pdf.Rect(b.X, b.Y, b.W, b.H, "F")
}

func (wr *pdfWriter) shape(el Element) {
	pts := make([]gofpdf.PointType, len(el.Points))
	for i, p := range el.Points {
		pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	wr.fill(el.Fill)
	wr.pdf.Polygon(pts, "F")
}

func (wr *pdfWriter) code(el Element) error {
	var key string
	switch el.Code.Kind {
	case CodeQR:
		key = fpdfbarcode.RegisterQR(wr.pdf, el.Code.Value, qr.M, qr.Auto)
	case CodePDF417:
		key = fpdfbarcode.RegisterPdf417(wr.pdf, el.Code.Value, pdf417Columns, pdf417Security)
	default:
		return fmt.Errorf("unknown barcode kind %q", el.Code.Kind)
	}
	if wr.pdf.Err() {
		return fmt.Errorf("encoding barcode: %w", wr.pdf.Error())
	}
	b := el.Box
	fpdfbarcode.Barcode(wr.pdf, key, b.X, b.Y, b.W, b.H, false)
	return nil
}
