package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialisation format for deck files.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Anything that is not
// .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// documentWire is the on-disk shape, keyed like the original form state.
// Images are strings: a data URI, or (only when loading from a file) a path
// relative to the deck file.
type documentWire struct {
	CoverTitle    string  `json:"coverTitle" yaml:"coverTitle"`
	CoverSubtitle string  `json:"coverSubtitle" yaml:"coverSubtitle"`
	Branding      string  `json:"branding" yaml:"branding"`
	WebsiteURL    string  `json:"websiteUrl" yaml:"websiteUrl"`
	Slides        []Slide `json:"slides" yaml:"slides"`
	CenterImage   string  `json:"centerImage,omitempty" yaml:"centerImage,omitempty"`
	CompanyLogo   string  `json:"companyLogo,omitempty" yaml:"companyLogo,omitempty"`
	CTAHeading    string  `json:"ctaHeading" yaml:"ctaHeading"`
	CTAText1      string  `json:"ctaText1" yaml:"ctaText1"`
	CTAText2      string  `json:"ctaText2" yaml:"ctaText2"`
	CTAText3      string  `json:"ctaText3" yaml:"ctaText3"`
}

type imageResolver func(ref string) (*Image, error)

func dataURIOnly(ref string) (*Image, error) {
	if ref == "" {
		return nil, nil
	}
	img, err := ParseDataURI(ref)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// fileResolver also accepts plain paths, read relative to dir.
func fileResolver(dir string) imageResolver {
	return func(ref string) (*Image, error) {
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return dataURIOnly(ref)
		}
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("deck: reading image %s: %w", ref, err)
		}
		return &Image{MIMEType: http.DetectContentType(data), Data: data}, nil
	}
}

func toWire(d Document) documentWire {
	w := documentWire{
		CoverTitle:    d.CoverTitle,
		CoverSubtitle: d.CoverSubtitle,
		Branding:      d.Branding,
		WebsiteURL:    d.WebsiteURL,
		Slides:        d.Slides,
		CTAHeading:    d.CTAHeading,
		CTAText1:      d.CTAText1,
		CTAText2:      d.CTAText2,
		CTAText3:      d.CTAText3,
	}
	if d.CenterImage != nil {
		w.CenterImage = d.CenterImage.DataURI()
	}
	if d.CompanyLogo != nil {
		w.CompanyLogo = d.CompanyLogo.DataURI()
	}
	return w
}

func (w documentWire) document(resolve imageResolver) (Document, error) {
	d := Document{
		CoverTitle:    w.CoverTitle,
		CoverSubtitle: w.CoverSubtitle,
		Branding:      w.Branding,
		WebsiteURL:    w.WebsiteURL,
		Slides:        w.Slides,
		CTAHeading:    w.CTAHeading,
		CTAText1:      w.CTAText1,
		CTAText2:      w.CTAText2,
		CTAText3:      w.CTAText3,
	}
	var err error
	if d.CenterImage, err = resolve(w.CenterImage); err != nil {
		return Document{}, fmt.Errorf("centerImage: %w", err)
	}
	if d.CompanyLogo, err = resolve(w.CompanyLogo); err != nil {
		return Document{}, fmt.Errorf("companyLogo: %w", err)
	}
	return d, nil
}

// MarshalJSON encodes images as data URIs.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(d))
}

// UnmarshalJSON accepts images only as data URIs.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	doc, err := w.document(dataURIOnly)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// MarshalYAML encodes images as data URIs.
func (d Document) MarshalYAML() (interface{}, error) {
	return toWire(d), nil
}

// UnmarshalYAML accepts images only as data URIs.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	var w documentWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	doc, err := w.document(dataURIOnly)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// Decode reads a Document in the given format. Image references must be
// data URIs; use Load for decks that point at image files.
func Decode(r io.Reader, format Format) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("deck: reading input: %w", err)
	}
	return decode(data, format, dataURIOnly)
}

func decode(data []byte, format Format, resolve imageResolver) (Document, error) {
	var w documentWire
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &w); err != nil {
			return Document{}, fmt.Errorf("deck: parsing JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &w); err != nil {
			return Document{}, fmt.Errorf("deck: parsing YAML: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("deck: unknown format %q", format)
	}
	doc, err := w.document(resolve)
	if err != nil {
		return Document{}, fmt.Errorf("deck: %w", err)
	}
	return doc, nil
}

// Load reads a deck file. Image fields may hold data URIs or paths relative
// to the file's directory.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("deck: opening %s: %w", path, err)
	}
	return decode(data, FormatFromPath(path), fileResolver(filepath.Dir(path)))
}

// Encode writes d in the given format with images embedded as data URIs.
func Encode(w io.Writer, d Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(toWire(d))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toWire(d)); err != nil {
			return fmt.Errorf("deck: encoding YAML: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("deck: unknown format %q", format)
}

// Save writes d to path, choosing the format from the extension.
func Save(path string, d Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, d, FormatFromPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("deck: writing %s: %w", path, err)
	}
	return nil
}
