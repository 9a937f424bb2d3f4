// Package deck defines the in-memory description of a presentation deck: a
// cover page, an ordered list of content slides and a call-to-action page.
//
// A Document is treated as an immutable snapshot. Every operation that changes
// it (WithField, AddSlide, RemoveSlide, WithImage, WithContent, ...) returns a
// new Document and leaves the receiver untouched, so a snapshot handed to the
// renderer can never change underneath it.
//
// Example:
//
//	doc := deck.Default()
//	doc, _ = doc.WithField(deck.FieldCoverTitle, "HOW WE SHIP FASTER")
//	doc = doc.AddSlide()
//	doc, err := doc.RemoveSlide(0)
package deck

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by snapshot operations.
var (
	ErrLastSlide    = errors.New("deck: a document needs at least one slide")
	ErrSlideIndex   = errors.New("deck: slide index out of range")
	ErrUnknownField = errors.New("deck: unknown field")
	ErrNoSlides     = errors.New("deck: document has no slides")
	ErrImageRef     = errors.New("deck: image must be an embedded data URI")
)

// Slide is one content page.
type Slide struct {
	Label       string `json:"pageNumber" yaml:"pageNumber"` // badge text, two characters by convention
	Heading     string `json:"heading" yaml:"heading"`
	Description string `json:"description" yaml:"description"` // may contain "\n\n" paragraph breaks
}

// Document is the complete description of a deck before rendering.
// Use the With* methods to derive modified copies.
type Document struct {
	CoverTitle    string
	CoverSubtitle string
	Branding      string
	WebsiteURL    string
	Slides        []Slide
	CenterImage   *Image // optional cover illustration
	CompanyLogo   *Image // optional; replaces the branding text when set
	CTAHeading    string
	CTAText1      string
	CTAText2      string
	CTAText3      string
}

// Field names a top-level scalar field of a Document.
type Field string

const (
	FieldCoverTitle    Field = "coverTitle"
	FieldCoverSubtitle Field = "coverSubtitle"
	FieldBranding      Field = "branding"
	FieldWebsiteURL    Field = "websiteUrl"
	FieldCTAHeading    Field = "ctaHeading"
	FieldCTAText1      Field = "ctaText1"
	FieldCTAText2      Field = "ctaText2"
	FieldCTAText3      Field = "ctaText3"
)

// Fields lists every scalar field in form order.
var Fields = []Field{
	FieldCoverTitle, FieldCoverSubtitle, FieldBranding, FieldWebsiteURL,
	FieldCTAHeading, FieldCTAText1, FieldCTAText2, FieldCTAText3,
}

// SlideField names a field of a Slide.
type SlideField string

const (
	SlideLabel       SlideField = "pageNumber"
	SlideHeading     SlideField = "heading"
	SlideDescription SlideField = "description"
)

// ImageSlot names one of the two optional image slots.
type ImageSlot string

const (
	SlotCenterImage ImageSlot = "centerImage"
	SlotCompanyLogo ImageSlot = "companyLogo"
)

// String returns the human label used in notices.
func (s ImageSlot) String() string {
	switch s {
	case SlotCenterImage:
		return "center image"
	case SlotCompanyLogo:
		return "company logo"
	default:
		return string(s)
	}
}

// Valid reports whether s names a known slot.
func (s ImageSlot) Valid() bool {
	return s == SlotCenterImage || s == SlotCompanyLogo
}

// Content is the generated subset of a Document: everything a text
// generator can draft. Branding, website and images are not part of it.
type Content struct {
	CoverTitle    string         `json:"coverTitle"`
	CoverSubtitle string         `json:"coverSubtitle"`
	Slides        []ContentSlide `json:"slides"`
	CTAHeading    string         `json:"ctaHeading"`
	CTAText1      string         `json:"ctaText1"`
	CTAText2      string         `json:"ctaText2"`
	CTAText3      string         `json:"ctaText3"`
}

// ContentSlide is a generated slide without a page label.
type ContentSlide struct {
	Heading     string `json:"heading"`
	Description string `json:"description"`
}

// Label returns the default badge text for the slide at position n
// (zero-based) of a deck. The cover is page 01, so the first slide is 02.
func Label(n int) string {
	return fmt.Sprintf("%02d", n+2)
}

// CTALines returns the non-empty call-to-action lines in their fixed order.
func (d Document) CTALines() []string {
	var lines []string
	for _, s := range []string{d.CTAText1, d.CTAText2, d.CTAText3} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// Validate checks the structural invariants of d.
func (d Document) Validate() error {
	if len(d.Slides) == 0 {
		return ErrNoSlides
	}
	return nil
}

// Get returns the value of a scalar field.
func (d Document) Get(f Field) (string, error) {
	p := d.fieldPtr(f)
	if p == nil {
		return "", fmt.Errorf("%w %q", ErrUnknownField, f)
	}
	return *p, nil
}

// Image returns the image stored in slot, or nil.
func (d Document) Image(slot ImageSlot) *Image {
	switch slot {
	case SlotCenterImage:
		return d.CenterImage
	case SlotCompanyLogo:
		return d.CompanyLogo
	}
	return nil
}

func (d *Document) fieldPtr(f Field) *string {
	switch f {
	case FieldCoverTitle:
		return &d.CoverTitle
	case FieldCoverSubtitle:
		return &d.CoverSubtitle
	case FieldBranding:
		return &d.Branding
	case FieldWebsiteURL:
		return &d.WebsiteURL
	case FieldCTAHeading:
		return &d.CTAHeading
	case FieldCTAText1:
		return &d.CTAText1
	case FieldCTAText2:
		return &d.CTAText2
	case FieldCTAText3:
		return &d.CTAText3
	}
	return nil
}
