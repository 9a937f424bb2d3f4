package deck

import "fmt"

const (
	newSlideHeading     = "New Slide"
	newSlideDescription = "Add your content here."
)

// Clone returns a deep copy of d. Image bytes are copied too.
func (d Document) Clone() Document {
	out := d
	if d.Slides != nil {
		out.Slides = make([]Slide, len(d.Slides))
		copy(out.Slides, d.Slides)
	}
	out.CenterImage = d.CenterImage.clone()
	out.CompanyLogo = d.CompanyLogo.clone()
	return out
}

// WithField returns a copy of d with one scalar field set. No validation is
// done on value.
func (d Document) WithField(f Field, value string) (Document, error) {
	out := d.Clone()
	p := out.fieldPtr(f)
	if p == nil {
		return d, fmt.Errorf("%w %q", ErrUnknownField, f)
	}
	*p = value
	return out, nil
}

// WithSlideField returns a copy of d with one field of the slide at index
// replaced. An out-of-range index or unknown field leaves d as it is.
func (d Document) WithSlideField(index int, f SlideField, value string) Document {
	if index < 0 || index >= len(d.Slides) {
		return d
	}
	out := d.Clone()
	s := &out.Slides[index]
	switch f {
	case SlideLabel:
		s.Label = value
	case SlideHeading:
		s.Heading = value
	case SlideDescription:
		s.Description = value
	default:
		return d
	}
	return out
}

// AddSlide returns a copy of d with a placeholder slide appended. Its label
// is the zero-padded value of len(Slides)+2.
func (d Document) AddSlide() Document {
	out := d.Clone()
	out.Slides = append(out.Slides, Slide{
		Label:       Label(len(d.Slides)),
		Heading:     newSlideHeading,
		Description: newSlideDescription,
	})
	return out
}

// RemoveSlide returns a copy of d without the slide at index. Removing the
// only remaining slide fails with ErrLastSlide and returns d unchanged.
func (d Document) RemoveSlide(index int) (Document, error) {
	if len(d.Slides) <= 1 {
		return d, ErrLastSlide
	}
	if index < 0 || index >= len(d.Slides) {
		return d, fmt.Errorf("%w: %d", ErrSlideIndex, index)
	}
	out := d.Clone()
	out.Slides = append(out.Slides[:index], out.Slides[index+1:]...)
	return out, nil
}

// WithImage returns a copy of d with img stored in slot, replacing any
// previous image. An unknown slot leaves d unchanged.
func (d Document) WithImage(slot ImageSlot, img Image) Document {
	out := d.Clone()
	stored := img.clone()
	switch slot {
	case SlotCenterImage:
		out.CenterImage = stored
	case SlotCompanyLogo:
		out.CompanyLogo = stored
	default:
		return d
	}
	return out
}

// WithoutImage returns a copy of d with slot cleared.
func (d Document) WithoutImage(slot ImageSlot) Document {
	out := d.Clone()
	switch slot {
	case SlotCenterImage:
		out.CenterImage = nil
	case SlotCompanyLogo:
		out.CompanyLogo = nil
	}
	return out
}

// WithContent returns a copy of d whose generated fields are replaced by c.
// Slides are relabelled 02, 03, ... Branding, website and images are kept.
// If c has no slides the current slides are kept so the result stays valid.
func (d Document) WithContent(c Content) Document {
	out := d.Clone()
	out.CoverTitle = c.CoverTitle
	out.CoverSubtitle = c.CoverSubtitle
	out.CTAHeading = c.CTAHeading
	out.CTAText1 = c.CTAText1
	out.CTAText2 = c.CTAText2
	out.CTAText3 = c.CTAText3
	if len(c.Slides) > 0 {
		out.Slides = make([]Slide, len(c.Slides))
		for i, s := range c.Slides {
			out.Slides[i] = Slide{Label: Label(i), Heading: s.Heading, Description: s.Description}
		}
	}
	return out
}
