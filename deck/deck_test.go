package deck

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	doc := Default()

	if doc.CoverTitle != "HOW WE ENSURE 99.99% UPTIME" {
		t.Fatalf("unexpected cover title %q", doc.CoverTitle)
	}
	if len(doc.Slides) != 3 {
		t.Fatalf("expected 3 default slides, got %d", len(doc.Slides))
	}
	for i, want := range []string{"02", "03", "04"} {
		if doc.Slides[i].Label != want {
			t.Errorf("slide %d: label %q, want %q", i, doc.Slides[i].Label, want)
		}
	}
	if doc.Slides[0].Description != "Every second of downtime costs trust and growth.\n\nThat's why at Advant AI Labs, uptime isn't a metric.\n\nIt's a commitment." {
		t.Errorf("paragraph breaks not preserved: %q", doc.Slides[0].Description)
	}
	if doc.CompanyLogo != nil || doc.CenterImage != nil {
		t.Error("defaults should not carry images")
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Slides[0].Heading = "changed"

	if Default().Slides[0].Heading == "changed" {
		t.Fatal("Default shares slide storage between callers")
	}
}

func TestAddSlideLabel(t *testing.T) {
	doc := Default()
	for n := len(doc.Slides); n < 12; n++ {
		next := doc.AddSlide()
		if len(next.Slides) != n+1 {
			t.Fatalf("expected %d slides, got %d", n+1, len(next.Slides))
		}
		got := next.Slides[n]
		if got.Label != Label(n) {
			t.Fatalf("new slide label %q, want %q", got.Label, Label(n))
		}
		if got.Heading != "New Slide" || got.Description != "Add your content here." {
			t.Fatalf("unexpected placeholder slide %+v", got)
		}
		if len(doc.Slides) != n {
			t.Fatal("AddSlide mutated its receiver")
		}
		doc = next
	}
	if doc.Slides[len(doc.Slides)-1].Label != "13" {
		t.Fatalf("expected last label 13, got %q", doc.Slides[len(doc.Slides)-1].Label)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "02"},
		{7, "09"},
		{8, "10"},
		{98, "100"},
	}
	for _, tt := range tests {
		if got := Label(tt.n); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRemoveLastSlideRejected(t *testing.T) {
	doc := Document{Slides: []Slide{{Label: "02", Heading: "Only"}}}

	got, err := doc.RemoveSlide(0)
	if !errors.Is(err, ErrLastSlide) {
		t.Fatalf("expected ErrLastSlide, got %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatal("rejected removal changed the document")
	}
}

func TestRemoveSlide(t *testing.T) {
	doc := Default()

	got, err := doc.RemoveSlide(1)
	if err != nil {
		t.Fatalf("RemoveSlide: %v", err)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(got.Slides))
	}
	if got.Slides[0].Label != "02" || got.Slides[1].Label != "04" {
		t.Fatalf("labels should not be renumbered: %q %q", got.Slides[0].Label, got.Slides[1].Label)
	}
	if len(doc.Slides) != 3 || doc.Slides[1].Label != "03" {
		t.Fatal("RemoveSlide mutated its receiver")
	}

	if _, err := doc.RemoveSlide(5); !errors.Is(err, ErrSlideIndex) {
		t.Fatalf("expected ErrSlideIndex, got %v", err)
	}
}

func TestWithField(t *testing.T) {
	doc := Default()

	got, err := doc.WithField(FieldWebsiteURL, "example.com")
	if err != nil {
		t.Fatalf("WithField: %v", err)
	}
	if got.WebsiteURL != "example.com" {
		t.Fatalf("website not updated: %q", got.WebsiteURL)
	}
	if doc.WebsiteURL != "thebytespark.com" {
		t.Fatal("WithField mutated its receiver")
	}

	if _, err := doc.WithField("slides", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	for _, f := range Fields {
		next, err := doc.WithField(f, "v")
		if err != nil {
			t.Fatalf("field %s: %v", f, err)
		}
		if v, _ := next.Get(f); v != "v" {
			t.Errorf("field %s not set", f)
		}
	}
}

func TestWithSlideField(t *testing.T) {
	doc := Default()

	got := doc.WithSlideField(2, SlideHeading, "Changed")
	if got.Slides[2].Heading != "Changed" {
		t.Fatalf("heading not updated: %q", got.Slides[2].Heading)
	}
	if doc.Slides[2].Heading == "Changed" {
		t.Fatal("WithSlideField mutated its receiver")
	}

	got = doc.WithSlideField(0, SlideLabel, "A1")
	if got.Slides[0].Label != "A1" {
		t.Fatalf("label not updated: %q", got.Slides[0].Label)
	}

	for _, idx := range []int{-1, 3, 100} {
		if out := doc.WithSlideField(idx, SlideHeading, "x"); !reflect.DeepEqual(out, doc) {
			t.Errorf("index %d: out-of-range update changed the document", idx)
		}
	}
}

func TestImages(t *testing.T) {
	doc := Default()
	img := Image{MIMEType: "image/png", Data: []byte{1, 2, 3}}

	withLogo := doc.WithImage(SlotCompanyLogo, img)
	if withLogo.CompanyLogo == nil {
		t.Fatal("logo not stored")
	}
	img.Data[0] = 9
	if withLogo.CompanyLogo.Data[0] != 1 {
		t.Fatal("stored image aliases caller bytes")
	}
	if doc.CompanyLogo != nil {
		t.Fatal("WithImage mutated its receiver")
	}

	cleared := withLogo.WithoutImage(SlotCompanyLogo)
	if cleared.CompanyLogo != nil {
		t.Fatal("logo not cleared")
	}
	if withLogo.CompanyLogo == nil {
		t.Fatal("WithoutImage mutated its receiver")
	}

	if got := doc.WithImage("banner", img); !reflect.DeepEqual(got, doc) {
		t.Fatal("unknown slot should be a no-op")
	}
}

func TestWithContent(t *testing.T) {
	doc := Default().WithImage(SlotCompanyLogo, Image{MIMEType: "image/png", Data: []byte{1}})

	got := doc.WithContent(Content{
		CoverTitle:    "Title",
		CoverSubtitle: "Sub",
		Slides: []ContentSlide{
			{Heading: "A", Description: "a"},
			{Heading: "B", Description: "b"},
		},
		CTAHeading: "Go",
		CTAText1:   "one",
	})

	if got.CoverTitle != "Title" || got.CTAHeading != "Go" || got.CTAText1 != "one" || got.CTAText2 != "" {
		t.Fatalf("content fields not applied: %+v", got)
	}
	if len(got.Slides) != 2 || got.Slides[0].Label != "02" || got.Slides[1].Label != "03" {
		t.Fatalf("unexpected slides %+v", got.Slides)
	}
	if got.Branding != "bytespark" || got.CompanyLogo == nil {
		t.Fatal("branding and images should survive content replacement")
	}

	kept := doc.WithContent(Content{CoverTitle: "Only title"})
	if len(kept.Slides) != 3 {
		t.Fatalf("empty generated slide list should keep current slides, got %d", len(kept.Slides))
	}
}

func TestCTALines(t *testing.T) {
	doc := Document{CTAText1: "a", CTAText3: "c"}
	if got := doc.CTALines(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("CTALines = %v", got)
	}
	if got := (Document{}).CTALines(); len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default document invalid: %v", err)
	}
	if err := (Document{}).Validate(); !errors.Is(err, ErrNoSlides) {
		t.Fatalf("expected ErrNoSlides, got %v", err)
	}
}
