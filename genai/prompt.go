package genai

import (
	"fmt"
	"strings"
)

// Tone values understood by the prompt. Other values are passed through.
const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneTechnical    = "technical"
	ToneMarketing    = "marketing"
)

const (
	DefaultSlideCount = 3
	DefaultTone       = ToneProfessional
	DefaultIndustry   = "technology"
)

const systemPrompt = "You are an expert content creator and presentation designer. " +
	"Generate high-quality, engaging presentation content that follows best practices for business presentations. " +
	"Always respond with valid JSON only."

// Request describes the deck to draft. Zero values take the defaults.
type Request struct {
	Topic      string `json:"topic"`
	SlideCount int    `json:"slideCount,omitempty"`
	Tone       string `json:"tone,omitempty"`
	Industry   string `json:"industry,omitempty"`
}

func (r Request) withDefaults() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.SlideCount <= 0 {
		r.SlideCount = DefaultSlideCount
	}
	if strings.TrimSpace(r.Tone) == "" {
		r.Tone = DefaultTone
	}
	if strings.TrimSpace(r.Industry) == "" {
		r.Industry = DefaultIndustry
	}
	return r
}

// Prompt returns the user message sent for r, after defaults are applied.
func Prompt(r Request) string {
	r = r.withDefaults()
	return fmt.Sprintf(`Create a presentation about %q with the following requirements:

- Industry: %s
- Tone: %s
- Number of content slides: %d
- Target audience: Business professionals

Please generate content in the following JSON format:
{
  "coverTitle": "Main title for the cover page (should be impactful and attention-grabbing)",
  "coverSubtitle": "Subtitle that complements the main title",
  "slides": [
    {
      "heading": "Slide heading",
      "description": "Detailed description for the slide content. Use line breaks (\\n\\n) to separate paragraphs for better readability."
    }
  ],
  "ctaHeading": "Call-to-action heading",
  "ctaText1": "First line of CTA text",
  "ctaText2": "Second line of CTA text",
  "ctaText3": "Third line of CTA text"
}

Make sure the content is engaging, informative, and follows a logical flow. Each slide should build upon the previous one. The CTA should encourage engagement or next steps.`,
		r.Topic, r.Industry, r.Tone, r.SlideCount)
}
