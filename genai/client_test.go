package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

const validReply = `{
  "coverTitle": "SCALING WITHOUT FEAR",
  "coverSubtitle": "Platform engineering in practice",
  "slides": [
    {"heading": "Why it matters", "description": "Outages cost money.\n\nTeams burn out."},
    {"heading": "What we do", "description": "Golden paths."}
  ],
  "ctaHeading": "READY TO SCALE?",
  "ctaText1": "Book a call.",
  "ctaText2": "Read the guide.",
  "ctaText3": "Follow us."
}`

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func completion(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func newTestClient(fn roundTripperFunc) *Client {
	return NewWithHTTPClient(Config{APIKey: "gsk_test", BaseURL: "http://upstream/", Timeout: 2 * time.Second}, nil, &http.Client{Transport: fn})
}

func TestGenerate(t *testing.T) {
	var calls int32
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		if req.Method != http.MethodPost || req.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer gsk_test" {
			t.Fatalf("Authorization = %q", got)
		}

		var in chatCompletionRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if in.Model != DefaultModel || in.Temperature != 0.7 || in.MaxTokens != 2000 {
			t.Fatalf("unexpected parameters %+v", in)
		}
		if len(in.Messages) != 2 || in.Messages[0].Role != "system" || in.Messages[1].Role != "user" {
			t.Fatalf("unexpected messages %+v", in.Messages)
		}
		if !strings.HasSuffix(in.Messages[0].Content, "Always respond with valid JSON only.") {
			t.Fatalf("system prompt = %q", in.Messages[0].Content)
		}
		user := in.Messages[1].Content
		for _, want := range []string{`"Platform engineering"`, "Number of content slides: 3", "Tone: professional", "Industry: technology"} {
			if !strings.Contains(user, want) {
				t.Fatalf("prompt is missing %q:\n%s", want, user)
			}
		}
		return jsonResponse(http.StatusOK, completion(validReply)), nil
	})

	content, err := c.Generate(context.Background(), Request{Topic: "Platform engineering"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if content.CoverTitle != "SCALING WITHOUT FEAR" || len(content.Slides) != 2 {
		t.Fatalf("unexpected content %+v", content)
	}
	if content.Slides[0].Description != "Outages cost money.\n\nTeams burn out." {
		t.Fatalf("description = %q", content.Slides[0].Description)
	}
	if content.CTAText3 != "Follow us." {
		t.Fatalf("ctaText3 = %q", content.CTAText3)
	}
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name  string
		resp  func() (*http.Response, error)
		cause error
	}{
		{
			name:  "transport",
			resp:  func() (*http.Response, error) { return nil, errors.New("connection refused") },
			cause: nil,
		},
		{
			name: "status",
			resp: func() (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, map[string]any{"error": "rate limited"}), nil
			},
		},
		{
			name:  "no choices",
			resp:  func() (*http.Response, error) { return jsonResponse(http.StatusOK, map[string]any{"choices": []any{}}), nil },
			cause: ErrNoResponse,
		},
		{
			name:  "empty content",
			resp:  func() (*http.Response, error) { return jsonResponse(http.StatusOK, completion("")), nil },
			cause: ErrNoResponse,
		},
		{
			name: "fenced json",
			resp: func() (*http.Response, error) {
				return jsonResponse(http.StatusOK, completion("```json\n"+validReply+"\n```")), nil
			},
		},
		{
			name: "missing title",
			resp: func() (*http.Response, error) {
				return jsonResponse(http.StatusOK, completion(`{"slides":[{"heading":"a","description":"b"}]}`)), nil
			},
			cause: ErrMalformedContent,
		},
		{
			name: "missing slides",
			resp: func() (*http.Response, error) {
				return jsonResponse(http.StatusOK, completion(`{"coverTitle":"x"}`)), nil
			},
			cause: ErrMalformedContent,
		},
		{
			name: "slides not an array",
			resp: func() (*http.Response, error) {
				return jsonResponse(http.StatusOK, completion(`{"coverTitle":"x","slides":{"heading":"a"}}`)), nil
			},
			cause: ErrMalformedContent,
		},
		{
			name: "no slides",
			resp: func() (*http.Response, error) {
				return jsonResponse(http.StatusOK, completion(`{"coverTitle":"x","slides":[]}`)), nil
			},
			cause: ErrMalformedContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(func(*http.Request) (*http.Response, error) { return tt.resp() })

			_, err := c.Generate(context.Background(), Request{Topic: "anything"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("expected ErrGenerationFailed, got %v", err)
			}
			if err.Error() != "content generation failed, please try again" {
				t.Fatalf("message = %q", err.Error())
			}
			var ge *GenerationError
			if !errors.As(err, &ge) || ge.Cause == nil {
				t.Fatalf("expected a GenerationError with a cause, got %#v", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Fatalf("cause %v does not match %v", ge.Cause, tt.cause)
			}
		})
	}
}

func TestTimeoutBelongsToTransport(t *testing.T) {
	c := New(Config{APIKey: "k", Timeout: 5 * time.Second}, nil)
	if c.httpClient.Timeout != 5*time.Second {
		t.Fatalf("http client timeout = %v", c.httpClient.Timeout)
	}

	c = newTestClient(func(req *http.Request) (*http.Response, error) {
		if _, ok := req.Context().Deadline(); ok {
			t.Error("request context should carry no deadline of its own")
		}
		return jsonResponse(http.StatusOK, completion(validReply)), nil
	})
	if _, err := c.Generate(context.Background(), Request{Topic: "x"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestGenerateHTTPErrorCause(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, map[string]any{"error": "bad key"}), nil
	})

	_, err := c.Generate(context.Background(), Request{Topic: "x"})
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected HTTPError 401 in the chain, got %v", err)
	}
}

func TestGenerateRequiresTopic(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected without a topic")
		return nil, nil
	})
	if _, err := c.Generate(context.Background(), Request{Topic: "  "}); !errors.Is(err, ErrEmptyTopic) {
		t.Fatalf("expected ErrEmptyTopic, got %v", err)
	}
}

func TestGenerateHonoursContext(t *testing.T) {
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, Request{Topic: "x"})
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a cancelled generation error, got %v", err)
	}
}

func TestPromptOptions(t *testing.T) {
	p := Prompt(Request{Topic: "Kubernetes costs", SlideCount: 5, Tone: ToneTechnical, Industry: "fintech"})
	for _, want := range []string{`"Kubernetes costs"`, "Number of content slides: 5", "Tone: technical", "Industry: fintech", `"ctaText3"`} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}

	if p := Prompt(Request{Topic: "x", Tone: "playful"}); !strings.Contains(p, "Tone: playful") {
		t.Error("unknown tones should be passed through")
	}
}

func TestParseContentIgnoresExtraFields(t *testing.T) {
	c, err := ParseContent(`{"coverTitle":"T","slides":[{"heading":"h","description":"d","notes":"x"}],"theme":"dark"}`)
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	if c.Slides[0].Heading != "h" {
		t.Fatalf("unexpected %+v", c)
	}
}
