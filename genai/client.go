// Package genai drafts deck copy through an OpenAI-compatible chat completion
// endpoint (Groq by default).
//
// A Client makes exactly one request per Generate call and never retries.
// Every failure, whatever its cause, surfaces as a *GenerationError with the
// same user-facing message; the cause is kept for logging.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytespark/pdfdeck/deck"
	"github.com/bytespark/pdfdeck/internal/logger"
)

const (
	DefaultBaseURL      = "https://api.groq.com/openai"
	DefaultModel        = "llama-3.3-70b-versatile"
	chatCompletionsPath = "/v1/chat/completions"
	temperature         = 0.7
	maxTokens           = 2000
)

// Generator drafts deck content. *Client implements it; tests and the form
// controller accept any implementation.
type Generator interface {
	Generate(ctx context.Context, req Request) (deck.Content, error)
}

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string        // default DefaultBaseURL
	Model   string        // default DefaultModel
	Timeout time.Duration // http.Client timeout; default 60s
}

// Client drafts deck content through an OpenAI-compatible chat-completions
// endpoint. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

// New returns a Client. A nil log discards log output.
func New(cfg Config, log *logger.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		httpClient: &http.Client{Transport: tr, Timeout: timeout},
		log:        log.With("component", "genai"),
	}
}

// NewWithHTTPClient is intended for tests; it avoids network access by using
// a custom RoundTripper.
func NewWithHTTPClient(cfg Config, log *logger.Logger, httpClient *http.Client) *Client {
	c := New(cfg, log)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate drafts content for req.
func (c *Client) Generate(ctx context.Context, req Request) (deck.Content, error) {
	req = req.withDefaults()
	log := c.log.With("topic", req.Topic, "slides", req.SlideCount, "tone", req.Tone)
	if req.Topic == "" {
		return deck.Content{}, fail(ErrEmptyTopic)
	}

	body := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(req)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	start := time.Now()
	var resp chatCompletionResponse
	if err := c.doJSON(ctx, http.MethodPost, chatCompletionsPath, body, &resp); err != nil {
		log.Warn("content generation request failed", "error", err)
		return deck.Content{}, fail(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Warn("content generation returned no content")
		return deck.Content{}, fail(ErrNoResponse)
	}

	content, err := ParseContent(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warn("content generation returned unusable content", "error", err)
		return deck.Content{}, fail(err)
	}

	log.Info("content generated", "slides_returned", len(content.Slides), "elapsed", time.Since(start))
	return content, nil
}

// ParseContent decodes a model reply. The reply must be a bare JSON object
// with a non-empty coverTitle and a slides array. An empty slides array is
// rejected too, since a deck always keeps at least one slide.
func ParseContent(text string) (deck.Content, error) {
	var shape struct {
		CoverTitle string          `json:"coverTitle"`
		Slides     json.RawMessage `json:"slides"`
	}
	if err := json.Unmarshal([]byte(text), &shape); err != nil {
		return deck.Content{}, fmt.Errorf("genai: parsing reply: %w", err)
	}
	if shape.CoverTitle == "" {
		return deck.Content{}, fmt.Errorf("%w: missing coverTitle", ErrMalformedContent)
	}
	if trimmed := bytes.TrimSpace(shape.Slides); len(trimmed) == 0 || trimmed[0] != '[' {
		return deck.Content{}, fmt.Errorf("%w: slides is not an array", ErrMalformedContent)
	}

	var content deck.Content
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return deck.Content{}, fmt.Errorf("genai: parsing reply: %w", err)
	}
	if len(content.Slides) == 0 {
		return deck.Content{}, fmt.Errorf("%w: no slides", ErrMalformedContent)
	}
	return content, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoResponse
		}
		return fmt.Errorf("genai: decoding response: %w", err)
	}
	return nil
}
