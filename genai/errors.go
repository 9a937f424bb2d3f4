package genai

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed matches every error returned by Client.Generate.
	ErrGenerationFailed = errors.New("content generation failed, please try again")

	ErrNoResponse       = errors.New("genai: no response content from provider")
	ErrMalformedContent = errors.New("genai: response does not have the expected structure")
	ErrEmptyTopic       = errors.New("genai: topic is required")
)

// GenerationError is the single error shape callers see. Its message never
// varies; Cause carries the transport, status, or parsing detail for logs.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return ErrGenerationFailed.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrGenerationFailed) hold for every GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func fail(cause error) error {
	return &GenerationError{Cause: cause}
}

// HTTPError is a non-2xx response from the provider.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}
