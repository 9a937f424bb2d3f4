// Package config loads runtime settings from the environment, after
// merging an optional .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTimeout     = 60 * time.Second
	DefaultLogMode     = "dev"
	DefaultConcurrency = 4
)

// DefaultHighlightWords are the title words drawn in the accent colour.
var DefaultHighlightWords = []string{"HOW", "99.99%"}

// ErrMissingAPIKey is returned by RequireAPIKey when GROQ_API_KEY is unset.
var ErrMissingAPIKey = errors.New("config: GROQ_API_KEY is not set")

// Config is the process configuration read from the environment.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	LogMode        string
	HighlightWords []string
	Concurrency    int
}

// Load reads envFile (skipped when empty or missing) without overriding
// variables that are already set, then builds a Config from the environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	cfg := Config{
		APIKey:         strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		BaseURL:        str("PDFDECK_LLM_BASE_URL", DefaultBaseURL),
		Model:          str("PDFDECK_LLM_MODEL", DefaultModel),
		Timeout:        time.Duration(positiveInt("PDFDECK_LLM_TIMEOUT_SECONDS", int(DefaultTimeout/time.Second))) * time.Second,
		LogMode:        str("PDFDECK_LOG_MODE", DefaultLogMode),
		HighlightWords: csv("PDFDECK_HIGHLIGHT_WORDS", DefaultHighlightWords),
		Concurrency:    positiveInt("PDFDECK_CONCURRENCY", DefaultConcurrency),
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

// RequireAPIKey fails when no API key is configured.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func str(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func positiveInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func csv(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
