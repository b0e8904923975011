// Copyright 2025 Codemet
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey authenticates against the hosted model API.
	APIKey string

	// BaseURL is the base URL for OpenAI-compatible chat/embedding APIs.
	// Example: "https://api.groq.com/openai/v1"
	BaseURL string

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "all-minilm-l6-v2", "text-embedding-3-small"
	EmbeddingModel string

	// PrimaryModel is the first generation model tried for every answer.
	PrimaryModel string

	// FallbackModels are tried in order after the primary model exhausts
	// its retries. Ordered best-quality-first, not most-available-first.
	FallbackModels []string

	// Temperature for generation calls.
	Temperature float64

	// MaxTokens caps generated answer length.
	MaxTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithPrimaryModel sets the primary generation model.
func WithPrimaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.PrimaryModel = model
	}
}

// WithFallbackModels sets the ordered fallback chain.
func WithFallbackModels(models ...string) ConfigOption {
	return func(c *Config) {
		c.FallbackModels = models
	}
}

// WithTemperature sets the generation temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens caps generated answer length.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config with defaults for the Groq-hosted chain.
// The fallback order trades request budget for quality: the strongest
// models first, the high-quota small models last.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.groq.com/openai/v1",
		EmbeddingModel: "all-minilm-l6-v2",
		PrimaryModel:   "llama-3.3-70b-versatile",
		FallbackModels: []string{
			"openai/gpt-oss-120b",
			"qwen/qwen3-32b",
			"meta-llama/llama-4-scout-17b-16e-instruct",
			"allam-2-7b",
		},
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("GROQ_API_KEY")),
//	    ai.WithPrimaryModel("llama-3.3-70b-versatile"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Models returns the full generation chain: primary model first, then the
// fallbacks with any duplicate of the primary removed.
func (c *Config) Models() []string {
	models := []string{c.PrimaryModel}
	for _, m := range c.FallbackModels {
		if m != c.PrimaryModel {
			models = append(models, m)
		}
	}
	return models
}

// Normalize ensures the configuration is in canonical form. The base URL
// loses any trailing slash so path joining stays predictable.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.PrimaryModel == "" {
		return errors.New("ai config: PrimaryModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	return nil
}
