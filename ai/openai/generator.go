package openai

import (
	"context"
	"log/slog"

	"github.com/codemet/dora/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator for one chat model on an
// OpenAI-compatible host.
type Generator struct {
	llm         *openai.LLM
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config, model string) (*Generator, error) {
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:         llm,
		model:       model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "openai-generator", "model", model),
	}, nil
}

// NewGenerator creates a generator for a single model name.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config, model string) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newGenerator(config, model)
}

// Model returns the model identifier this generator calls.
func (g *Generator) Model() string {
	return g.model
}

// Generate produces a completion for the prompt. Rate limit errors from
// the host are wrapped so callers can classify them with ai.IsRateLimit.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "prompt_length", len(prompt))

	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		if ai.IsRateLimit(err) {
			return "", &ai.RateLimitError{Model: g.model, Err: err}
		}
		g.logger.Error("generation failed", "err", err)
		return "", err
	}

	return out, nil
}
