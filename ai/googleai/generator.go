package googleai

import (
	"context"
	"log/slog"

	"github.com/codemet/dora/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Generator implements ai.Generator for one Gemini model.
type Generator struct {
	llm         *googleai.GoogleAI
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

func newGenerator(client *googleai.GoogleAI, config *ai.Config, model string) *Generator {
	return &Generator{
		llm:         client,
		model:       model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "googleai-generator", "model", model),
	}
}

// Model returns the model identifier this generator calls.
func (g *Generator) Model() string {
	return g.model
}

// Generate produces a completion for the prompt. Quota errors are
// wrapped so callers can classify them with ai.IsRateLimit.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "prompt_length", len(prompt))

	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithModel(g.model),
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
