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


package googleai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/codemet/dora/ai"
	"github.com/tmc/langchaingo/llms/googleai"
)

// DefaultConfig returns an ai.Config tuned for Gemini. The fallback
// chain mirrors the Groq default: strongest model first.
func DefaultConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithBaseURL("https://generativelanguage.googleapis.com"),
		ai.WithEmbeddingModel("text-embedding-004"),
		ai.WithPrimaryModel("gemini-2.0-flash-exp"),
		ai.WithFallbackModels("gemini-1.5-flash", "gemini-1.5-flash-8b"),
	)
}

// Provider implements ai.Provider on the Gemini API. One underlying
// client serves the embedder and every generator in the chain.
type Provider struct {
	client     *googleai.GoogleAI
	embedder   *Embedder
	generators []ai.Generator
	logger     *slog.Logger
}

// NewProvider creates a Gemini-backed provider. The API key is
// mandatory; Gemini has no unauthenticated mode.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.APIKey == "" {
		return nil, errors.New("googleai: APIKey is required")
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.PrimaryModel),
		googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(client)
	if err != nil {
		return nil, err
	}

	models := config.Models()
	generators := make([]ai.Generator, 0, len(models))
	for _, model := range models {
		generators = append(generators, newGenerator(client, config, model))
	}

	return &Provider{
		client:     client,
		embedder:   embedder,
		generators: generators,
		logger:     slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generators returns the generation chain, primary model first.
func (p *Provider) Generators() []ai.Generator {
	return p.generators
}

// Close releases resources held by the provider.
func (p *Provider) Close() error {
	p.logger.Debug("closing Google AI provider")
	return nil
}
