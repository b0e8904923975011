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


package openai

import (
	"log/slog"

	"github.com/codemet/dora/ai"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages one embedder and one generator per configured model.
type Provider struct {
	config     *ai.Config
	embedder   *Embedder
	generators []ai.Generator
	logger     *slog.Logger
}

// NewProvider creates a new AI provider backed by an OpenAI-compatible
// host. The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	models := config.Models()
	generators := make([]ai.Generator, 0, len(models))
	for _, model := range models {
		gen, err := newGenerator(config, model)
		if err != nil {
			return nil, err
		}
		generators = append(generators, gen)
	}

	return &Provider{
		config:     config,
		embedder:   embedder,
		generators: generators,
		logger:     slog.Default().With("component", "openai-provider"),
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
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
