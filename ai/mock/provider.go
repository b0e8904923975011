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


package mock

import "github.com/codemet/dora/ai"

// MockProvider is a test double for ai.Provider.
// It aggregates a mock embedder and a chain of mock generators.
type MockProvider struct {
	embedder   *MockEmbedder
	generators []*MockGenerator
}

// NewMockProvider creates a new mock provider with a default embedder
// and a single generator named "mock-model".
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockGenerators() to access concrete types
// for test assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		generators: []*MockGenerator{NewMockGenerator("mock-model")},
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock
// services. This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, generators ...*MockGenerator) ai.Provider {
	return &MockProvider{
		embedder:   embedder,
		generators: generators,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Generators returns the mock generator chain.
func (p *MockProvider) Generators() []ai.Generator {
	out := make([]ai.Generator, len(p.generators))
	for i, g := range p.generators {
		out[i] = g
	}
	return out
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockGenerators returns the underlying mock generators for test assertions.
func (p *MockProvider) GetMockGenerators() []*MockGenerator {
	return p.generators
}
