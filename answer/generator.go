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


package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codemet/dora/ai"
	"github.com/codemet/dora/core"
)

// Engine generates grounded answers by walking a model chain.
type Engine struct {
	generators []ai.Generator
	retry      ai.RetryPolicy
	logger     *slog.Logger
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithRetryPolicy overrides the per-model retry policy.
func WithRetryPolicy(policy ai.RetryPolicy) Option {
	return func(e *Engine) {
		e.retry = policy
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With("component", "answer")
	}
}

// NewEngine creates an Engine over an ordered model chain. The chain
// must come best-quality-first; position decides priority.
func NewEngine(generators []ai.Generator, opts ...Option) (*Engine, error) {
	if len(generators) == 0 {
		return nil, ErrNilGenerators
	}

	e := &Engine{
		generators: generators,
		retry:      ai.DefaultRetryPolicy(),
		logger:     slog.Default().With("component", "answer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Answer generates a grounded reply to the question from the retrieved
// chunks. Each model gets the retry policy's attempts with exponential
// backoff before the chain advances; when every model fails, the
// returned error wraps ErrAllProvidersExhausted and the last failure.
func (e *Engine) Answer(ctx context.Context, question string, retrieval *core.RetrievalResult) (*core.Answer, error) {
	if retrieval == nil || len(retrieval.Chunks) == 0 {
		return nil, ErrNoChunks
	}

	prompt := BuildPrompt(question, retrieval.Chunks)

	var lastErr error
	for i, gen := range e.generators {
		if i > 0 {
			e.logger.Warn("advancing to fallback model", "model", gen.Model())
		}

		var text string
		err := e.retry.Do(ctx, func() error {
			var genErr error
			text, genErr = gen.Generate(ctx, prompt)
			return genErr
		})
		if err == nil {
			if i > 0 {
				e.logger.Info("fallback model succeeded", "model", gen.Model())
			}
			return &core.Answer{
				Text:          CleanResponse(text),
				Sources:       retrieval.Sources,
				FromDocuments: retrieval.FromDocuments,
				FallbackUsed:  retrieval.FallbackUsed,
			}, nil
		}

		// Context errors are the caller's cancellation, not a model
		// failure; stop the chain immediately.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		lastErr = err
		e.logger.Warn("model exhausted retries", "model", gen.Model(), "err", err)
	}

	return nil, fmt.Errorf("%w: last model failed with: %w", ErrAllProvidersExhausted, lastErr)
}
