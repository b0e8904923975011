package mock

import (
	"context"
	"errors"
	"fmt"

	"github.com/codemet/dora/ai"
)

// Outcome describes one scripted MockGenerator call.
type Outcome struct {
	response string
	err      error
}

// Respond scripts a successful call returning text.
func Respond(text string) Outcome {
	return Outcome{response: text}
}

// Fail scripts a call returning err.
func Fail(err error) Outcome {
	return Outcome{err: err}
}

// RateLimited scripts a call failing with a rate limit error.
func RateLimited() Outcome {
	return Outcome{err: errors.New("rate limit exceeded")}
}

// MockGenerator is a test double for ai.Generator.
// Calls consume scripted outcomes in order; once the script is
// exhausted (or absent) every call succeeds with a canned answer.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set, bypassing the script.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	model     string
	script    []Outcome
	callCount int

	// Prompts records every prompt passed to Generate.
	Prompts []string
}

// NewMockGenerator creates a mock generator identifying as model.
func NewMockGenerator(model string) *MockGenerator {
	return &MockGenerator{model: model}
}

// Script sets the ordered outcomes for subsequent calls.
func (m *MockGenerator) Script(outcomes ...Outcome) *MockGenerator {
	m.script = outcomes
	return m
}

// Model returns the configured model name.
func (m *MockGenerator) Model() string {
	return m.model
}

// Generate consumes the next scripted outcome.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.Prompts = append(m.Prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		if next.err != nil {
			if ai.IsRateLimit(next.err) {
				return "", &ai.RateLimitError{Model: m.model, Err: next.err}
			}
			return "", next.err
		}
		return next.response, nil
	}

	return fmt.Sprintf("mock answer from %s", m.model), nil
}

// CallCount returns the number of Generate calls.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the script, recorded prompts and call count.
func (m *MockGenerator) Reset() {
	m.script = nil
	m.callCount = 0
	m.Prompts = nil
	m.GenerateFunc = nil
}
