package testutils

import (
	"context"
	"fmt"

	"github.com/papershelf/papershelf/pkg/answer"
)

// MockGenerator is a test generator that records prompts and returns
// configurable completions.
type MockGenerator struct {
	// Prompts accumulates every prompt passed to Generate.
	Prompts []string

	// Responses are returned in order; once exhausted, Response is
	// returned for every call.
	Responses []string

	// Response is the fallback completion.
	Response string

	// Fail causes Generate to return an error.
	Fail bool
}

func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if m.Fail {
		return "", fmt.Errorf("mock generation failure")
	}

	m.Prompts = append(m.Prompts, prompt)
	if len(m.Responses) > 0 {
		next := m.Responses[0]
		m.Responses = m.Responses[1:]
		return next, nil
	}
	return m.Response, nil
}

func (m *MockGenerator) Close() error {
	return nil
}

var _ answer.Generator = (*MockGenerator)(nil)
