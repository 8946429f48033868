// Package answer turns retrieved chunks into prose using a text
// generation backend.
//
// The [Generator] interface is intentionally minimal: Generate completes
// a single prompt and Close releases resources. On top of it, [Service]
// implements the document tasks — summary, abstract, approach, keywords,
// results, and free-form question answering — each pairing a retrieval
// query with a prompt template.
//
// Generators are pluggable via configuration:
//
//	[answer]
//	provider = "ollama"
package answer

import (
	"context"
	"errors"
	"strings"
)

// Generator produces a completion for a prompt.
type Generator interface {
	// Generate returns the model's completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}

// ErrNotConfigured is returned by generator operations when no backend
// is configured.
var ErrNotConfigured = errors.New("answer generator not configured")

// CleanResponse collapses all whitespace runs into single spaces so
// multi-line model output reads as one paragraph.
func CleanResponse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
