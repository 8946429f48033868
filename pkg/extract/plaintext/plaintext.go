// Package plaintext extracts chunks from plain text files.
package plaintext

import (
	"fmt"
	"os"

	"github.com/papershelf/papershelf/pkg/extract"
	"github.com/papershelf/papershelf/pkg/store"
)

// Extractor splits a text file into paragraph chunks. Plain text has no
// pages, so every chunk reports page 1.
type Extractor struct {
	minWords int
}

// Config holds plaintext extractor settings.
type Config struct {
	// MinWords is the minimum paragraph length in words. Zero means
	// extract.DefaultMinWords.
	MinWords int
}

func NewExtractor(cfg Config) *Extractor {
	minWords := cfg.MinWords
	if minWords <= 0 {
		minWords = extract.DefaultMinWords
	}
	return &Extractor{minWords: minWords}
}

func (e *Extractor) Extract(path string) ([]store.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	chunks := extract.Paragraphs(string(data), 1, e.minWords)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no usable paragraphs in %s", path)
	}
	return chunks, nil
}

var _ extract.Extractor = (*Extractor)(nil)
