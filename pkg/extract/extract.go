// Package extract turns files on disk into ordered document chunks.
package extract

import (
	"strings"

	"github.com/papershelf/papershelf/pkg/store"
)

// DefaultMinWords is the minimum word count for a paragraph to survive
// extraction. Shorter fragments are usually headings, captions, or page
// furniture.
const DefaultMinWords = 10

// Extractor reads a file and returns its chunks in reading order.
type Extractor interface {
	Extract(path string) ([]store.Chunk, error)
}

// Paragraphs splits text on blank lines and keeps paragraphs with at
// least minWords words, tagging each with the given page number.
func Paragraphs(text string, page, minWords int) []store.Chunk {
	var chunks []store.Chunk
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(strings.Fields(p)) < minWords {
			continue
		}
		chunks = append(chunks, store.Chunk{Text: p, Page: page})
	}
	return chunks
}
