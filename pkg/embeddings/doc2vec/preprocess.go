package doc2vec

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Token length bounds. Tokens outside these bounds are discarded during
// preprocessing, mirroring the usual simple tokenization for this kind of
// model.
const (
	minTokenLen = 2
	maxTokenLen = 15
)

// Preprocess normalizes text for training and inference: lowercase, strip
// accents, split into letter/digit word tokens, drop empty and out-of-bounds
// tokens. This is pure normalization, not a semantic filter.
func Preprocess(text string) []string {
	lowered := strings.ToLower(text)

	// NFD-decompose and drop combining marks to strip accents. The chain is
	// built per call because transformers carry internal state.
	deaccent := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(deaccent, lowered); err == nil {
		lowered = stripped
	}

	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if n := len([]rune(f)); n < minTokenLen || n > maxTokenLen {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}
