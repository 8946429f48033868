package testutils

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/papershelf/papershelf/pkg/embeddings"
)

// MockEmbedder is a test embedder that returns predictable embeddings.
// Texts without a configured embedding get a deterministic vector derived
// from the text itself, so distinct texts land at distinct points.
type MockEmbedder struct {
	Embeddings map[string][]float32
	Dim        int

	// FailOn causes Embed to return an error when the input text matches
	FailOn string

	// FitCalls counts invocations of Fit.
	FitCalls int

	// IsTrained is reported by Trained and set by a successful Fit.
	IsTrained bool

	// FailFit causes Fit to return an error.
	FailFit bool
}

func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
		Dim:        dim,
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	return m.derive(text), nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		emb, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, emb)
	}
	return out, nil
}

func (m *MockEmbedder) Dimensions() int {
	return m.Dim
}

func (m *MockEmbedder) Close() error {
	return nil
}

func (m *MockEmbedder) Fit(_ context.Context, texts []string) error {
	m.FitCalls++
	if m.FailFit {
		return fmt.Errorf("mock fit failure")
	}
	if len(texts) == 0 {
		return embeddings.ErrEmptyCorpus
	}
	m.IsTrained = true
	return nil
}

func (m *MockEmbedder) Trained() bool {
	return m.IsTrained
}

func (m *MockEmbedder) derive(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, m.Dim)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000) / 1000.0
	}
	return vec
}

var (
	_ embeddings.Embedder  = (*MockEmbedder)(nil)
	_ embeddings.Trainable = (*MockEmbedder)(nil)
)
