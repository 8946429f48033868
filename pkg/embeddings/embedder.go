// Package embeddings provides interfaces for turning text into vector embeddings.
package embeddings

import "context"

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts into embeddings, one per input in
	// input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Close releases any resources held by the embedder.
	Close() error
}

// Trainable is implemented by embedders that must be fitted on a corpus
// before they can embed. Remote embedders (e.g. Ollama) do not implement it.
type Trainable interface {
	// Fit trains the embedder on the given corpus. Calling Fit on an
	// already-trained embedder is a no-op that leaves the model and its
	// vocabulary unchanged.
	Fit(ctx context.Context, texts []string) error

	// Trained reports whether the embedder has been fitted.
	Trained() bool
}
