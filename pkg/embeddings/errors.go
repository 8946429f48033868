package embeddings

import "errors"

var (
	// ErrNotTrained is returned by Embed and EmbedBatch when a trainable
	// embedder has never been fitted.
	ErrNotTrained = errors.New("embedding model not trained")

	// ErrEmptyCorpus is returned by Fit when the corpus yields no usable
	// vocabulary.
	ErrEmptyCorpus = errors.New("empty training corpus")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")
)
