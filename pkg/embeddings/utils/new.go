// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/embeddings"
	"github.com/papershelf/papershelf/pkg/embeddings/doc2vec"
	"github.com/papershelf/papershelf/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	VectorSize   int
	MinCount     int
	Epochs       int
	ModelPath    string
	Logger       *zap.Logger
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "doc2vec":
		return doc2vec.New(doc2vec.Config{
			VectorSize: o.VectorSize,
			MinCount:   o.MinCount,
			Epochs:     o.Epochs,
			ModelPath:  o.ModelPath,
		}, o.Logger), nil
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL:    o.TargetURL,
			Model:      o.Model,
			Dimensions: o.VectorSize,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
