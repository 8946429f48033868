package config

const (
	// DefaultListen is the default API listen address.
	DefaultListen = ":8000"

	// DefaultAllowOrigins is the default CORS origin, matching a local
	// frontend dev server.
	DefaultAllowOrigins = "http://localhost:3000"
)

// NewDefaultConfig returns a fully-populated Config with sane defaults.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Listen:       DefaultListen,
			AllowOrigins: DefaultAllowOrigins,
		},
		Client: ClientConfig{
			APITarget: "http://localhost:8000",
		},
		Embedding: EmbeddingConfig{
			Provider:   "doc2vec",
			VectorSize: 300,
			MinCount:   2,
			Epochs:     20,
		},
		VectorStore: VectorStoreConfig{
			Provider: "flat",
		},
		Extract: ExtractConfig{
			MinWords: 10,
		},
		Answer: AnswerConfig{
			Provider: "",
			Target:   "http://localhost:11434",
			Model:    "llama3:8b",
		},
	}
}
