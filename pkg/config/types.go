package config

// Config represents the persistent papershelf configuration stored as
// config.toml in the .papershelf/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Storage     StorageConfig     `toml:"storage" mapstructure:"storage"`
	API         APIConfig         `toml:"api" mapstructure:"api"`
	Client      ClientConfig      `toml:"client" mapstructure:"client"`
	Embedding   EmbeddingConfig   `toml:"embedding" mapstructure:"embedding"`
	VectorStore VectorStoreConfig `toml:"vector_store" mapstructure:"vector_store"`
	Extract     ExtractConfig     `toml:"extract" mapstructure:"extract"`
	Answer      AnswerConfig      `toml:"answer" mapstructure:"answer"`
}

// StorageConfig holds the durable artifact locations. Empty paths resolve
// under the .papershelf/ dot directory at startup.
type StorageConfig struct {
	DataDir    string `toml:"data_dir,omitempty" mapstructure:"data_dir"`
	UploadsDir string `toml:"uploads_dir,omitempty" mapstructure:"uploads_dir"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen       string `toml:"listen,omitempty" mapstructure:"listen"`
	AllowOrigins string `toml:"allow_origins,omitempty" mapstructure:"allow_origins"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// API server (papershelf ingest, papershelf search). The value is a full URL
// (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty" mapstructure:"api_target"`
}

// EmbeddingConfig holds embedding model settings.
//
// The doc2vec provider trains locally on the first ingested document; the
// ollama provider delegates to a running Ollama instance and needs no
// training.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty" mapstructure:"provider"`
	Target     string `toml:"target,omitempty" mapstructure:"target"`
	Model      string `toml:"model,omitempty" mapstructure:"model"`
	VectorSize int    `toml:"vector_size,omitempty" mapstructure:"vector_size"`
	MinCount   int    `toml:"min_count,omitempty" mapstructure:"min_count"`
	Epochs     int    `toml:"epochs,omitempty" mapstructure:"epochs"`
}

// VectorStoreConfig holds vector index settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty" mapstructure:"provider"`
}

// ExtractConfig holds text extraction settings.
type ExtractConfig struct {
	MinWords int `toml:"min_words,omitempty" mapstructure:"min_words"`
}

// AnswerConfig holds answer generation settings. An empty provider disables
// generation; retrieval endpoints then return ranked chunks only.
type AnswerConfig struct {
	Provider string `toml:"provider,omitempty" mapstructure:"provider"`
	Target   string `toml:"target,omitempty" mapstructure:"target"`
	Model    string `toml:"model,omitempty" mapstructure:"model"`
}
