package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papershelf/papershelf/pkg/dotdir"
)

// Load resolves the effective configuration for the given config directory.
// It sets defaults from NewDefaultConfig(), reads config.toml (if found via
// dotdir resolution), and binds environment variables with the PAPERSHELF_
// prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (PAPERSHELF_API_LISTEN, PAPERSHELF_EMBEDDING_EPOCHS, etc.)
//  2. config.toml file values
//  3. Defaults from NewDefaultConfig()
func Load(configDir string) (*Config, error) {
	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// InitViper creates and returns a configured *viper.Viper.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: PAPERSHELF_API_LISTEN, PAPERSHELF_STORAGE_DATA_DIR, etc.
	v.SetEnvPrefix("PAPERSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	// Storage
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.uploads_dir", d.Storage.UploadsDir)

	// API
	v.SetDefault("api.listen", d.API.Listen)
	v.SetDefault("api.allow_origins", d.API.AllowOrigins)

	// Client
	v.SetDefault("client.api_target", d.Client.APITarget)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.vector_size", d.Embedding.VectorSize)
	v.SetDefault("embedding.min_count", d.Embedding.MinCount)
	v.SetDefault("embedding.epochs", d.Embedding.Epochs)

	// Vector store
	v.SetDefault("vector_store.provider", d.VectorStore.Provider)

	// Extract
	v.SetDefault("extract.min_words", d.Extract.MinWords)

	// Answer
	v.SetDefault("answer.provider", d.Answer.Provider)
	v.SetDefault("answer.target", d.Answer.Target)
	v.SetDefault("answer.model", d.Answer.Model)
}
