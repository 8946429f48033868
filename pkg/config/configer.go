package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/papershelf/papershelf/pkg/dotdir"
)

const configFile = "config.toml"

// Configer reads and writes config.toml in the resolved .papershelf/
// directory. Viper-based Load handles the effective runtime config;
// Configer is the editing surface behind `papershelf config get/set/list`.
type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads config.toml from the target directory. A missing file
// returns NewDefaultConfig() so callers always receive a fully-populated
// Config. Fields set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// SaveConfig persists the configuration to config.toml.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key, and saves it.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation
// of the given key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// applyDefaults fills zero-value fields in cfg from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.API.Listen == "" {
		cfg.API.Listen = defaults.API.Listen
	}
	if cfg.API.AllowOrigins == "" {
		cfg.API.AllowOrigins = defaults.API.AllowOrigins
	}

	if cfg.Client.APITarget == "" {
		cfg.Client.APITarget = defaults.Client.APITarget
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = defaults.Embedding.Provider
	}
	if cfg.Embedding.VectorSize == 0 {
		cfg.Embedding.VectorSize = defaults.Embedding.VectorSize
	}
	if cfg.Embedding.MinCount == 0 {
		cfg.Embedding.MinCount = defaults.Embedding.MinCount
	}
	if cfg.Embedding.Epochs == 0 {
		cfg.Embedding.Epochs = defaults.Embedding.Epochs
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = defaults.VectorStore.Provider
	}

	if cfg.Extract.MinWords == 0 {
		cfg.Extract.MinWords = defaults.Extract.MinWords
	}

	if cfg.Answer.Target == "" {
		cfg.Answer.Target = defaults.Answer.Target
	}
	if cfg.Answer.Model == "" {
		cfg.Answer.Model = defaults.Answer.Model
	}
}

type configKey struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringKey(get func(*Config) *string) configKey {
	return configKey{
		get: func(c *Config) string { return *get(c) },
		set: func(c *Config, v string) error {
			*get(c) = v
			return nil
		},
	}
}

func intKey(get func(*Config) *int) configKey {
	return configKey{
		get: func(c *Config) string { return strconv.Itoa(*get(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("value must be an integer: %q", v)
			}
			*get(c) = n
			return nil
		},
	}
}

var configKeys = map[string]configKey{
	"storage.data_dir":    stringKey(func(c *Config) *string { return &c.Storage.DataDir }),
	"storage.uploads_dir": stringKey(func(c *Config) *string { return &c.Storage.UploadsDir }),

	"api.listen":        stringKey(func(c *Config) *string { return &c.API.Listen }),
	"api.allow_origins": stringKey(func(c *Config) *string { return &c.API.AllowOrigins }),

	"client.api_target": stringKey(func(c *Config) *string { return &c.Client.APITarget }),

	"embedding.provider":    stringKey(func(c *Config) *string { return &c.Embedding.Provider }),
	"embedding.target":      stringKey(func(c *Config) *string { return &c.Embedding.Target }),
	"embedding.model":       stringKey(func(c *Config) *string { return &c.Embedding.Model }),
	"embedding.vector_size": intKey(func(c *Config) *int { return &c.Embedding.VectorSize }),
	"embedding.min_count":   intKey(func(c *Config) *int { return &c.Embedding.MinCount }),
	"embedding.epochs":      intKey(func(c *Config) *int { return &c.Embedding.Epochs }),

	"vector_store.provider": stringKey(func(c *Config) *string { return &c.VectorStore.Provider }),

	"extract.min_words": intKey(func(c *Config) *int { return &c.Extract.MinWords }),

	"answer.provider": stringKey(func(c *Config) *string { return &c.Answer.Provider }),
	"answer.target":   stringKey(func(c *Config) *string { return &c.Answer.Target }),
	"answer.model":    stringKey(func(c *Config) *string { return &c.Answer.Model }),
}

// ValidConfigKeys returns all supported configuration keys in a stable,
// logical order matching the TOML section layout.
func ValidConfigKeys() []string {
	ordered := []string{
		"storage.data_dir",
		"storage.uploads_dir",
		"api.listen",
		"api.allow_origins",
		"client.api_target",
		"embedding.provider",
		"embedding.target",
		"embedding.model",
		"embedding.vector_size",
		"embedding.min_count",
		"embedding.epochs",
		"vector_store.provider",
		"extract.min_words",
		"answer.provider",
		"answer.target",
		"answer.model",
	}

	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey reports whether key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}
