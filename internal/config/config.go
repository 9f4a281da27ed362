// Package config loads tdpsearch's TOML configuration file (C15): embedding
// backend, vector backend, metadata backend, optional activity store, and
// the paper-JSON root, per spec.md §6.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
)

// EmbeddingConfig selects and configures the embedding backend (C5).
type EmbeddingConfig struct {
	Provider string `toml:"provider"` // "openai", "onnx", or "static"
	Model    string `toml:"model"`
	Cache    *bool  `toml:"cache"` // nil inherits the provider default (on)
}

// VectorConfig configures the vector-index client (C13).
type VectorConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Collection string `toml:"collection"`
	APIKey     string `toml:"api_key"`
	Run        string `toml:"run"` // inherits DataAccess.Run when unset
}

// MetadataConfig configures the SQLite metadata store (C12).
type MetadataConfig struct {
	Path string `toml:"path"`
	Run  string `toml:"run"` // inherits DataAccess.Run when unset
}

// ActivityConfig configures the optional SQLite activity/audit log (C14).
// A nil Activity section in Config disables the collaborator entirely.
type ActivityConfig struct {
	Path string `toml:"path"`
	Run  string `toml:"run"` // inherits DataAccess.Run when unset
}

// DataAccessConfig carries cross-cutting indexing/storage settings. Run is
// propagated to any section above that declares a `run` field but leaves
// it unset; an explicit local value always wins.
type DataAccessConfig struct {
	Run        string `toml:"run"`
	PapersRoot string `toml:"papers_root"`
}

// Config is the fully loaded, propagated tdpsearch configuration.
type Config struct {
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Vector     VectorConfig     `toml:"vector"`
	Metadata   MetadataConfig   `toml:"metadata"`
	Activity   *ActivityConfig  `toml:"activity"`
	DataAccess DataAccessConfig `toml:"data_access"`
}

// Load reads and parses the TOML file at path, then propagates
// data_access.run into any section that left its own run field unset.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.propagateRun()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// propagateRun fills in any section's empty Run field from
// DataAccess.Run, per spec.md §6.
func (c *Config) propagateRun() {
	if c.Vector.Run == "" {
		c.Vector.Run = c.DataAccess.Run
	}
	if c.Metadata.Run == "" {
		c.Metadata.Run = c.DataAccess.Run
	}
	if c.Activity != nil && c.Activity.Run == "" {
		c.Activity.Run = c.DataAccess.Run
	}
}

// Validate reports the first configuration error found: a missing
// papers_root, an invalid embedding provider, or an unset run label
// anywhere it's required.
func (c *Config) Validate() error {
	if c.DataAccess.PapersRoot == "" {
		return fmt.Errorf("data_access.papers_root is required")
	}
	if c.Embedding.Provider != "" && !embed.IsValidProvider(c.Embedding.Provider) {
		return fmt.Errorf("embedding.provider %q is not one of %v", c.Embedding.Provider, embed.ValidProviders())
	}
	if c.Vector.Run == "" {
		return fmt.Errorf("vector.run (or data_access.run) is required")
	}
	if c.Metadata.Run == "" {
		return fmt.Errorf("metadata.run (or data_access.run) is required")
	}
	return nil
}

// CacheEnabled reports whether the embedding cache (C19) should wrap the
// configured embedder; defaults to enabled when unset.
func (e EmbeddingConfig) CacheEnabled() bool {
	return e.Cache == nil || *e.Cache
}
