package embed

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ProviderType identifies an embedding backend.
type ProviderType string

const (
	// ProviderOpenAI uses the OpenAI embeddings API (default, network-hosted).
	ProviderOpenAI ProviderType = "openai"

	// ProviderONNX uses a locally loaded ONNX Runtime shared library via FFI
	// (no network dependency, no API key required).
	ProviderONNX ProviderType = "onnx"

	// ProviderStatic uses hash-based embeddings (fallback when no model
	// backend is configured).
	ProviderStatic ProviderType = "static"
)

// NewEmbedder creates an embedder for provider, applying model as an
// override where it applies. The TDPSEARCH_EMBEDDER environment variable,
// when set, takes precedence over provider ("openai", "onnx", "static").
//
// Query embedding caching is enabled by default; set TDPSEARCH_EMBED_CACHE=false
// to disable it.
func NewEmbedder(ctx context.Context, provider ProviderType, model string) (Embedder, error) {
	selected := provider
	if envProvider := os.Getenv("TDPSEARCH_EMBEDDER"); envProvider != "" {
		selected = ProviderType(strings.ToLower(envProvider))
	}

	var embedder Embedder
	var err error
	switch selected {
	case ProviderOpenAI:
		embedder, err = newOpenAIEmbedder(ctx, model)
	case ProviderONNX:
		embedder, err = newONNXEmbedder(ctx, model)
	case ProviderStatic:
		embedder, err = NewStaticEmbedder768(), nil
	default:
		embedder, err = newOpenAIEmbedder(ctx, model)
	}
	if err != nil {
		return nil, err
	}

	if !isCacheDisabled() {
		embedder = NewCachedEmbedderWithDefaults(embedder)
	}
	return embedder, nil
}

func isCacheDisabled() bool {
	v := strings.ToLower(os.Getenv("TDPSEARCH_EMBED_CACHE"))
	return v == "false" || v == "0" || v == "off" || v == "disabled"
}

func newOpenAIEmbedder(ctx context.Context, model string) (Embedder, error) {
	cfg := DefaultOpenAIConfig()
	if model != "" {
		cfg.Model = model
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL := os.Getenv("TDPSEARCH_OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	embedder, err := NewOpenAIEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("openai embedder unavailable: %w\n\nTo fix:\n  1. Set OPENAI_API_KEY\n  2. Or use the local embedder: TDPSEARCH_EMBEDDER=onnx\n  3. Or use the hash-based static embedder: TDPSEARCH_EMBEDDER=static", err)
	}
	return embedder, nil
}

func newONNXEmbedder(ctx context.Context, model string) (Embedder, error) {
	cfg := DefaultONNXConfig()
	if model != "" {
		cfg.ModelPath = model
	}
	if libPath := os.Getenv("TDPSEARCH_ONNX_LIBRARY"); libPath != "" {
		cfg.LibraryPath = libPath
	}
	if modelPath := os.Getenv("TDPSEARCH_ONNX_MODEL"); modelPath != "" {
		cfg.ModelPath = modelPath
	}

	if cfg.ModelPath == "" {
		manager := NewModelManager(DefaultModelsDir())
		modelPath, err := manager.EnsureModel(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("download default onnx model: %w", err)
		}
		cfg.ModelPath = modelPath
	}

	embedder, err := NewONNXEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("onnx embedder unavailable: %w\n\nTo fix:\n  1. Set TDPSEARCH_ONNX_LIBRARY and TDPSEARCH_ONNX_MODEL\n  2. Or use the OpenAI embedder: TDPSEARCH_EMBEDDER=openai\n  3. Or use the hash-based static embedder: TDPSEARCH_EMBEDDER=static", err)
	}
	return embedder, nil
}

// NewDefaultEmbedder creates a static embedder (768 dimensions).
//
// Deprecated: ignores user configuration; can cause dimension mismatches
// against an index built with a different embedder. Use NewEmbedder with
// ParseProvider(cfg.Embedding.Provider) instead.
func NewDefaultEmbedder(ctx context.Context) (Embedder, error) {
	return NewEmbedder(ctx, ProviderStatic, "")
}

// ParseProvider converts a config string to a ProviderType.
func ParseProvider(s string) ProviderType {
	switch strings.ToLower(s) {
	case "onnx", "local-onnx":
		return ProviderONNX
	case "static":
		return ProviderStatic
	default:
		return ProviderOpenAI
	}
}

// String returns the string representation of ProviderType.
func (p ProviderType) String() string { return string(p) }

// ValidProviders returns all valid provider names.
func ValidProviders() []string {
	return []string{string(ProviderOpenAI), string(ProviderONNX), string(ProviderStatic)}
}

// IsValidProvider checks if a provider name is valid.
func IsValidProvider(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range ValidProviders() {
		if lower == p {
			return true
		}
	}
	return false
}

// EmbedderInfo describes a constructed embedder.
type EmbedderInfo struct {
	Provider   ProviderType
	Model      string
	Dimensions int
	Available  bool
}

// GetInfo returns information about an embedder, unwrapping a cache layer
// if present to identify the underlying provider.
func GetInfo(ctx context.Context, embedder Embedder) EmbedderInfo {
	info := EmbedderInfo{
		Model:      embedder.ModelName(),
		Dimensions: embedder.Dimensions(),
		Available:  embedder.Available(ctx),
	}

	inner := embedder
	if cached, ok := embedder.(*CachedEmbedder); ok {
		inner = cached.inner
	}

	switch inner.(type) {
	case *OpenAIEmbedder:
		info.Provider = ProviderOpenAI
	case *ONNXEmbedder:
		info.Provider = ProviderONNX
	default:
		info.Provider = ProviderStatic
	}

	return info
}

// MustNewEmbedder creates an embedder and panics on failure. Use only in
// tests or initialization code where failure is fatal.
func MustNewEmbedder(ctx context.Context, provider ProviderType, model string) Embedder {
	embedder, err := NewEmbedder(ctx, provider, model)
	if err != nil {
		panic(fmt.Sprintf("failed to create embedder: %v", err))
	}
	return embedder
}
