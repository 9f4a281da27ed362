package embed

import (
	"context"
	"os"
	"testing"
)

func TestNewEmbedder_StaticProvider_AlwaysSucceeds(t *testing.T) {
	embedder, err := NewEmbedder(context.Background(), ProviderStatic, "")
	if err != nil {
		t.Fatalf("NewEmbedder(static) error = %v", err)
	}
	defer embedder.Close()

	if embedder.Dimensions() != Static768Dimensions {
		t.Errorf("Dimensions() = %d, want %d", embedder.Dimensions(), Static768Dimensions)
	}
}

func TestNewEmbedder_OpenAI_MissingAPIKey_ReturnsError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TDPSEARCH_EMBEDDER", "")

	_, err := NewEmbedder(context.Background(), ProviderOpenAI, "")
	if err == nil {
		t.Fatal("expected error when OPENAI_API_KEY is unset and no base URL override is given")
	}
}

func TestNewEmbedder_ONNX_MissingLibrary_ReturnsError(t *testing.T) {
	t.Setenv("TDPSEARCH_EMBEDDER", "")
	t.Setenv("TDPSEARCH_ONNX_LIBRARY", "/nonexistent/libtdpembed.so")

	_, err := NewEmbedder(context.Background(), ProviderONNX, "")
	if err == nil {
		t.Fatal("expected error for a library path that cannot be dlopen'd")
	}
}

func TestNewEmbedder_EnvVarOverridesProviderArgument(t *testing.T) {
	t.Setenv("TDPSEARCH_EMBEDDER", "static")

	embedder, err := NewEmbedder(context.Background(), ProviderOpenAI, "")
	if err != nil {
		t.Fatalf("NewEmbedder() error = %v", err)
	}
	defer embedder.Close()

	info := GetInfo(context.Background(), embedder)
	if info.Provider != ProviderStatic {
		t.Errorf("Provider = %q, want %q (env override should win)", info.Provider, ProviderStatic)
	}
}

func TestNewEmbedder_CacheDisabledByEnvVar(t *testing.T) {
	t.Setenv("TDPSEARCH_EMBEDDER", "static")
	t.Setenv("TDPSEARCH_EMBED_CACHE", "false")

	embedder, err := NewEmbedder(context.Background(), ProviderStatic, "")
	if err != nil {
		t.Fatalf("NewEmbedder() error = %v", err)
	}
	defer embedder.Close()

	if _, ok := embedder.(*CachedEmbedder); ok {
		t.Error("expected uncached embedder when TDPSEARCH_EMBED_CACHE=false")
	}
}

func TestNewEmbedder_CacheEnabledByDefault(t *testing.T) {
	os.Unsetenv("TDPSEARCH_EMBED_CACHE")
	t.Setenv("TDPSEARCH_EMBEDDER", "static")

	embedder, err := NewEmbedder(context.Background(), ProviderStatic, "")
	if err != nil {
		t.Fatalf("NewEmbedder() error = %v", err)
	}
	defer embedder.Close()

	if _, ok := embedder.(*CachedEmbedder); !ok {
		t.Errorf("expected *CachedEmbedder by default, got %T", embedder)
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input string
		want  ProviderType
	}{
		{"openai", ProviderOpenAI},
		{"OpenAI", ProviderOpenAI},
		{"onnx", ProviderONNX},
		{"local-onnx", ProviderONNX},
		{"static", ProviderStatic},
		{"", ProviderOpenAI},
		{"unknown", ProviderOpenAI},
	}
	for _, tt := range tests {
		if got := ParseProvider(tt.input); got != tt.want {
			t.Errorf("ParseProvider(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidProvider(t *testing.T) {
	for _, p := range ValidProviders() {
		if !IsValidProvider(p) {
			t.Errorf("IsValidProvider(%q) = false, want true", p)
		}
	}
	if IsValidProvider("ollama") {
		t.Error("IsValidProvider(\"ollama\") = true, want false (no longer a supported provider)")
	}
}

func TestGetInfo_UnwrapsCachedEmbedder(t *testing.T) {
	inner := NewStaticEmbedder768()
	cached := NewCachedEmbedderWithDefaults(inner)

	info := GetInfo(context.Background(), cached)
	if info.Provider != ProviderStatic {
		t.Errorf("Provider = %q, want %q", info.Provider, ProviderStatic)
	}
	if info.Dimensions != Static768Dimensions {
		t.Errorf("Dimensions = %d, want %d", info.Dimensions, Static768Dimensions)
	}
	if !info.Available {
		t.Error("Available = false, want true")
	}
}

func TestMustNewEmbedder_PanicsOnError(t *testing.T) {
	t.Setenv("TDPSEARCH_EMBEDDER", "")
	t.Setenv("OPENAI_API_KEY", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when the openai embedder cannot be constructed")
		}
	}()
	MustNewEmbedder(context.Background(), ProviderOpenAI, "")
}

func TestMustNewEmbedder_StaticNeverPanics(t *testing.T) {
	embedder := MustNewEmbedder(context.Background(), ProviderStatic, "")
	defer embedder.Close()
}
