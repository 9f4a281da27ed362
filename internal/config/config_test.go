package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfigFixture(t, `
[embedding]
provider = "static"

[vector]
host = "localhost"
port = 6334
collection = "chunks"

[metadata]
path = "metadata.db"

[data_access]
run = "default"
papers_root = "./papers"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataAccess.PapersRoot != "./papers" {
		t.Errorf("PapersRoot = %q, want %q", cfg.DataAccess.PapersRoot, "./papers")
	}
	if cfg.Vector.Run != "default" {
		t.Errorf("Vector.Run = %q, want inherited %q", cfg.Vector.Run, "default")
	}
	if cfg.Metadata.Run != "default" {
		t.Errorf("Metadata.Run = %q, want inherited %q", cfg.Metadata.Run, "default")
	}
	if cfg.Activity != nil {
		t.Error("expected Activity to be nil when the section is absent")
	}
}

func TestLoadLocalRunOverridesDataAccessRun(t *testing.T) {
	path := writeConfigFixture(t, `
[embedding]
provider = "static"

[vector]
run = "vector-specific"

[metadata]

[data_access]
run = "default"
papers_root = "./papers"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Vector.Run != "vector-specific" {
		t.Errorf("Vector.Run = %q, want explicit local override %q", cfg.Vector.Run, "vector-specific")
	}
	if cfg.Metadata.Run != "default" {
		t.Errorf("Metadata.Run = %q, want inherited %q", cfg.Metadata.Run, "default")
	}
}

func TestLoadActivitySectionPropagatesRun(t *testing.T) {
	path := writeConfigFixture(t, `
[embedding]
provider = "static"

[vector]
[metadata]
[activity]
path = "activity.db"

[data_access]
run = "default"
papers_root = "./papers"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Activity == nil {
		t.Fatal("expected Activity to be populated")
	}
	if cfg.Activity.Run != "default" {
		t.Errorf("Activity.Run = %q, want inherited %q", cfg.Activity.Run, "default")
	}
}

func TestLoadMissingPapersRootFails(t *testing.T) {
	path := writeConfigFixture(t, `
[embedding]
provider = "static"

[vector]
[metadata]

[data_access]
run = "default"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing papers_root")
	}
}

func TestLoadInvalidProviderFails(t *testing.T) {
	path := writeConfigFixture(t, `
[embedding]
provider = "not-a-real-provider"

[vector]
[metadata]

[data_access]
run = "default"
papers_root = "./papers"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid embedding provider")
	}
}

func TestLoadUnparseableFileFails(t *testing.T) {
	path := writeConfigFixture(t, "this is not valid toml {{{")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCacheEnabledDefaultsTrue(t *testing.T) {
	var e EmbeddingConfig
	if !e.CacheEnabled() {
		t.Error("CacheEnabled() = false, want true when unset")
	}
	disabled := false
	e.Cache = &disabled
	if e.CacheEnabled() {
		t.Error("CacheEnabled() = true, want false when explicitly disabled")
	}
}
