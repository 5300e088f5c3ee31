package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Target == "" {
		t.Error("expected a non-empty default target triple")
	}
	if cfg.OptLevel != 0 {
		t.Errorf("expected default opt level 0, got %d", cfg.OptLevel)
	}
}

func TestLoadMissingManifestReturnsDefault(t *testing.T) {
	tempDir := t.TempDir()
	cfg, err := Load(filepath.Join(tempDir, "otter.yaml"))
	if err != nil {
		t.Fatalf("expected no error for a missing manifest, got %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected Default() for a missing manifest, got %+v", cfg)
	}
}

func TestLoadParsesManifest(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "otter.yaml")
	content := `
target: aarch64-apple-darwin
opt_level: 2
stdlib_path: /opt/otter/stdlib
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target != "aarch64-apple-darwin" {
		t.Errorf("expected target override, got %q", cfg.Target)
	}
	if cfg.OptLevel != 2 {
		t.Errorf("expected opt_level 2, got %d", cfg.OptLevel)
	}
	if cfg.StdlibPath != "/opt/otter/stdlib" {
		t.Errorf("expected stdlib_path override, got %q", cfg.StdlibPath)
	}
}

func TestLoadReleaseModeBumpsOptLevel(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "otter.yaml")
	if err := os.WriteFile(path, []byte("release: true\n"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.ReleaseMode {
		t.Error("expected release mode to be set")
	}
	if cfg.OptLevel != 1 {
		t.Errorf("expected release mode to bump opt level to 1, got %d", cfg.OptLevel)
	}
}

func TestLoadReleaseModeDoesNotOverrideExplicitOptLevel(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "otter.yaml")
	content := `
release: true
opt_level: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OptLevel != 3 {
		t.Errorf("expected explicit opt_level 3 to survive, got %d", cfg.OptLevel)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "otter.yaml")
	if err := os.WriteFile(path, []byte("target: [this is not, valid"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
