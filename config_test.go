package xfer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.MaxChunkSize != 4*1024*1024 {
		t.Errorf("MaxChunkSize = %d, want 4MiB", cfg.MaxChunkSize)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xfer.yaml")
	yaml := "timeout_seconds: 90\nmax_chunk_size: 1048576\nheaders:\n  X-Api-Key: secret\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TimeoutSeconds != 90 {
		t.Errorf("TimeoutSeconds = %d, want 90", cfg.TimeoutSeconds)
	}
	if cfg.MaxChunkSize != 1048576 {
		t.Errorf("MaxChunkSize = %d, want 1048576", cfg.MaxChunkSize)
	}
	if cfg.Headers["X-Api-Key"] != "secret" {
		t.Errorf("Headers[X-Api-Key] = %q, want secret", cfg.Headers["X-Api-Key"])
	}
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	want := DefaultConfig()
	if cfg.TimeoutSeconds != want.TimeoutSeconds || cfg.MaxChunkSize != want.MaxChunkSize {
		t.Errorf("cfg = %+v, want defaults on read failure", cfg)
	}
}
