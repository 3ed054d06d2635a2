package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := &Config{
		Servers: []Server{
			{URL: "https://archive.example.com", Alias: "production"},
			{URL: "http://localhost:8080", Alias: "dev"},
		},
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(loaded.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(loaded.Servers))
	}
	if loaded.Servers[0].Alias != "production" {
		t.Errorf("unexpected first server: %+v", loaded.Servers[0])
	}
}

func TestGetServerByAlias(t *testing.T) {
	cfg := &Config{Servers: []Server{{URL: "http://localhost:8080", Alias: "dev"}}}

	server, err := cfg.GetServerByAlias("dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.URL != "http://localhost:8080" {
		t.Errorf("unexpected server: %+v", server)
	}

	if _, err := cfg.GetServerByAlias("missing"); err == nil {
		t.Error("expected error for unknown alias")
	}
}

func TestLoadFromCurrentDir_EnvFallback(t *testing.T) {
	// Run in a directory without arkiv.json.
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	defer os.Chdir(originalDir)

	if _, err := LoadFromCurrentDir(); err == nil {
		t.Error("expected error without arkiv.json or env override")
	}

	t.Setenv(EnvServerURL, "http://localhost:9999")
	cfg, err := LoadFromCurrentDir()
	if err != nil {
		t.Fatalf("expected env fallback config, got error: %v", err)
	}
	if cfg.Servers[0].URL != "http://localhost:9999" {
		t.Errorf("unexpected env fallback server: %+v", cfg.Servers[0])
	}
}

func TestResolveURL(t *testing.T) {
	os.Unsetenv(EnvServerURL)

	if got := ResolveURL(nil); got != DefaultServerURL {
		t.Errorf("expected default URL, got %q", got)
	}
	if got := ResolveURL(&Server{URL: "http://intranet:8080"}); got != "http://intranet:8080" {
		t.Errorf("expected configured URL, got %q", got)
	}

	t.Setenv(EnvServerURL, "http://override:8080")
	if got := ResolveURL(&Server{URL: "http://intranet:8080"}); got != "http://override:8080" {
		t.Errorf("expected env override, got %q", got)
	}
}
