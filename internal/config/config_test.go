package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Input.Path != "grades.json" || cfg.Output.Path != "grades.xlsx" || cfg.Log.Dir != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[output]\npath = \"out/成绩.xlsx\"\n\n[log]\ndir = \"logs\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Input.Path != "grades.json" {
		t.Fatalf("input path should keep default, got %q", cfg.Input.Path)
	}
	if cfg.Output.Path != "out/成绩.xlsx" || cfg.Log.Dir != "logs" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfig_InvalidToml(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[input\npath = "), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for invalid toml")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Input.Path = "data/grades.json"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("loaded=%+v, want %+v", loaded, cfg)
	}
}
