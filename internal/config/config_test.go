package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IndexPath != "skill-index.json" {
		t.Fatalf("expected default index_path, got %q", cfg.IndexPath)
	}
	if cfg.TopK != 10 || cfg.ProfileTopK != 12 {
		t.Fatalf("unexpected default top_k values: %+v", cfg)
	}
}

func TestLoadOverridesFromYAML(t *testing.T) {
	root := t.TempDir()
	yamlPath := filepath.Join(root, "skillrank.yaml")
	content := "index_path: custom-index.json\ntop_k: 5\nincomplete_mode: true\n"
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfg, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IndexPath != "custom-index.json" {
		t.Fatalf("expected yaml index_path override, got %q", cfg.IndexPath)
	}
	if cfg.TopK != 5 {
		t.Fatalf("expected yaml top_k override, got %d", cfg.TopK)
	}
	if !cfg.IncompleteMode {
		t.Fatalf("expected yaml incomplete_mode override")
	}
}

func TestLoadMissingYAMLFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected missing config file to fall back to defaults, got %v", err)
	}
	if cfg.IndexPath != "skill-index.json" {
		t.Fatalf("expected default config on missing file, got %+v", cfg)
	}
}

func TestWeightOverridesFromYAML(t *testing.T) {
	root := t.TempDir()
	yamlPath := filepath.Join(root, "skillrank.yaml")
	content := "weights:\n  directory: 99\n  gate_penalty: 0.5\n"
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfg, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Weights.Directory != 99 {
		t.Fatalf("expected directory weight override to 99, got %d", cfg.Weights.Directory)
	}
	if cfg.Weights.GatePenalty != 0.5 {
		t.Fatalf("expected gate_penalty override to 0.5, got %v", cfg.Weights.GatePenalty)
	}
	if cfg.Weights.Path == 0 {
		t.Fatalf("expected untouched weights to keep their default nonzero value")
	}
}

func TestEnvOverridesTakePrecedenceOverDefaults(t *testing.T) {
	t.Setenv("SKILLRANK_INDEX_PATH", "/tmp/env-index.json")
	t.Setenv("SKILLRANK_TOP_K", "3")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IndexPath != "/tmp/env-index.json" {
		t.Fatalf("expected env override for index path, got %q", cfg.IndexPath)
	}
	if cfg.TopK != 3 {
		t.Fatalf("expected env override for top_k, got %d", cfg.TopK)
	}
}

func TestEnvOverridesTakePrecedenceOverYAML(t *testing.T) {
	root := t.TempDir()
	yamlPath := filepath.Join(root, "skillrank.yaml")
	if err := os.WriteFile(yamlPath, []byte("index_path: from-yaml.json\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("SKILLRANK_INDEX_PATH", "from-env.json")
	cfg, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IndexPath != "from-env.json" {
		t.Fatalf("expected env to win over yaml, got %q", cfg.IndexPath)
	}
}

func TestLoadRejectsMinScoreOutOfRange(t *testing.T) {
	root := t.TempDir()
	yamlPath := filepath.Join(root, "skillrank.yaml")
	if err := os.WriteFile(yamlPath, []byte("min_score: 1.5\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := Load(yamlPath); err == nil {
		t.Fatalf("expected an error for out-of-range min_score")
	}
}

func TestLoadEmptyYAMLIndexPathFallsBackToDefault(t *testing.T) {
	root := t.TempDir()
	yamlPath := filepath.Join(root, "skillrank.yaml")
	if err := os.WriteFile(yamlPath, []byte("index_path: \"\"\ntop_k: 5\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("SKILLRANK_INDEX_PATH", "")
	if _, err := Load(yamlPath); err != nil {
		t.Fatalf("empty yaml index_path should fall back to the built-in default, got error: %v", err)
	}
}

func TestNonPositiveTopKFallsBackToDefault(t *testing.T) {
	root := t.TempDir()
	yamlPath := filepath.Join(root, "skillrank.yaml")
	if err := os.WriteFile(yamlPath, []byte("top_k: -1\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	cfg, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.TopK != 10 {
		t.Fatalf("expected non-positive yaml top_k to be ignored, got %d", cfg.TopK)
	}
}
