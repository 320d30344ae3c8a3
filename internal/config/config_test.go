package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if len(cfg.Apps) == 0 {
		t.Error("expected apps to be populated")
	}

	if cfg.Analysis.Provider != "anthropic" {
		t.Errorf("expected provider 'anthropic', got %q", cfg.Analysis.Provider)
	}

	if cfg.Analysis.Model != "claude-3-haiku-20240307" {
		t.Errorf("expected model 'claude-3-haiku-20240307', got %q", cfg.Analysis.Model)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
analysis:
  provider: ollama
  model: qwen2.5:7b
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Analysis.Provider != "ollama" {
		t.Errorf("expected provider 'ollama', got %q", cfg.Analysis.Provider)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Analysis.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama_url, got %q", cfg.Analysis.OllamaURL)
	}
	if cfg.Sources.AppStore.Country != "kr" {
		t.Errorf("expected default country 'kr', got %q", cfg.Sources.AppStore.Country)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Apps) == 0 {
		t.Error("expected apps to be populated from file")
	}
}

func TestTargetAndCompetitors(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	target := cfg.Target()
	if target == nil {
		t.Fatal("expected a target app")
	}
	if !target.IsTarget {
		t.Error("expected target to have is_target set")
	}
	if cfg.TargetName() != target.Name {
		t.Errorf("TargetName mismatch: %q vs %q", cfg.TargetName(), target.Name)
	}

	competitors := cfg.CompetitorNames()
	if len(competitors) != len(cfg.Apps)-1 {
		t.Errorf("expected %d competitors, got %d", len(cfg.Apps)-1, len(competitors))
	}
	for _, name := range competitors {
		if name == target.Name {
			t.Errorf("target %q listed as competitor", name)
		}
	}
}

func TestTargetNoneConfigured(t *testing.T) {
	cfg := &Config{Apps: []App{{Key: "a", Name: "A"}}}
	if cfg.Target() != nil {
		t.Error("expected nil target when none marked")
	}
	if cfg.TargetName() != "" {
		t.Errorf("expected empty target name, got %q", cfg.TargetName())
	}
}

func TestSearchKeywordsOrder(t *testing.T) {
	cfg := &Config{Keywords: Keywords{
		Primary:     []string{"p1"},
		Secondary:   []string{"s1"},
		Competitive: []string{"c1"},
	}}

	got := cfg.SearchKeywords()
	want := []string{"p1", "c1", "s1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d keywords, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
