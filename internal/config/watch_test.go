package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatchOrchestratorConfigReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, `
llm:
  default_provider: anthropic
  providers:
    anthropic: {}
logging:
  level: info
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *OrchestratorConfig, 4)
	watcher, err := WatchOrchestratorConfig(ctx, path, func(cfg *OrchestratorConfig) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("WatchOrchestratorConfig() error = %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(path, []byte(`
llm:
  default_provider: anthropic
  providers:
    anthropic: {}
logging:
  level: debug
`), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatchOrchestratorConfigIgnoresBadRewrite(t *testing.T) {
	path := writeConfig(t, `
llm:
  default_provider: anthropic
  providers:
    anthropic: {}
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *OrchestratorConfig, 4)
	watcher, err := WatchOrchestratorConfig(ctx, path, func(cfg *OrchestratorConfig) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("WatchOrchestratorConfig() error = %v", err)
	}
	defer watcher.Close()

	if err := os.WriteFile(path, []byte("not: valid: yaml: ["), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := os.WriteFile(path, []byte(`
llm:
  default_provider: anthropic
  providers:
    anthropic: {}
logging:
  level: warn
`), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Logging.Level != "warn" {
			t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for valid config reload")
	}
}

func TestIncludedPathsWithoutIncludeDirective(t *testing.T) {
	path := writeConfig(t, `
llm:
  default_provider: anthropic
`)

	paths := includedPaths(path)
	if len(paths) != 1 {
		t.Fatalf("expected 1 path with no $include, got %d: %v", len(paths), paths)
	}
}
