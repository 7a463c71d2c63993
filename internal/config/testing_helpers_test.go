package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig writes yaml to a temp file and returns its path, for tests
// across this package that need a config file on disk.
func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
