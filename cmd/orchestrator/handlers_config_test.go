package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeConfigFixture(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunConfigValidateAcceptsValidConfig(t *testing.T) {
	path := writeConfigFixture(t, `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: test-key
storage:
  backend: memory
`)

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runConfigValidate(cmd, path); err != nil {
		t.Fatalf("runConfigValidate() error = %v", err)
	}
	if !strings.Contains(out.String(), "valid") {
		t.Errorf("expected output to confirm validity, got:\n%s", out.String())
	}
}

func TestRunConfigValidateRejectsMissingDefaultProvider(t *testing.T) {
	path := writeConfigFixture(t, `
storage:
  backend: memory
`)

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := runConfigValidate(cmd, path)
	if err == nil {
		t.Fatal("expected an error when llm.default_provider is missing")
	}
}

func TestRunConfigValidateRejectsUnknownField(t *testing.T) {
	path := writeConfigFixture(t, `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: test-key
storage:
  backend: memory
not_a_real_field: true
`)

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	if err := runConfigValidate(cmd, path); err == nil {
		t.Fatal("expected an error for an unknown top-level field")
	}
}

func TestBuildConfigCmdRegistersValidateSubcommand(t *testing.T) {
	cmd := buildConfigCmd()
	var validate *cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.Name() == "validate" {
			validate = sub
		}
	}
	if validate == nil {
		t.Fatal("expected a \"validate\" subcommand to be registered")
	}
	if validate.Flags().Lookup("config") == nil {
		t.Error("expected --config flag to be registered on \"validate\"")
	}
}
