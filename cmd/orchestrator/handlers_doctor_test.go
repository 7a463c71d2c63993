package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeDoctorConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runDoctorForTest(t *testing.T, configPath string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	err := runDoctor(cmd, configPath)
	return out.String(), err
}

func TestRunDoctorReportsEachSubsystem(t *testing.T) {
	path := writeDoctorConfig(t, `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: test-key
storage:
  backend: memory
`)

	output, err := runDoctorForTest(t, path)
	if err != nil {
		t.Fatalf("runDoctor() error = %v", err)
	}

	for _, want := range []string{"config:", "provider openai", "storage:", "memory:", "prompt", "callers:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected doctor output to mention %q, got:\n%s", want, output)
		}
	}
}

func TestRunDoctorReportsUnknownProviderAsFailure(t *testing.T) {
	path := writeDoctorConfig(t, `
llm:
  default_provider: carrier-pigeon
  providers:
    carrier-pigeon: {}
storage:
  backend: memory
`)

	output, err := runDoctorForTest(t, path)
	if err != nil {
		t.Fatalf("runDoctor() error = %v", err)
	}
	if !strings.Contains(output, "provider carrier-pigeon FAIL") {
		t.Errorf("expected a FAIL line for the unknown provider, got:\n%s", output)
	}
}

func TestRunDoctorFailsOnUnparsableConfig(t *testing.T) {
	path := writeDoctorConfig(t, "not: valid: yaml: [")

	_, err := runDoctorForTest(t, path)
	if err == nil {
		t.Fatal("expected an error for an unparsable config file")
	}
}

func TestRunDoctorReportsDisabledMemory(t *testing.T) {
	path := writeDoctorConfig(t, `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: test-key
storage:
  backend: memory
memory:
  enabled: false
`)

	output, err := runDoctorForTest(t, path)
	if err != nil {
		t.Fatalf("runDoctor() error = %v", err)
	}
	if !strings.Contains(output, "memory:   disabled") {
		t.Errorf("expected memory to report disabled, got:\n%s", output)
	}
}

func TestRunDoctorReportsNoCallersConfigured(t *testing.T) {
	path := writeDoctorConfig(t, `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: test-key
storage:
  backend: memory
`)

	output, err := runDoctorForTest(t, path)
	if err != nil {
		t.Fatalf("runDoctor() error = %v", err)
	}
	if !strings.Contains(output, "callers:  none configured") {
		t.Errorf("expected a warning about missing callers, got:\n%s", output)
	}
}

func TestBuildDoctorCmdRegistersConfigFlag(t *testing.T) {
	cmd := buildDoctorCmd()
	if cmd.Use != "doctor" {
		t.Errorf("Use = %q, want doctor", cmd.Use)
	}
	if cmd.Flags().Lookup("config") == nil {
		t.Error("expected --config flag to be registered")
	}
}
