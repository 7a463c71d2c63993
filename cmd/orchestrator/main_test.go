package main

import "testing"

func TestBuildRootCmdIncludesSubcommands(t *testing.T) {
	cmd := buildRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	required := []string{"serve", "config", "doctor"}
	for _, name := range required {
		if !names[name] {
			t.Fatalf("expected subcommand %q to be registered", name)
		}
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("ORCHESTRATOR_PROFILE", "")
	profileName = ""

	tests := []struct {
		name    string
		profile string
		path    string
		want    string
	}{
		{"explicit path wins with no profile", "", "custom.yaml", "custom.yaml"},
		{"empty path falls back to default", "", "", defaultConfigName},
		{"default-name path falls back to default", "", defaultConfigName, defaultConfigName},
		{"profile flag overrides explicit path", "staging", "custom.yaml", profileConfigPath("staging")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profileName = tt.profile
			defer func() { profileName = "" }()

			got := resolveConfigPath(tt.path)
			if got != tt.want {
				t.Errorf("resolveConfigPath(%q) with profile %q = %q, want %q", tt.path, tt.profile, got, tt.want)
			}
		})
	}
}

func TestResolveConfigPathEnvProfile(t *testing.T) {
	profileName = ""
	t.Setenv("ORCHESTRATOR_PROFILE", "prod")

	got := resolveConfigPath("custom.yaml")
	want := profileConfigPath("prod")
	if got != want {
		t.Errorf("resolveConfigPath with ORCHESTRATOR_PROFILE=prod = %q, want %q", got, want)
	}
}
