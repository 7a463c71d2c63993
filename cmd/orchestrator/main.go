// Package main provides the CLI entry point for the query orchestration
// engine: a supervisor that routes entertainment-industry questions across
// a Sales, Talent, and Analytics agent, each backed by an LLM Router with
// multi-provider failover and a CRM/Projects/Document tool catalog.
//
// Start the server:
//
//	orchestrator serve --config orchestrator.yaml
//
// Validate configuration:
//
//	orchestrator config validate --config orchestrator.yaml
//
// Check subsystem health:
//
//	orchestrator doctor --config orchestrator.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags during build.
var (
	version     = "dev"
	commit      = "none"
	date        = "unknown"
	profileName string
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() so tests can exercise it without os.Exit.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orchestrator",
		Short: "Entertainment intelligence query orchestration engine",
		Long: `orchestrator routes entertainment-industry questions to a Sales, Talent,
or Analytics agent, each running the same Conversation Graph over an LLM
Router with per-provider failover and a CRM/Projects/Document tool catalog,
gated by a Security Filter and backed by a vector Memory Manager.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "",
		"Profile name (uses ~/.orchestrator/profiles/<name>.yaml; or set ORCHESTRATOR_PROFILE)")

	rootCmd.AddCommand(
		buildServeCmd(),
		buildConfigCmd(),
		buildDoctorCmd(),
	)
	return rootCmd
}

const defaultConfigName = "orchestrator.yaml"

// defaultConfigPath returns the fallback config path used when neither
// --config nor a profile is given.
func defaultConfigPath() string {
	return defaultConfigName
}

// profileConfigPath resolves a profile name to its config file under the
// user's home directory, mirroring how a multi-tenant CLI keeps one config
// per named environment.
func profileConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".orchestrator", "profiles", name+".yaml")
	}
	return filepath.Join(home, ".orchestrator", "profiles", name+".yaml")
}

// resolveConfigPath applies --profile (or ORCHESTRATOR_PROFILE) over an
// explicit --config path, falling back to the default config name.
func resolveConfigPath(path string) string {
	activeProfile := strings.TrimSpace(profileName)
	if activeProfile == "" {
		activeProfile = strings.TrimSpace(os.Getenv("ORCHESTRATOR_PROFILE"))
	}
	if activeProfile != "" {
		return profileConfigPath(activeProfile)
	}
	if strings.TrimSpace(path) == "" || path == defaultConfigName {
		return defaultConfigPath()
	}
	return path
}
