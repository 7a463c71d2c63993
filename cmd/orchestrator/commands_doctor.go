package main

import "github.com/spf13/cobra"

// buildDoctorCmd creates the "doctor" command, which reports whether the
// configured providers, tool catalog, and memory backend are reachable
// without starting the gateway server.
func buildDoctorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check provider, tool catalog, and memory health",
		Long: `doctor loads the configuration and exercises each subsystem the gateway
depends on — LLM providers, the CRM/Projects/Document tool catalog, the
Memory Manager, and the per-agent prompt templates — without binding any
network listener, and prints a health report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath = resolveConfigPath(configPath)
			return runDoctor(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath(),
		"Path to YAML configuration file")
	return cmd
}
