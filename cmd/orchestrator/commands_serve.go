package main

import "github.com/spf13/cobra"

// buildServeCmd creates the "serve" command that starts the gateway server.
func buildServeCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the orchestration engine's gateway server",
		Long: `Start the gateway server with all configured LLM providers, the
knowledge-graph tool catalog, and the Memory Manager.

The server will:
1. Load and validate configuration
2. Build the LLM Router over every configured provider, each wrapped in a
   stats-tracking, per-provider failover shim
3. Wire the CRM/Projects/Document tool catalog to the configured storage
   backend
4. Bring up the Sales, Talent, and Analytics agents behind the Supervisor
5. Start the WebSocket/HTTP gateway

Graceful shutdown is handled on SIGINT/SIGTERM signals.`,
		Example: `  orchestrator serve
  orchestrator serve --config /etc/orchestrator/production.yaml
  orchestrator serve --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath = resolveConfigPath(configPath)
			return runServe(cmd.Context(), configPath, debug)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath(),
		"Path to YAML configuration file")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}
