package main

import (
	"fmt"

	"github.com/haasonsaas/orchestrator/internal/config"
	"github.com/spf13/cobra"
)

func runConfigValidate(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()
	if err := config.ValidateOrchestratorConfigFile(configPath); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	fmt.Fprintf(out, "%s: valid\n", configPath)
	return nil
}
