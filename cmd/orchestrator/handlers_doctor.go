package main

import (
	"fmt"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/internal/config"
	"github.com/haasonsaas/orchestrator/internal/memory"
	"github.com/haasonsaas/orchestrator/internal/templates"
	"github.com/haasonsaas/orchestrator/internal/tools/graphtools"
	"github.com/haasonsaas/orchestrator/pkg/models"
	"github.com/spf13/cobra"
)

// runDoctor loads configuration and exercises each subsystem the gateway
// depends on, printing one status line per check. It keeps going after a
// failed check so a single bad provider doesn't hide problems elsewhere —
// only a config load/parse failure aborts the whole report.
func runDoctor(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	if err := config.ValidateOrchestratorConfigFile(configPath); err != nil {
		fmt.Fprintf(out, "config:   FAIL  %v\n", err)
	} else {
		fmt.Fprintf(out, "config:   OK    %s\n", configPath)
	}

	cfg, err := config.LoadOrchestratorConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.LLM.Providers) == 0 {
		fmt.Fprintln(out, "providers: none configured")
	}
	for name, providerCfg := range cfg.LLM.Providers {
		if _, err := buildConcreteProvider(name, providerCfg, cfg.LLM.Bedrock); err != nil {
			fmt.Fprintf(out, "provider %-10s FAIL  %v\n", name, err)
		} else {
			fmt.Fprintf(out, "provider %-10s OK\n", name)
		}
	}

	dataGraph, err := buildDataGraph(cfg.Storage)
	if err != nil {
		fmt.Fprintf(out, "storage:  FAIL  %v\n", err)
	} else {
		registry := agent.NewToolRegistry()
		graphtools.Register(registry, dataGraph, nil)
		fmt.Fprintf(out, "storage:  OK    backend=%s tools=%d\n", cfg.Storage.Backend, registry.Len())
	}

	if !cfg.Memory.Enabled {
		fmt.Fprintln(out, "memory:   disabled")
	} else if mgr, err := memory.NewManager(memoryConfigFrom(cfg.Memory)); err != nil {
		fmt.Fprintf(out, "memory:   FAIL  %v\n", err)
	} else {
		_ = mgr
		fmt.Fprintf(out, "memory:   OK    backend=%s\n", cfg.Memory.Backend)
	}

	promptRegistry := templates.NewConversationRegistry()
	for _, kind := range []models.AgentKind{models.AgentSales, models.AgentTalent, models.AgentAnalytics} {
		messages := promptRegistry.FormatConversationPrompt(kind, "doctor health check", nil, "", nil)
		if len(messages) == 0 {
			fmt.Fprintf(out, "prompt %-10s FAIL  empty message list\n", kind)
			continue
		}
		fmt.Fprintf(out, "prompt %-10s OK\n", kind)
	}

	if len(cfg.Callers) == 0 {
		fmt.Fprintln(out, "callers:  none configured — the gateway will reject every request")
	} else {
		fmt.Fprintf(out, "callers:  OK    %d configured\n", len(cfg.Callers))
	}

	return nil
}
