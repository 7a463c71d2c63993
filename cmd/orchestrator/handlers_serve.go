package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/internal/agent/providers"
	"github.com/haasonsaas/orchestrator/internal/agent/routing"
	"github.com/haasonsaas/orchestrator/internal/config"
	"github.com/haasonsaas/orchestrator/internal/conversation"
	"github.com/haasonsaas/orchestrator/internal/gateway"
	"github.com/haasonsaas/orchestrator/internal/memory"
	"github.com/haasonsaas/orchestrator/internal/observability"
	"github.com/haasonsaas/orchestrator/internal/security"
	"github.com/haasonsaas/orchestrator/internal/sessions"
	"github.com/haasonsaas/orchestrator/internal/storage"
	"github.com/haasonsaas/orchestrator/internal/supervisor"
	"github.com/haasonsaas/orchestrator/internal/tools/graphtools"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// runServe loads configuration, wires every subsystem, and runs the gateway
// until a shutdown signal arrives.
func runServe(ctx context.Context, configPath string, debug bool) error {
	if debug {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.LoadOrchestratorConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	obsLogger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger := slog.Default()

	configWatcher, err := config.WatchOrchestratorConfig(ctx, configPath, func(reloaded *config.OrchestratorConfig) {
		obsLogger.SetLevel(reloaded.Logging.Level)
	})
	if err != nil {
		logger.Warn("config hot-reload disabled", "error", err)
	} else {
		defer configWatcher.Close()
	}

	providerPool, statsSources, err := buildProviderPool(cfg.LLM)
	if err != nil {
		return fmt.Errorf("build provider pool: %w", err)
	}

	router := routing.NewRouter(routing.Config{
		DefaultProvider: cfg.LLM.DefaultProvider,
		PreferLocal:     cfg.LLM.Routing.PreferLocal,
		Rules:           routingRulesFrom(cfg.LLM.Routing.Rules),
		Fallback:        routing.Target(cfg.LLM.Routing.Fallback),
		FailureCooldown: cfg.LLM.Routing.UnhealthyCooldown,
	}, providerPool)

	dataGraph, err := buildDataGraph(cfg.Storage)
	if err != nil {
		return fmt.Errorf("build data graph: %w", err)
	}

	toolRegistry := agent.NewToolRegistry()
	toolCache := graphtools.Register(toolRegistry, dataGraph, nil)
	boundTools := toolRegistry.AsLLMTools()

	filter := security.NewFilter()

	memoryManager, err := memory.NewManager(memoryConfigFrom(cfg.Memory))
	if err != nil {
		return fmt.Errorf("build memory manager: %w", err)
	}
	memoryStore := memory.NewStore(memoryManager)

	graph := conversation.NewGraph(router, toolRegistry, memoryStore, logger)
	agents := map[models.AgentKind]conversation.Agent{
		models.AgentSales:     conversation.NewSalesAgent(boundTools),
		models.AgentTalent:    conversation.NewTalentAgent(boundTools),
		models.AgentAnalytics: conversation.NewAnalyticsAgent(boundTools),
	}
	super := supervisor.New(graph, agents, filter, router, logger)

	checkpoints := sessions.NewInMemoryCheckpointStore()
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Sessions.SweepInterval > 0 {
		go checkpoints.RunSweeper(sweepCtx, cfg.Sessions.SweepInterval, cfg.Sessions.SweepMaxAge)
	}

	status := &orchestratorStatus{
		providers:   statsSources,
		tools:       toolRegistry,
		toolCache:   toolCache,
		memoryCfg:   cfg.Memory,
		memoryMgr:   memoryManager,
		checkpoints: checkpoints,
	}
	auth := newStaticAuthenticator(cfg.Callers)

	server := gateway.NewServer(gateway.Config{
		Host:     cfg.Gateway.Host,
		HTTPPort: cfg.Gateway.HTTPPort,
	}, auth, super, status, obsLogger)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	logger.Info("orchestrator gateway started",
		"host", cfg.Gateway.Host, "http_port", cfg.Gateway.HTTPPort,
		"storage_backend", cfg.Storage.Backend, "llm_default_provider", cfg.LLM.DefaultProvider,
	)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	logger.Info("shutdown signal received, draining in-flight turns")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("orchestrator gateway stopped gracefully")
	return nil
}

// buildProviderPool constructs every configured provider, wraps each in a
// StatsTrackingProvider then a single-provider FailoverOrchestrator (a
// per-provider circuit breaker), and returns both the Router's provider map
// and the stats sources the status endpoint reads.
func buildProviderPool(cfg config.LLMConfig) (map[string]agent.LLMProvider, []providerStatsSource, error) {
	pool := make(map[string]agent.LLMProvider, len(cfg.Providers))
	var statsSources []providerStatsSource

	for name, providerCfg := range cfg.Providers {
		concrete, err := buildConcreteProvider(name, providerCfg, cfg.Bedrock)
		if err != nil {
			return nil, nil, fmt.Errorf("provider %q: %w", name, err)
		}
		stats := agent.NewStatsTrackingProvider(concrete)
		breaker := agent.NewFailoverOrchestrator(stats, nil)
		pool[concrete.Name()] = breaker
		statsSources = append(statsSources, stats)
	}
	return pool, statsSources, nil
}

func buildConcreteProvider(name string, cfg config.LLMProviderConfig, bedrock config.BedrockConfig) (agent.LLMProvider, error) {
	switch name {
	case "anthropic":
		p, err := providers.NewAnthropicProvider(providers.AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		return providers.NewOpenAIProvider(cfg.APIKey), nil
	case "google":
		p, err := providers.NewGoogleProvider(providers.GoogleConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, err
		}
		return p, nil
	case "bedrock":
		p, err := providers.NewBedrockProvider(providers.BedrockConfig{
			Region: bedrock.Region,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

func routingRulesFrom(rules []config.RoutingRule) []routing.Rule {
	out := make([]routing.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, routing.Rule{
			Name:   r.Name,
			Match:  routing.Match(r.Match),
			Target: routing.Target(r.Target),
		})
	}
	return out
}

// buildDataGraph constructs the DataGraph backend per cfg.Backend.
func buildDataGraph(cfg config.OrchestratorStorageConfig) (graphtools.DataGraph, error) {
	switch cfg.Backend {
	case "", "memory":
		return storage.NewMemoryDataGraph(), nil
	case "postgres":
		g, err := storage.NewPostgresDataGraph(cfg.DSN, &storage.CockroachConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnectTimeout:  cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// memoryConfigFrom maps the orchestrator's narrow memory config onto the
// Memory Manager's full Config shape.
func memoryConfigFrom(cfg config.OrchestratorMemoryConfig) *memory.Config {
	return &memory.Config{
		Enabled:   cfg.Enabled,
		Backend:   cfg.Backend,
		Dimension: cfg.Dimension,
		SQLiteVec: memory.SQLiteVecConfig{Path: cfg.Path},
		Pgvector:  memory.PgvectorConfig{DSN: cfg.DSN},
		Queue:     memory.QueueConfig{Concurrency: cfg.QueueConcurrency},
	}
}
