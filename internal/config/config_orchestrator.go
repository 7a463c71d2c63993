package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	jsonschemavalidate "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// OrchestratorConfig is the root configuration for the query orchestration
// engine: gateway listeners, the LLM Router's provider pool, storage, and
// the ambient logging/tracing concerns. It deliberately reuses LLMConfig,
// DatabaseConfig, LoggingConfig, and TracingConfig from the rest of this
// package rather than duplicating their fields.
type OrchestratorConfig struct {
	Gateway  OrchestratorGatewayConfig  `yaml:"gateway"`
	LLM      LLMConfig                  `yaml:"llm"`
	Database DatabaseConfig             `yaml:"database"`
	Storage  OrchestratorStorageConfig  `yaml:"storage"`
	Memory   OrchestratorMemoryConfig   `yaml:"memory"`
	Sessions OrchestratorSessionsConfig `yaml:"sessions"`
	Callers  []OrchestratorCallerConfig `yaml:"callers"`
	Logging  LoggingConfig              `yaml:"logging"`
	Tracing  TracingConfig              `yaml:"tracing"`
}

// OrchestratorCallerConfig maps a bearer token to the CallerIdentity the
// gateway's Authenticator resolves it to. Same flat token/user-id shape as
// AuthConfig's APIKeyConfig, extended with the role and sensitivity ceiling
// the Security Filter needs.
type OrchestratorCallerConfig struct {
	Token          string   `yaml:"token"`
	UserID         string   `yaml:"user_id"`
	Role           string   `yaml:"role"`
	MaxSensitivity string   `yaml:"max_sensitivity"`
	Permissions    []string `yaml:"permissions"`
}

// OrchestratorGatewayConfig configures the gateway.Server's listener.
type OrchestratorGatewayConfig struct {
	Host     string `yaml:"host"`
	HTTPPort int    `yaml:"http_port"`
}

// OrchestratorStorageConfig selects and configures the DataGraph backend.
type OrchestratorStorageConfig struct {
	// Backend is "postgres" or "memory". Default: "memory".
	Backend string `yaml:"backend"`

	// DSN is the Postgres/CockroachDB connection string, required when
	// Backend is "postgres".
	DSN string `yaml:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

// OrchestratorMemoryConfig configures the Memory Manager's vector store.
// It mirrors memory.Config's shape without importing internal/memory, so
// the config package stays free of a dependency on the component it
// configures; callers map this onto memory.Config when constructing the
// manager.
type OrchestratorMemoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Backend   string `yaml:"backend"` // sqlite-vec or pgvector
	Dimension int    `yaml:"dimension"`
	Path      string `yaml:"path"` // sqlite-vec database file
	DSN       string `yaml:"dsn"`  // pgvector connection string

	// QueueConcurrency bounds how many background extraction/consolidation/
	// relationship-discovery tasks run at once. 0 uses the Memory
	// Manager's default (5, per spec §5's backpressure default).
	QueueConcurrency int `yaml:"queue_concurrency"`
}

// OrchestratorSessionsConfig configures the Session/Checkpoint Store's
// background sweeper.
type OrchestratorSessionsConfig struct {
	CheckpointTTL time.Duration `yaml:"checkpoint_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	SweepMaxAge   time.Duration `yaml:"sweep_max_age"`
}

// DefaultOrchestratorConfig returns the baseline configuration applied
// before a loaded file's values are merged in by LoadOrchestratorConfig.
func DefaultOrchestratorConfig() *OrchestratorConfig {
	return &OrchestratorConfig{
		Gateway: OrchestratorGatewayConfig{Host: "0.0.0.0", HTTPPort: 8080},
		Storage: OrchestratorStorageConfig{
			Backend:         "memory",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectTimeout:  10 * time.Second,
		},
		Memory: OrchestratorMemoryConfig{Enabled: true, Backend: "sqlite-vec", Dimension: 1536, Path: "memory.db"},
		Sessions: OrchestratorSessionsConfig{
			CheckpointTTL: 24 * time.Hour,
			SweepInterval: 10 * time.Minute,
			SweepMaxAge:   72 * time.Hour,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// LoadOrchestratorConfig reads path (resolving $include directives, YAML or
// JSON5 per extension, env-var expansion), decodes it strictly over the
// defaults, and validates the result. Same load pipeline as Load, scoped to
// OrchestratorConfig.
func LoadOrchestratorConfig(path string) (*OrchestratorConfig, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, fmt.Errorf("load orchestrator config: %w", err)
	}

	cfg := DefaultOrchestratorConfig()
	if err := decodeRawOrchestratorConfig(raw, cfg); err != nil {
		return nil, err
	}

	if err := ValidateOrchestratorConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeRawOrchestratorConfig(raw map[string]any, into *OrchestratorConfig) error {
	payload, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("failed to parse config: expected single document")
	}
	return nil
}

// ValidateOrchestratorConfig checks field-level invariants that a JSON
// schema can't express cleanly (cross-field requirements, enums).
func ValidateOrchestratorConfig(cfg *OrchestratorConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	var issues []string

	if cfg.Gateway.HTTPPort <= 0 {
		issues = append(issues, "gateway.http_port must be > 0")
	}
	switch cfg.Storage.Backend {
	case "memory":
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			issues = append(issues, "storage.dsn is required when storage.backend is \"postgres\"")
		}
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be \"memory\" or \"postgres\", got %q", cfg.Storage.Backend))
	}
	if cfg.LLM.DefaultProvider == "" {
		issues = append(issues, "llm.default_provider is required")
	}
	if _, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; cfg.LLM.DefaultProvider != "" && !ok {
		issues = append(issues, fmt.Sprintf("llm.default_provider %q has no matching entry in llm.providers", cfg.LLM.DefaultProvider))
	}
	if cfg.Logging.Level != "" && !validLogLevel(cfg.Logging.Level) {
		issues = append(issues, "logging.level must be \"debug\", \"info\", \"warn\", or \"error\"")
	}
	for i, caller := range cfg.Callers {
		if strings.TrimSpace(caller.Token) == "" {
			issues = append(issues, fmt.Sprintf("callers[%d].token is required", i))
		}
		if strings.TrimSpace(caller.UserID) == "" {
			issues = append(issues, fmt.Sprintf("callers[%d].user_id is required", i))
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(issues, "; "))
	}
	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

var (
	orchestratorSchemaOnce sync.Once
	orchestratorSchemaJSON []byte
	orchestratorSchemaErr  error
)

// OrchestratorJSONSchema returns the JSON Schema reflected from
// OrchestratorConfig, same reflection pattern as JSONSchema for Config.
func OrchestratorJSONSchema() ([]byte, error) {
	orchestratorSchemaOnce.Do(func() {
		r := &jsonschema.Reflector{FieldNameTag: "yaml"}
		schema := r.Reflect(&OrchestratorConfig{})
		orchestratorSchemaJSON, orchestratorSchemaErr = json.MarshalIndent(schema, "", "  ")
	})
	return orchestratorSchemaJSON, orchestratorSchemaErr
}

// ValidateOrchestratorConfigFile loads path's raw contents and validates
// them against both the reflected JSON schema (structural: types, required
// fields) and ValidateOrchestratorConfig (cross-field invariants). Used by
// the CLI's "config validate" subcommand.
func ValidateOrchestratorConfigFile(path string) error {
	raw, err := LoadRaw(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	schemaBytes, err := OrchestratorJSONSchema()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	compiled, err := compileOrchestratorSchema(schemaBytes)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	asJSON, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode config for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(asJSON, &doc); err != nil {
		return fmt.Errorf("decode config for validation: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	cfg := DefaultOrchestratorConfig()
	if err := decodeRawOrchestratorConfig(raw, cfg); err != nil {
		return err
	}
	return ValidateOrchestratorConfig(cfg)
}

// compileOrchestratorSchema compiles a raw schema document (rather than
// resolving it from a URL or file), mirroring how ws_schema.go compiles its
// schema text inline instead of reading it from disk.
func compileOrchestratorSchema(schemaBytes []byte) (*jsonschemavalidate.Schema, error) {
	compiler := jsonschemavalidate.NewCompiler()
	if err := compiler.AddResource("orchestrator-config.json", bytes.NewReader(schemaBytes)); err != nil {
		return nil, err
	}
	return compiler.Compile("orchestrator-config.json")
}
