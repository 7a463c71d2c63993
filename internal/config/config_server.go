package config

import "time"

// ServerConfig carries the teacher's gRPC/metrics port layout; this spec's
// gateway only needs Host/HTTPPort, tracked separately on
// OrchestratorGatewayConfig, but the fuller shape is kept for the fields an
// operator would expect a "server" block to carry.
type ServerConfig struct {
	Host        string `yaml:"host"`
	GRPCPort    int    `yaml:"grpc_port"`
	HTTPPort    int    `yaml:"http_port"`
	MetricsPort int    `yaml:"metrics_port"`
}

// DatabaseConfig configures the checkpoint/session/memory Postgres pool
// shared across storage backends.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxConnections  int           `yaml:"max_connections"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}
