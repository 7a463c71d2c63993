// Package gateway implements the query-ingress surface: a WebSocket frame
// stream and a request/response chat endpoint, both consuming an
// already-authenticated CallerIdentity and handing it to the Supervisor.
package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haasonsaas/orchestrator/internal/cache"
	"github.com/haasonsaas/orchestrator/internal/observability"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

const (
	wsMaxPayloadBytes = 1 << 20
	wsWriteWait       = 10 * time.Second
	wsPongWait        = 45 * time.Second
	wsPingInterval    = 20 * time.Second

	// chatDedupeTTL bounds how long a (caller, conversation, message) triple
	// is remembered to catch a client's retried POST landing twice — long
	// enough to cover a typical retry-on-timeout, short enough that a
	// deliberate repeat of the same text later isn't dropped.
	chatDedupeTTL     = 5 * time.Second
	chatDedupeMaxSize = 4096
)

// Authenticator resolves an auth token into a CallerIdentity. Failure means
// AuthenticationMissing: the frame is rejected at the transport boundary
// and never reaches the Supervisor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.CallerIdentity, error)
}

// QueryHandler runs one complete turn through the Supervisor and Conversation
// Graph and returns the result, or an error from the turn-failure taxonomy.
type QueryHandler interface {
	HandleQuery(ctx context.Context, q models.Query) (*models.TurnResponse, error)
}

// StatusProvider reports the read-only health snapshot for the status
// surface.
type StatusProvider interface {
	Status(ctx context.Context) StatusSnapshot
}

// Config configures the gateway's listeners.
type Config struct {
	Host     string
	HTTPPort int
}

// Server hosts the WebSocket and HTTP surfaces described in spec §6.
type Server struct {
	config Config
	auth   Authenticator
	query  QueryHandler
	status StatusProvider
	logger *observability.Logger

	upgrader websocket.Upgrader

	mu           sync.Mutex
	httpServer   *http.Server
	httpListener net.Listener

	sessionLocks sessionLockSet
	chatDedupe   *cache.DedupeCache
}

// NewServer constructs a Server. query and auth are required; status may be
// nil, in which case the status endpoint reports an empty snapshot.
func NewServer(cfg Config, auth Authenticator, query QueryHandler, status StatusProvider, logger *observability.Logger) *Server {
	return &Server{
		config: cfg,
		auth:   auth,
		query:  query,
		status: status,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  8192,
			WriteBufferSize: 8192,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessionLocks: sessionLockSet{locks: make(map[string]*sessionLock)},
		chatDedupe: cache.NewDedupeCache(cache.DedupeCacheOptions{
			TTL:     chatDedupeTTL,
			MaxSize: chatDedupeMaxSize,
		}),
	}
}

// Start brings up the HTTP listener carrying /ws, /healthz, /metrics,
// /v1/chat, and /v1/status.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.HTTPPort)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/chat", s.handleChat)
	mux.Handle("/ws", http.HandlerFunc(s.handleWS))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("gateway listen: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.httpListener = listener
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Error(ctx, "gateway server error", "error", err)
			}
		}
	}()

	if s.logger != nil {
		s.logger.Info(ctx, "gateway listening", "addr", addr)
	}
	return nil
}

// Stop gracefully shuts down the HTTP listener.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
