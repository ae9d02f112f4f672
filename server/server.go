package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/plan"
	"github.com/kbukum/seqkit/resilience"
	"github.com/kbukum/seqkit/server/endpoint"
	"github.com/kbukum/seqkit/server/middleware"
)

// shutdownTimeout bounds graceful shutdown in Stop.
const shutdownTimeout = 5 * time.Second

// Server serves plan evaluation over HTTP.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	plans    plan.Loader
	registry *plan.Registry
	metrics  *observability.Metrics
	tracer   trace.Tracer
	checkers []observability.HealthChecker
	bulkhead *resilience.Bulkhead

	mu   sync.Mutex
	addr string
}

// Option configures a Server.
type Option func(*Server)

// WithPlanLoader resolves plan_name requests through l. Without it, stored
// plans are read from Config.PlanDirs.
func WithPlanLoader(l plan.Loader) Option {
	return func(s *Server) { s.plans = l }
}

// WithRegistry evaluates plans against r instead of the default registry.
func WithRegistry(r *plan.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithMetrics records request and session metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTracer opens a span for every evaluated stage.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithHealthChecks adds checkers to GET /healthz.
func WithHealthChecks(checkers ...observability.HealthChecker) Option {
	return func(s *Server) { s.checkers = append(s.checkers, checkers...) }
}

// New creates a Server with middleware and routes installed. cfg should have
// had ApplyDefaults called.
func New(cfg Config, log *logger.Logger, opts ...Option) *Server {
	gin.SetMode(ginMode(log))

	s := &Server{
		engine:   gin.New(),
		config:   cfg,
		log:      log.WithComponent("server"),
		registry: plan.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.plans == nil && len(cfg.PlanDirs) > 0 {
		s.plans = plan.NewFileLoader(cfg.PlanDirs...)
		s.checkers = append(s.checkers, planDirsCheck(cfg.PlanDirs))
	}

	if cfg.MaxConcurrent > 0 {
		s.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "evaluate",
			MaxConcurrent: cfg.MaxConcurrent,
			MaxWait:       cfg.QueueTimeout,
		})
	}

	s.applyMiddleware()
	s.registerRoutes(log.Service())

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.addr = addr
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// ginMode keeps test mode, otherwise follows the logger's level.
func ginMode(log *logger.Logger) string {
	switch {
	case gin.Mode() == gin.TestMode:
		return gin.TestMode
	case log.Zerolog().GetLevel() <= zerolog.DebugLevel:
		return gin.DebugMode
	default:
		return gin.ReleaseMode
	}
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", logger.Fields("addr", s.httpServer.Addr))

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop gracefully shuts down the server, waiting at most five seconds for
// in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// Addr returns the listen address. After Start it is the bound address,
// so port 0 resolves to the chosen port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// applyMiddleware installs recovery, request id, request logging, CORS,
// rate limiting and the body size limit, outermost first.
func (s *Server) applyMiddleware() {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.RequestLogger(s.log, s.metrics))
	s.engine.Use(middleware.GinWrap(middleware.CORS(s.config.CORS)))
	if s.config.RateLimit > 0 {
		s.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: s.config.RateLimit}))
	}
	s.engine.Use(middleware.GinWrap(middleware.BodySizeLimit(s.config.MaxBodyBytes())))
}

func (s *Server) registerRoutes(serviceName string) {
	s.engine.GET("/healthz", endpoint.Health(serviceName, s.checkers...))
	s.engine.GET("/livez", endpoint.Liveness(serviceName))
	s.engine.GET("/version", endpoint.Version(serviceName))

	v1 := s.engine.Group("/v1")
	v1.POST("/evaluate", s.handleEvaluate)
	v1.POST("/evaluate/stream", s.handleEvaluateStream)
	v1.GET("/operations", s.handleOperations)
}
