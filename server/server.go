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
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/rpckit/logger"
	"github.com/kbukum/rpckit/server/endpoint"
	"github.com/kbukum/rpckit/server/middleware"
)

// shutdownTimeout bounds Stop when the caller's context has no deadline.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP transport for procedures: a gin engine behind an h2c
// handler, so HTTP/1.1 and cleartext HTTP/2 clients share one port.
type Server struct {
	httpServer  *http.Server
	engine      *gin.Engine
	mux         *http.ServeMux
	config      Config
	log         *logger.Logger
	middlewares []middleware.Middleware

	once    sync.Once
	handler http.Handler
	addr    net.Addr
	mu      sync.RWMutex
}

// New creates a Server. Call ApplyDefaults on cfg first if needed; no
// middleware is applied until ApplyMiddleware or Use is called. A nil log
// uses the "server" component logger.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Get("server")
	} else {
		log = log.WithComponent("server")
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
			ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:       time.Duration(cfg.IdleTimeout) * time.Second,
		},
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log,
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// Handle mounts an http.Handler at pattern on the root mux, next to gin.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{"pattern": pattern})
}

// Use appends server-level middleware. It has no effect once the handler
// has been built by Handler or Start.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mws...)
}

// ApplyMiddleware installs the standard stack: recovery, request ID, CORS,
// body-size limit and request logging.
func (s *Server) ApplyMiddleware() {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
	)
	if s.config.MaxBodySize != "" {
		s.Use(middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	s.Use(middleware.RequestLogger(s.log))
}

// RegisterDefaultEndpoints registers /health, /alive, /ready and /info.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/alive", endpoint.Liveness(serviceName))
	s.engine.GET("/ready", endpoint.Readiness(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
}

// Handler returns the fully wrapped handler: middleware around the mux,
// inside h2c. It is built once.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		h2s := &http2.Server{
			MaxConcurrentStreams: 250,
			IdleTimeout:          time.Duration(s.config.IdleTimeout) * time.Second,
		}
		s.handler = h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
		s.httpServer.Handler = s.handler
	})
	return s.handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.Handler()

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", map[string]interface{}{logger.FieldError: err.Error()})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr":      listener.Addr().String(),
		"base_path": s.config.BasePath,
	})
	return nil
}

// Stop gracefully shuts down the server, waiting for in-flight calls.
func (s *Server) Stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Error("Server shutdown error", map[string]interface{}{logger.FieldError: err.Error()})
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr != nil {
		return s.addr.String()
	}
	return s.httpServer.Addr
}
