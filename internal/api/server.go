// Package api provides the HTTP surface of the Botifyx backend: the OAuth
// login redirect and callback route, the auth state and project endpoints
// consumed by the chat UI, the chat relay, and the notification stream.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/botifyx/botifyx/internal/auth"
	"github.com/botifyx/botifyx/internal/chat"
	"github.com/botifyx/botifyx/internal/config"
	"github.com/botifyx/botifyx/internal/logging"
	"github.com/botifyx/botifyx/internal/notify"
)

// Server represents the backend HTTP server. It encapsulates the Gin engine,
// the underlying http.Server and the collaborators the handlers drive.
type Server struct {
	engine     *gin.Engine
	server     *http.Server
	cfg        *config.Config
	controller *auth.Controller
	chatClient *chat.Client
	hub        *notify.Hub
}

// NewServer creates and initializes the API server: engine, middleware and
// routes.
func NewServer(cfg *config.Config, controller *auth.Controller, chatClient *chat.Client, hub *notify.Hub) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logging.GinLogrusRecovery())
	if cfg.RequestLog {
		engine.Use(logging.GinLogrusLogger())
	}

	s := &Server{
		engine:     engine,
		cfg:        cfg,
		controller: controller,
		chatClient: chatClient,
		hub:        hub,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/oauth/login", s.handleLogin)
	s.engine.GET(config.CallbackPath, s.handleCallback)

	api := s.engine.Group("/api")
	{
		api.GET("/auth/state", s.handleAuthState)
		api.POST("/auth/logout", s.handleLogout)
		api.GET("/projects", s.handleProjects)
		api.POST("/chat", s.handleChat)
		api.GET("/notifications", s.handleNotifications)
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	log.Infof("listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ApplyConfig applies the runtime-safe parts of a reloaded configuration.
// Only log verbosity can change without a restart; everything else is wired
// at construction time.
func (s *Server) ApplyConfig(cfg *config.Config) {
	if cfg.Debug != s.cfg.Debug {
		s.cfg.Debug = cfg.Debug
		logging.SetLogLevel(cfg.Debug)
		log.Infof("log level updated, debug=%v", cfg.Debug)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
