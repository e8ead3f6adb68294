package gateway

import (
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/gatectl/internal/auth"
	"github.com/danmuck/gatectl/internal/config"
	"github.com/danmuck/gatectl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Server exposes the gateway pipeline over HTTP.
type Server struct {
	settings config.Settings
	service  *Service
	router   *gin.Engine
	started  time.Time
}

func NewServer(settings config.Settings, service *Service) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(settings.InstanceID))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(settings.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		settings: settings,
		service:  service,
		router:   r,
		started:  time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		checks := gin.H{
			"configuration":      "ok",
			"execution_strategy": s.settings.Execution.Strategy,
			"container_mappings": len(s.settings.Targets),
		}
		if s.settings.Execution.Strategy == config.StrategySSH {
			checks["ssh_host"] = s.settings.SSH.Host
			checks["ssh_user"] = s.settings.SSH.User
			checks["ssh_key_configured"] = s.settings.SSH.KeyPath != ""
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"uptime":  time.Since(s.started).String(),
			"gateway": s.settings.InstanceID,
			"version": "0.0.1",
			"checks":  checks,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.started).String(),
			"gateway": s.settings.InstanceID,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	execute := s.router.Group("/")
	if strings.TrimSpace(s.settings.AuthToken) != "" {
		execute.Use(auth.BearerMiddleware(auth.StaticToken{Token: s.settings.AuthToken}))
	}
	execute.POST("/execute-docker-command", func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, s.service.Process(c.Request.Context(), req))
	})
}

func (s *Server) Serve() error {
	log.Info().
		Str("gateway", s.settings.InstanceID).
		Str("addr", s.settings.ListenAddr).
		Str("strategy", s.settings.Execution.Strategy).
		Msg("gateway listening")
	return s.router.Run(s.settings.ListenAddr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
