package metrics

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net"
	"net/http"
)

// Server exposes the ops endpoints: prometheus metrics and the health
// probe. An empty listen address disables it entirely.
type Server struct {
	logger *zap.Logger
	server *http.Server
	listen string
	addr   net.Addr
}

func NewServer(cfg *config.Config, logger *zap.Logger, health domain.HealthChecker) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if health.IsHealthy() {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
	})

	return &Server{
		logger: logger.With(zap.String("component", "metrics")),
		listen: cfg.Metrics.Listen,
		server: &http.Server{Addr: cfg.Metrics.Listen, Handler: router},
	}
}

// Start binds the listener synchronously so a bad address fails startup
// instead of surfacing later inside the serve goroutine.
func (s *Server) Start() error {
	if s.listen == "" {
		s.logger.Info("metrics server disabled")
		return nil
	}

	listener, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listen, err)
	}

	s.addr = listener.Addr()
	s.logger.Info("metrics server listening", zap.String("address", s.addr.String()))

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.listen == "" {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the bound listen address, empty before Start.
func (s *Server) Addr() string {
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}
