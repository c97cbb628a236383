package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nadermx/heroesandmore-client/internal/config"
	"github.com/nadermx/heroesandmore-client/internal/sandbox/middleware"
)

// Server is the sandbox HTTP server and its sweeper.
type Server struct {
	echo    *echo.Echo
	market  *Market
	sweeper *Sweeper
	cfg     config.SandboxConfig
	log     *slog.Logger
	ready   atomic.Bool
}

// NewServer wires the market, routes and middleware.
func NewServer(cfg config.SandboxConfig, version string, log *slog.Logger, opts ...Option) (*Server, error) {
	opts = append([]Option{
		WithAccessTTL(cfg.AccessTokenTTL),
		WithCounterOfferTTL(cfg.CounterOfferTTL),
	}, opts...)
	m := NewMarket(opts...)

	sweeper, err := NewSweeper(m, cfg.SweepInterval, log)
	if err != nil {
		return nil, fmt.Errorf("creating sweeper: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	s := &Server{echo: e, market: m, sweeper: sweeper, cfg: cfg, log: log}

	e.GET("/healthz", s.Healthz)
	e.GET("/readyz", s.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, NewAPIConfig(version))
	RegisterRoutes(api, m)
	e.POST("/api/v1/collections/import/", NewCollectionsHandler(m).Import)

	return s, nil
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Market returns the server's state.
func (s *Server) Market() *Market {
	return s.market
}

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.log.Info("starting sandbox", "addr", addr)

	s.sweeper.Start()
	s.ready.Store(true)

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and stops
// the sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	<-s.sweeper.Stop().Done()

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	s.log.Info("sandbox stopped")
	return nil
}

// Healthz returns 200 while the process is running.
func (*Server) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz returns 200 once the server is serving and 503 while it starts
// or drains.
func (s *Server) Readyz(c echo.Context) error {
	if !s.ready.Load() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
