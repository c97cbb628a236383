package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadermx/heroesandmore-client/internal/buildinfo"
	"github.com/nadermx/heroesandmore-client/internal/config"
	"github.com/nadermx/heroesandmore-client/internal/sandbox"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var (
	host string
	port int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sandbox server and its sweeper",
	Example: `  # Serve on the default 127.0.0.1:8000
  ham-sandbox serve

  # Point the client at it
  HAM_API_URL=http://127.0.0.1:8000/api/v1 ham login --username buyer --password password`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Sandbox.Host = host
	}
	if port != 0 {
		cfg.Sandbox.Port = port
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	srv, err := sandbox.NewServer(cfg.Sandbox, buildinfo.Version, log)
	if err != nil {
		return fmt.Errorf("creating sandbox: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down sandbox")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}
