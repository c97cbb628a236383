// Package cmd implements the ham CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/nadermx/heroesandmore-client/internal/api/client"
	"github.com/nadermx/heroesandmore-client/internal/buildinfo"
	"github.com/nadermx/heroesandmore-client/internal/config"
	"github.com/nadermx/heroesandmore-client/internal/credentials"
	"github.com/nadermx/heroesandmore-client/internal/gateway"
	"github.com/nadermx/heroesandmore-client/internal/telemetry"
	"github.com/nadermx/heroesandmore-client/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ham",
		Short: "CLI client for the HeroesAndMore marketplace",
		Long: "ham is a command-line client for the HeroesAndMore marketplace.\n" +
			"It lets you browse listings, bid, negotiate offers, check out\n" +
			"and manage orders and collections from the terminal.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().
		String("api-url", "", "marketplace API base URL (default "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level override (debug, info, warn, error)")

	cobra.CheckErr(viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(listingsCmd())
	rootCmd.AddCommand(bidCmd())
	rootCmd.AddCommand(autobidCmd())
	rootCmd.AddCommand(offersCmd())
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(checkoutCmd())
	rootCmd.AddCommand(collectionsCmd())
	rootCmd.AddCommand(pricesCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	viper.SetEnvPrefix("HAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = viper.GetString("config")
	}
}

// loadConfig reads the config file when one is given and applies flag and
// HAM_* environment overrides on top.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if u := viper.GetString("api-url"); u != "" {
		cfg.API.BaseURL = u
	}
	if lvl := viper.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	client *apiclient.Client
	tel    *telemetry.Providers
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, buildinfo.Version)
	if err != nil {
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}

	opts := []gateway.Option{
		gateway.WithLogger(log),
		gateway.WithRequestTimeout(cfg.API.RequestTimeout),
		gateway.WithTransferTimeout(cfg.API.TransferTimeout),
		gateway.WithRenewalTimeout(cfg.API.RenewalTimeout),
		gateway.WithRenewalPath(cfg.API.RenewalPath),
	}
	if tel.Enabled() {
		opts = append(opts, gateway.WithTracing(tel.TracerProvider))
	}
	if cfg.API.RateLimit.PerSecond > 0 {
		opts = append(opts, gateway.WithThrottle(
			gateway.NewThrottle(cfg.API.RateLimit.PerSecond, cfg.API.RateLimit.Burst),
		))
	}

	gw, err := gateway.New(cfg.API.BaseURL, newStore(cfg.Credentials), opts...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		log:    log,
		client: apiclient.New(gw, apiclient.WithMaxPages(cfg.API.MaxPages)),
		tel:    tel,
	}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tel.Shutdown(ctx); err != nil {
		a.log.Warn("flushing telemetry", "error", err)
	}
}

// newStore returns the credential store selected by cfg. The memory
// backend forgets the session when the process exits.
func newStore(cfg config.CredentialsConfig) credentials.Store {
	if cfg.Backend == "memory" {
		return credentials.NewMemoryStore()
	}
	return credentials.NewFileStore(cfg.Path)
}

// withApp adapts a command body that needs the client.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, args)
	}
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (got %q)", name, s)
	}
	return id, nil
}

// describe renders err for the terminal, preferring the marketplace's own
// message when there is one.
func describe(err error) string {
	if msg := gateway.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}

// failure prefixes err with what the command was doing, rendered for the
// terminal, while keeping err in the chain.
func failure(action string, err error) error {
	return &commandError{action: action, err: err}
}

type commandError struct {
	action string
	err    error
}

func (e *commandError) Error() string {
	return e.action + ": " + describe(e.err)
}

func (e *commandError) Unwrap() error {
	return e.err
}
