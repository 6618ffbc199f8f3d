package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"panekit/internal/cache"
	"panekit/internal/config"
	"panekit/internal/host"
	"panekit/internal/logging"
	paneotel "panekit/internal/otel"
	"panekit/internal/pipeline"
	"panekit/internal/store"
	"panekit/internal/workflow"
)

// Version is injected by the linker at release build time.
var Version = "dev"

var (
	// Global flags.
	flagHostURL string
	flagToken   string
	flagProject string
	flagDataDir string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "panekit",
	Short: "Custom transformation panes for intercepted HTTP traffic",
	Long: `panekit manages custom panes: named rules that extract a part of an
intercepted HTTP exchange, run it through a shell command or a host
Convert workflow, and render the result as an extra view tab.

Pane definitions live in two tiers: a global collection shared across
projects and a per-project collection. Commands that execute
transformations need a reachable host API.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHostURL, "host-url", envOrDefault("PANEKIT_HOST_URL", ""), "host API base URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", envOrDefault("PANEKIT_TOKEN", ""), "host API bearer token")
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", envOrDefault("PANEKIT_PROJECT", ""), "project whose pane tier to use (default: the default project)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the pane documents (default: ~/.config/panekit/data)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug logging")
}

// app bundles the wired components behind every subcommand.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     *store.Store
	client    *host.Client
	bridge    *workflow.Bridge
	pipeline  *pipeline.Pipeline
	telemetry *paneotel.Telemetry
}

// newApp loads config, applies flag overrides, and wires the store,
// host client, workflow bridge, and pipeline.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagHostURL != "" {
		cfg.HostURL = flagHostURL
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagProject != "" {
		cfg.Project = flagProject
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)

	paneotel.Version = Version
	telemetry, err := paneotel.Init(ctx, paneotel.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		return nil, err
	}

	st := store.New(cfg.DataDir, log)
	st.Initialize(cfg.Project)

	client := host.NewClient(host.ClientConfig{
		BaseURL: cfg.HostURL,
		Token:   cfg.Token,
		Logger:  log,
	})
	bridge := workflow.NewBridge(client, log)

	pl := pipeline.New(pipeline.Config{
		Store:              st,
		Requests:           client,
		Bridge:             bridge,
		Cache:              cache.New(cfg.CacheTTLDuration, cfg.CacheCapacity),
		Metrics:            telemetry.Metrics,
		Logger:             log,
		DefaultShell:       cfg.DefaultShell,
		DefaultShellConfig: cfg.DefaultShellConfig,
	})

	return &app{
		cfg:       cfg,
		log:       log,
		store:     st,
		client:    client,
		bridge:    bridge,
		pipeline:  pl,
		telemetry: telemetry,
	}, nil
}

// close flushes pending pane document writes and telemetry.
func (a *app) close(ctx context.Context) {
	a.store.Flush()
	a.telemetry.Shutdown(ctx)
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
