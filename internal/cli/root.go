// Package cli holds the menucatalog commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"menucatalog/internal/config"
	"menucatalog/internal/logging"
	"menucatalog/ui/tui"
)

// Version is set at build time.
var Version = "dev"

var (
	// Global flags
	configPath  string
	catalogPath string
	catalogURL  string
	dbPath      string
	logLevel    string
	logFile     string
	metricsAddr string
	watch       bool
	probeImages bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "menucatalog",
	Short: "Browse a food menu in the terminal",
	Long: `menucatalog shows a menu catalog with search, category filters and a cart.

Run without arguments to start the interactive browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "menucatalog.yaml", "path to the YAML config file")
	pf.StringVar(&catalogPath, "catalog", "", "catalog file (.json, .yaml, .csv)")
	pf.StringVar(&catalogURL, "catalog-url", "", "catalog HTTP endpoint returning JSON")
	pf.StringVar(&dbPath, "db", "", "DuckDB file for the cart (default in-memory)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "log file path")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	pf.BoolVar(&watch, "watch", false, "reload the catalog file when it changes")
	pf.BoolVar(&probeImages, "probe-images", false, "check image URLs and use a placeholder for broken ones")

	rootCmd.AddCommand(listCmd, mcpCmd, hashPasswordCmd)
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("catalog") {
		cfg.Catalog.Path = catalogPath
		cfg.Catalog.URL = ""
	}
	if f.Changed("catalog-url") {
		cfg.Catalog.URL = catalogURL
	}
	if f.Changed("db") {
		cfg.Cart.DatabasePath = dbPath
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if f.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if f.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	if f.Changed("watch") {
		cfg.Catalog.Watch = watch
	}
	if f.Changed("probe-images") {
		cfg.Assets.Probe = probeImages
	}
}

func runInteractive(ctx context.Context) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	return withBackground(ctx, a.run, func(context.Context) error {
		return tui.Start(a.store, tui.Options{
			Prices:   a.prices,
			Images:   a.imageFunc(),
			Recorder: a.recorder,
			Logger:   a.log,
		})
	})
}

// withBackground runs fg while bg works alongside it, then cancels bg and
// waits for it so nothing outlives the caller's cleanup.
func withBackground(ctx context.Context, bg, fg func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- bg(ctx) }()

	err := fg(ctx)
	cancel()
	if bgErr := <-done; bgErr != nil {
		if logger != nil {
			logger.Error("background work failed", zap.Error(bgErr))
		}
		if err == nil {
			err = bgErr
		}
	}
	return err
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
