package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/autompg-cli/internal/config"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Source/HTTP flags (override config if set)
	flagSource           string
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "autompg",
	Short: "Explore the UCI Auto MPG dataset from the terminal or a browser",
	Long: `autompg loads the Auto MPG dataset once, filters it by manufacturer and model year,
and produces tables, summaries, correlation matrices, charts, an analysis report and an
HTTP dashboard from the same working view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		failf(rootCmd.ErrOrStderr(), "%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autompg/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "dataset URL, file:// URL or local path (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "fetch attempts on 429/5xx and timeouts (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		warnf(os.Stderr, "failed to load config: %v", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("source") && flagSource != "" {
		cfg.SourceURL = flagSource
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger = logging.New(level, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)
}

// loadDataset fetches and parses the configured source. Each command calls
// it once and passes the result down.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if cfg == nil {
		loadConfig()
	}
	opt := cfg.LoaderOptions()
	opt.Logger = logger
	start := time.Now()
	ds, err := dataset.NewLoader(opt).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Debug("dataset ready", slog.Int("rows", ds.Len()), slog.Duration("elapsed", time.Since(start)))
	return ds, nil
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

func okf(w io.Writer, format string, a ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", a...)
}

func warnf(w io.Writer, format string, a ...any) {
	warnColor.Fprintf(w, "⚠ Warning: "+format+"\n", a...)
}

func failf(w io.Writer, format string, a ...any) {
	errColor.Fprintf(w, "✗ Error: "+format+"\n", a...)
}

func heading(w io.Writer, s string) {
	headColor.Fprintln(w, s)
}
