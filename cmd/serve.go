package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP dashboard",
	Long: `Load the dataset, then serve the JSON API, chart images, the report and
Prometheus metrics. The dataset is fetched once before the listener starts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		base, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv := server.New(base, server.Options{
			Logger:         logger,
			RequestTimeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
			Bins:           cfg.DefaultBins,
			ChartSize:      chart.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
			ChartRPS:       cfg.ChartRateLimit,
		})
		okf(cmd.OutOrStdout(), "Serving %d rows on %s", base.Len(), addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
}
