package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/report"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

var (
	repOutputPath  string
	repHTML        bool
	repChartsDir   string
	repChartFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the analysis report over the full dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		rep, err := report.Build(base)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		var body []byte
		if repHTML {
			if body, err = rep.HTML(); err != nil {
				return fmt.Errorf("render html: %w", err)
			}
		} else {
			body = []byte(rep.Markdown())
		}
		if repOutputPath != "" {
			if err := utils.SafeWriteFile(repOutputPath, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			okf(out, "Wrote report to %s", repOutputPath)
		} else {
			fmt.Fprintln(out, string(body))
		}

		if repChartsDir != "" {
			format, err := chart.ParseFormat(repChartFormat)
			if err != nil {
				return err
			}
			size := chart.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
			paths, err := rep.WriteCharts(cmd.Context(), repChartsDir, format, size)
			if err != nil {
				return err
			}
			okf(out, "Wrote %d charts to %s", len(paths), repChartsDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "write the report to this path instead of stdout")
	reportCmd.Flags().BoolVar(&repHTML, "html", false, "render HTML instead of Markdown")
	reportCmd.Flags().StringVar(&repChartsDir, "charts-dir", "", "also write the report charts into this directory")
	reportCmd.Flags().StringVar(&repChartFormat, "chart-format", "png", "chart image format: png | svg")
}
