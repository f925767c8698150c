package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

var (
	chartX         string
	chartY         string
	chartColor     string
	chartTitle     string
	chartBins      int
	chartTrendline bool
	chartFormat    string
	chartOutput    string
)

var chartCmd = &cobra.Command{
	Use:   "chart <scatter|histogram|box|violin|heatmap>",
	Short: "Build a chart from the working view",
	Long: `Build a chart from the working view and write it as PNG, SVG or JSON.

Heatmaps are available as JSON only.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"scatter", "histogram", "box", "violin", "heatmap"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(args[0])
		if err != nil {
			return err
		}
		bins := cfg.DefaultBins
		if cmd.Flags().Changed("bins") {
			bins = chartBins
		}
		spec := chart.Spec{
			Kind:      kind,
			X:         chartX,
			Y:         chartY,
			Color:     chartColor,
			Bins:      bins,
			Trendline: chartTrendline,
			Title:     chartTitle,
		}
		// Validate before loading so typos fail fast.
		if err := spec.WithDefaults().Validate(); err != nil {
			return err
		}
		_, v, _, err := workingView(cmd)
		if err != nil {
			return err
		}
		fig, err := chart.Build(v, spec)
		if err != nil {
			return err
		}
		if fig.Skipped > 0 {
			warnf(cmd.ErrOrStderr(), "%d rows skipped because a plotted value is missing", fig.Skipped)
		}

		var data []byte
		ext := strings.ToLower(chartFormat)
		if ext == "json" {
			data, err = utils.PrettyJSON(fig)
			if err != nil {
				return err
			}
		} else {
			format, err := chart.ParseFormat(chartFormat)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			size := chart.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
			if err := chart.Render(&buf, fig, format, size); err != nil {
				if errors.Is(err, chart.ErrUnsupported) {
					return fmt.Errorf("%w (try --format json)", err)
				}
				return err
			}
			data = buf.Bytes()
		}

		path := chartOutput
		if path == "" {
			path = utils.Slug(fig.Spec.Title) + "." + ext
		}
		if path == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := utils.SafeWriteFile(path, data); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		okf(cmd.OutOrStdout(), "Wrote %s (%s, %d rows) to %s", fig.Spec.Title, kind, fig.Rows, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	addFilterFlags(chartCmd)
	chartCmd.Flags().StringVar(&chartX, "x", "", "x-axis field (scatter, histogram)")
	chartCmd.Flags().StringVar(&chartY, "y", "", "y-axis field (scatter, box, violin)")
	chartCmd.Flags().StringVar(&chartColor, "color", "", "field to colour by, or none (default Origin)")
	chartCmd.Flags().StringVar(&chartTitle, "title", "", "chart title")
	chartCmd.Flags().IntVar(&chartBins, "bins", 0, "histogram bins, 3 to 50 (default from config)")
	chartCmd.Flags().BoolVar(&chartTrendline, "trendline", false, "add an OLS trend line per group (scatter)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "png", "output format: png | svg | json")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output path, or - for stdout (default derived from the title)")
}
