package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/analysis"
	"github.com/KaramelBytes/autompg-cli/internal/chart"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

var (
	sumOutputPath string
	sumSampleRows int
	sumGroupBy    string
	sumCorr       bool
	sumCorrGroups bool
	sumOutliers   bool
	sumOutlierThr float64
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the working view as Markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, v, flt, err := workingView(cmd)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Name = flt.String()
		if sumSampleRows > 0 {
			opt.SampleRows = sumSampleRows
		}
		if cmd.Flags().Changed("group-by") {
			if sumGroupBy == "" || sumGroupBy == "none" {
				opt.GroupBy = ""
			} else {
				f, ok := dataset.LookupField(sumGroupBy)
				if !ok || !slices.Contains(chart.ColorFields(), f.Name) {
					return fmt.Errorf("unsupported --group-by: %s (use one of %s)", sumGroupBy, strings.Join(chart.ColorFields(), ", "))
				}
				opt.GroupBy = f.Name
			}
		}
		opt.Correlations = sumCorr
		opt.CorrPerGroup = sumCorrGroups
		opt.Outliers = sumOutliers
		if sumOutlierThr > 0 {
			opt.OutlierThreshold = sumOutlierThr
		}
		md := analysis.Summarize(v, opt).Markdown()

		if sumOutputPath != "" {
			if err := utils.SafeWriteFile(sumOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			okf(cmd.OutOrStdout(), "Wrote summary to %s", sumOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	summaryCmd.Flags().IntVar(&sumSampleRows, "sample-rows", 5, "number of sample rows to include")
	summaryCmd.Flags().StringVar(&sumGroupBy, "group-by", dataset.FieldOrigin, "categorical field to group by, or none")
	summaryCmd.Flags().BoolVar(&sumCorr, "correlations", true, "compute Pearson correlations among numeric fields")
	summaryCmd.Flags().BoolVar(&sumCorrGroups, "corr-per-group", false, "compute correlation pairs within each group")
	summaryCmd.Flags().BoolVar(&sumOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	summaryCmd.Flags().Float64Var(&sumOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
