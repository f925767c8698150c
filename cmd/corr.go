package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/analysis"
	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/report"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

var (
	corrTop  int
	corrJSON bool
)

var corrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Print the correlation matrix of the working view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, v, flt, err := workingView(cmd)
		if err != nil {
			return err
		}
		m := analysis.Correlation(v, dataset.NumericFields())
		out := cmd.OutOrStdout()
		if corrJSON {
			b, err := utils.PrettyJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}

		heading(out, "Correlation matrix ("+flt.String()+")")
		table := tablewriter.NewWriter(out)
		table.SetAutoFormatHeaders(false)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		table.SetHeader(append([]string{""}, m.Columns...))
		for i, name := range m.Columns {
			row := []string{name}
			for j := range m.Columns {
				row = append(row, strconv.FormatFloat(m.Values[i][j], 'f', 2, 64))
			}
			table.Append(row)
		}
		table.Render()

		top := m.TopPairs(corrTop)
		if len(top) == 0 {
			warnf(cmd.ErrOrStderr(), "not enough rows to correlate")
			return nil
		}
		heading(out, "Strongest pairs")
		for _, p := range top {
			fmt.Fprintf(out, "  %s ~ %s: r=%.3f (%s, n=%d)\n", p.A, p.B, p.R, report.Strength(p.R), p.N)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	addFilterFlags(corrCmd)
	corrCmd.Flags().IntVar(&corrTop, "top", 5, "number of strongest pairs to list (0 = all)")
	corrCmd.Flags().BoolVar(&corrJSON, "json", false, "print the matrix as JSON")
}
