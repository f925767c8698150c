package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/export"
)

var showLimit int

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the working view as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, v, flt, err := workingView(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if v.Len() > 0 {
			export.WriteTable(out, v, showLimit)
		}
		okf(out, "%d rows match %s", v.Len(), flt.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	addFilterFlags(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "maximum rows to print (0 = all)")
}
