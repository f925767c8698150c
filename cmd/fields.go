package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/query"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

var fieldsJSON bool

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List axis fields, manufacturers and model years",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		cat := query.CatalogOf(base)
		out := cmd.OutOrStdout()
		if fieldsJSON {
			b, err := utils.PrettyJSON(cat)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		heading(out, "Numeric fields")
		for _, f := range cat.NumericFields {
			fmt.Fprintf(out, "  %s\n", f)
		}
		heading(out, fmt.Sprintf("Manufacturers (%d)", len(cat.Manufacturers)))
		fmt.Fprintf(out, "  %s\n", strings.Join(cat.Manufacturers, ", "))
		heading(out, "Model years")
		fmt.Fprintf(out, "  %d to %d\n", cat.YearMin, cat.YearMax)
		heading(out, "Origins")
		fmt.Fprintf(out, "  %s\n", strings.Join(cat.Origins, ", "))
		okf(out, "%d rows from %s", cat.Rows, base.Source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().BoolVar(&fieldsJSON, "json", false, "print the catalog as JSON")
}
