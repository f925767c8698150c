package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/export"
)

var exportForce bool

var exportCmd = &cobra.Command{
	Use:   "export <file.csv|file.xlsx|file.json>",
	Short: "Write the working view to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if export.Exists(path) && !exportForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		_, v, flt, err := workingView(cmd)
		if err != nil {
			return err
		}
		if err := export.WriteFile(path, v); err != nil {
			return err
		}
		okf(cmd.OutOrStdout(), "Exported %d rows (%s) to %s", v.Len(), flt.String(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "overwrite an existing file")
}
