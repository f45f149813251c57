package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/olympeda/internal/analysis"
	"github.com/KaramelBytes/olympeda/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show shape, summary statistics, missing values and duplicates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		report.PrintInspection(cmd.OutOrStdout(), analysis.Inspect(t))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
