package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/olympeda/internal/clean"
	"github.com/KaramelBytes/olympeda/internal/dataset"
	"github.com/KaramelBytes/olympeda/internal/report"
	"github.com/KaramelBytes/olympeda/internal/utils"
)

var (
	cleanOutput     string
	cleanKeepDupes  bool
	cleanNoOutliers bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the dataset and print what changed",
	Long: `Removes rejected height values, imputes missing Age/Height/Weight with the column
mean, fills missing medals with the sentinel and drops duplicate rows.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		opt := cleanOptions()
		opt.KeepDuplicates = cleanKeepDupes
		if cleanNoOutliers {
			opt.RejectedValues = nil
		}
		rep, err := clean.Run(t, opt)
		if err != nil {
			return fmt.Errorf("clean: %w", err)
		}
		log.WithFields(map[string]any{"before": rep.RowsBefore, "after": rep.RowsAfter}).Info("cleaned")
		out := cmd.OutOrStdout()
		report.PrintCleaning(out, rep)

		if cleanOutput != "" {
			var buf bytes.Buffer
			if err := dataset.WriteCSV(&buf, t); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(cleanOutput, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			log.Infof("cleaned table written to %s", cleanOutput)
			fmt.Fprintf(out, "✓ Wrote %d rows to %s\n", t.Len(), cleanOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write the cleaned table to this CSV path")
	cleanCmd.Flags().BoolVar(&cleanKeepDupes, "keep-duplicates", false, "do not drop duplicate rows")
	cleanCmd.Flags().BoolVar(&cleanNoOutliers, "no-outliers", false, "do not remove rejected height values")
}
