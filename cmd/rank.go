package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/clean"
	"github.com/KaramelBytes/olympeda/internal/report"
)

var (
	rankBy    []string
	rankWhere []string
	rankTop   int
	rankRaw   bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Group the cleaned table by columns and rank groups by row count",
	Example: `  olympeda rank --by Team --where Medal=Gold --top 10
  olympeda rank --by Name,Team,Sport --where Sex=F --where Medal!="No Medal" --top 5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cols, err := aggregate.ParseColumns(rankBy)
		if err != nil {
			return err
		}
		preds := make([]aggregate.Predicate, 0, len(rankWhere))
		for _, w := range rankWhere {
			p, err := aggregate.ParsePredicate(w)
			if err != nil {
				return err
			}
			preds = append(preds, p)
		}
		if rankTop < 0 {
			return fmt.Errorf("--top must be >= 0, got %d", rankTop)
		}

		t, err := loadTable()
		if err != nil {
			return err
		}
		if !rankRaw {
			if _, err := clean.Run(t, cleanOptions()); err != nil {
				return fmt.Errorf("clean: %w", err)
			}
		}
		r, err := aggregate.GroupCount(aggregate.Where(t, preds...), cols, rankTop)
		if err != nil {
			return err
		}
		title := "Rows by " + strings.Join(rankBy, ", ")
		if len(rankWhere) > 0 {
			title += " where " + strings.Join(rankWhere, " and ")
		}
		report.PrintRanking(cmd.OutOrStdout(), title, r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringSliceVar(&rankBy, "by", []string{"Team"}, "columns to group by (comma-separated)")
	rankCmd.Flags().StringArrayVar(&rankWhere, "where", nil, "filter Col=Value, Col!=Value or Col=A|B (repeatable, combined with AND)")
	rankCmd.Flags().IntVar(&rankTop, "top", 10, "number of groups to show (0 = all)")
	rankCmd.Flags().BoolVar(&rankRaw, "raw", false, "rank the table as loaded, without cleaning")
}
