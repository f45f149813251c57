package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/olympeda/internal/analysis"
	"github.com/KaramelBytes/olympeda/internal/report"
)

var (
	anaOutDir   string
	anaTeam     string
	anaTop      int
	anaXLSX     bool
	anaJSON     bool
	anaNoCharts bool
	anaQuiet    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full pass: load, inspect, clean, aggregate, chart and report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if anaOutDir != "" {
			cfg.OutputDir = anaOutDir
		}
		if anaTeam != "" {
			cfg.FocusTeam = anaTeam
		}
		if cmd.Flags().Changed("top") {
			if anaTop < 0 {
				return fmt.Errorf("--top must be >= 0, got %d", anaTop)
			}
			cfg.TopN = anaTop
		}
		if cmd.Flags().Changed("xlsx") {
			cfg.ExportXLSX = anaXLSX
		}
		if cmd.Flags().Changed("json") {
			cfg.ExportJSON = anaJSON
		}

		opt := loadOptions()
		opt.Charts = !anaNoCharts
		res, err := analysis.Run(cmd.Context(), opt)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !anaQuiet {
			report.PrintResult(out, res)
		}
		mdPath := filepath.Join(cfg.OutputDir, "report.md")
		if err := report.WriteMarkdown(mdPath, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote report to %s\n", mdPath)
		if cfg.ExportXLSX {
			p := filepath.Join(cfg.OutputDir, "olympeda.xlsx")
			if err := report.ExportXLSX(p, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote workbook to %s\n", p)
		}
		if cfg.ExportJSON {
			p := filepath.Join(cfg.OutputDir, "olympeda.json")
			if err := report.ExportJSON(p, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote JSON to %s\n", p)
		}
		log.WithFields(map[string]any{"run_id": res.RunID, "took": res.Duration.String()}).Info("analysis complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutDir, "out", "o", "", "output directory for charts and reports (overrides output_dir)")
	analyzeCmd.Flags().StringVar(&anaTeam, "team", "", "focus team for medal breakdowns (overrides focus_team)")
	analyzeCmd.Flags().IntVar(&anaTop, "top", 10, "number of teams in top-N rankings (0 = all)")
	analyzeCmd.Flags().BoolVar(&anaXLSX, "xlsx", false, "also export every aggregate to an XLSX workbook")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "also export the result as JSON")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().BoolVarP(&anaQuiet, "quiet", "q", false, "do not print console tables")
}
