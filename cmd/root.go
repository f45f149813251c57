package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/olympeda/internal/analysis"
	"github.com/KaramelBytes/olympeda/internal/chart"
	"github.com/KaramelBytes/olympeda/internal/clean"
	cfgpkg "github.com/KaramelBytes/olympeda/internal/config"
	"github.com/KaramelBytes/olympeda/internal/dataset"
	"github.com/KaramelBytes/olympeda/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	debug    bool
	dataPath string

	// Loaded configuration and logger
	cfg *cfgpkg.Global
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "olympeda",
	Short: "Olympeda: exploratory analysis of the Olympic athlete-events dataset",
	Long: `Olympeda loads the athlete-events table (CSV/TSV/XLSX), inspects it, cleans it,
computes medal and participation aggregates and renders charts and a report.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.olympeda/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "dataset file (CSV, TSV or XLSX; overrides dataset_path)")
}

// setup loads .env, configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := cfgpkg.LoadDotEnv(envFile); err != nil {
		return err
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	if dataPath != "" {
		cfg.DatasetPath = dataPath
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log = logger.New(logger.Options{Level: level, Format: cfg.LogFormat, Out: cmd.ErrOrStderr()})
	log.WithField("command", cmd.CommandPath()).Debug("configuration loaded")
	return nil
}

// loadOptions maps configuration onto a full analysis pass.
func loadOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	opt.DataPath = cfg.DatasetPath
	opt.Clean = cleanOptions()
	opt.FocusTeam = cfg.FocusTeam
	opt.TopN = cfg.TopN
	opt.AthletesTopN = cfg.AthletesTopN
	opt.WordcloudMaxWords = cfg.WordcloudMaxWords
	opt.ScatterMaxPoints = cfg.ScatterMaxPoints
	opt.Charts = true
	opt.Chart = chart.Options{
		Dir:    filepath.Join(cfg.OutputDir, "charts"),
		Format: cfg.ChartFormat,
		Width:  cfg.ChartWidthIn,
		Height: cfg.ChartHeightIn,
	}
	opt.Log = log
	return opt
}

func cleanOptions() clean.Options {
	opt := clean.DefaultOptions()
	opt.RejectedValues = append([]float64(nil), cfg.RejectedHeights...)
	if cfg.MedalSentinel != "" {
		opt.MedalSentinel = cfg.MedalSentinel
	}
	return opt
}

// loadTable reads the configured dataset.
func loadTable() (*dataset.Table, error) {
	if cfg.DatasetPath == "" {
		return nil, fmt.Errorf("no dataset: pass --data or set dataset_path")
	}
	log.WithField("path", cfg.DatasetPath).Info("loading dataset")
	t, err := dataset.LoadFile(cfg.DatasetPath, dataset.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	log.Debugf("loaded %d rows from %s", t.Len(), t.Name)
	return t, nil
}
