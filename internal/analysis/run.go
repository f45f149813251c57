// Package analysis runs the linear exploratory pass over the athlete-events
// table: load, inspect, clean, aggregate, present.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/chart"
	"github.com/KaramelBytes/olympeda/internal/clean"
	"github.com/KaramelBytes/olympeda/internal/dataset"
	"github.com/KaramelBytes/olympeda/internal/logger"
)

// Options controls a full analysis pass.
type Options struct {
	DataPath string
	Load     dataset.LoadOptions
	Clean    clean.Options

	FocusTeam         string
	TopN              int
	AthletesTopN      int
	WordcloudMaxWords int
	ScatterMaxPoints  int

	// Charts enables rendering into Chart.Dir.
	Charts bool
	Chart  chart.Options

	Log *logger.Logger
}

// DefaultOptions returns the standard pass without charts.
func DefaultOptions() Options {
	return Options{
		Clean:             clean.DefaultOptions(),
		FocusTeam:         "India",
		TopN:              10,
		AthletesTopN:      5,
		WordcloudMaxWords: 150,
		ScatterMaxPoints:  20000,
		Chart:             chart.DefaultOptions(),
	}
}

// Medal order used for medal tables and series.
var MedalOrder = []string{"Gold", "Silver", "Bronze"}

// Trend is participation by sex across years for one slice of the games.
type Trend struct {
	Name  string
	Table aggregate.CrossTable
}

// ChartFile is one rendered chart.
type ChartFile struct {
	Name string
	Path string
}

// Result is everything a pass computed.
type Result struct {
	RunID    string
	Source   string
	Started  time.Time
	Duration time.Duration

	Inspection Inspection
	// Missing is measured after rejected values are filtered out and
	// before imputation.
	Missing    []NullShare
	Cleaning   *clean.Report
	Rows       int

	FocusTeam         string
	FocusRows         int
	FocusMedals       aggregate.Ranking
	FocusMedalsByYear aggregate.CrossTable
	FocusSports       aggregate.Ranking

	TeamTokens aggregate.Ranking
	TopTeams   aggregate.Ranking
	GoldTeams  aggregate.Ranking
	Trends     []Trend

	MaxWeight float64
	Heaviest  []dataset.Record

	TopMale   aggregate.Ranking
	TopFemale aggregate.Ranking

	Charts []ChartFile
	Notes  []string
}

// Run loads opt.DataPath and analyses it.
func Run(ctx context.Context, opt Options) (*Result, error) {
	log := opt.Log
	if log == nil {
		log = logger.Nop()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.WithField("path", opt.DataPath).Info("loading dataset")
	t, err := dataset.LoadFile(opt.DataPath, opt.Load)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	opt.Log = log
	return Analyze(ctx, t, opt)
}

// Analyze runs every stage after loading on t, which is cleaned in place.
// ctx is checked between stages.
func Analyze(ctx context.Context, t *dataset.Table, opt Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Source: t.Name, Started: time.Now(), FocusTeam: opt.FocusTeam}
	log := opt.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithField("run_id", res.RunID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Inspection = Inspect(t)
	log.WithFields(map[string]any{
		"rows": res.Inspection.Rows, "cols": res.Inspection.Cols, "duplicates": res.Inspection.Duplicates,
	}).Info("inspected")

	filtered := t.Clone()
	if len(opt.Clean.RejectedValues) > 0 {
		if _, err := clean.RemoveOutliers(filtered, opt.Clean.Column(), opt.Clean.RejectedValues); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
	}
	res.Missing = MissingShares(filtered)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep, err := clean.Run(t, opt.Clean)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	res.Cleaning = rep
	res.Rows = t.Len()
	log.WithFields(map[string]any{"before": rep.RowsBefore, "after": rep.RowsAfter}).Info("cleaned")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := aggregateAll(t, opt, res); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	if res.FocusRows == 0 {
		log.Warnf("team %q does not occur in the data", opt.FocusTeam)
	}
	log.WithField("focus_rows", res.FocusRows).Info("aggregated")

	if opt.Charts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := renderAll(ctx, t, opt, res, log); err != nil {
			return nil, fmt.Errorf("charts: %w", err)
		}
		log.WithFields(map[string]any{"charts": len(res.Charts), "dir": opt.Chart.Dir}).Info("charts written")
	}
	res.Duration = time.Since(res.Started)
	return res, nil
}

func aggregateAll(t *dataset.Table, opt Options, res *Result) error {
	sentinel := opt.Clean.MedalSentinel
	if sentinel == "" {
		sentinel = clean.DefaultMedalSentinel
	}

	res.FocusRows = aggregate.CountWhere(t, dataset.ColTeam, opt.FocusTeam)
	focusWins := aggregate.Where(t, aggregate.Eq(dataset.ColTeam, opt.FocusTeam), aggregate.Medalled(sentinel))
	res.FocusMedals = aggregate.ValueCounts(focusWins, dataset.ColMedal)
	res.FocusMedalsByYear = aggregate.CrossTab(focusWins, dataset.ColYear, dataset.ColMedal)
	res.FocusSports = aggregate.ValueCounts(focusWins, dataset.ColSport)
	if res.FocusRows == 0 {
		res.Notes = append(res.Notes, fmt.Sprintf("team %q does not occur in the data", opt.FocusTeam))
	}

	res.TeamTokens = aggregate.TokenFrequency(t, dataset.ColTeam, aggregate.DefaultStopwords)

	var err error
	if res.TopTeams, err = aggregate.GroupCount(t, []dataset.Column{dataset.ColTeam}, opt.TopN); err != nil {
		return err
	}
	gold := aggregate.Where(t, aggregate.Eq(dataset.ColMedal, "Gold"))
	if res.GoldTeams, err = aggregate.GroupCount(gold, []dataset.Column{dataset.ColTeam}, opt.TopN); err != nil {
		return err
	}

	res.Trends = []Trend{
		{Name: "Summer", Table: aggregate.CrossTab(aggregate.Where(t, aggregate.Eq(dataset.ColSeason, "Summer")), dataset.ColSex, dataset.ColYear)},
		{Name: "Winter", Table: aggregate.CrossTab(aggregate.Where(t, aggregate.Eq(dataset.ColSeason, "Winter")), dataset.ColSex, dataset.ColYear)},
		{Name: "All", Table: aggregate.CrossTab(t, dataset.ColSex, dataset.ColYear)},
	}

	if w, ok := aggregate.Max(t, dataset.ColWeight); ok {
		res.MaxWeight = w
		res.Heaviest = aggregate.Where(t, aggregate.NumEq(dataset.ColWeight, w)).Records
	}

	if res.TopMale, err = aggregate.TopAthletes(t, "M", sentinel, opt.AthletesTopN); err != nil {
		return err
	}
	if res.TopFemale, err = aggregate.TopAthletes(t, "F", sentinel, opt.AthletesTopN); err != nil {
		return err
	}
	return nil
}

// MedalSeries returns the medal columns of a Year x Medal table in podium
// order followed by any other values.
func MedalSeries(x aggregate.CrossTable) []string {
	present := map[string]bool{}
	for _, c := range x.Cols {
		present[c] = true
	}
	var out []string
	for _, m := range MedalOrder {
		if present[m] {
			out = append(out, m)
			delete(present, m)
		}
	}
	for _, c := range x.Cols {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// YearSeries turns one row of a Sex x Year table into x/y slices.
func YearSeries(x aggregate.CrossTable, row string) (xs, ys []float64) {
	keys, counts := x.Series(row)
	for i, k := range keys {
		year, err := strconv.ParseFloat(k, 64)
		if err != nil {
			continue
		}
		xs = append(xs, year)
		ys = append(ys, float64(counts[i]))
	}
	return xs, ys
}

func isNoData(err error) bool { return errors.Is(err, chart.ErrNoData) }
