package analysis

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/plot"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/chart"
	"github.com/KaramelBytes/olympeda/internal/dataset"
	"github.com/KaramelBytes/olympeda/internal/logger"
)

// explodeBelow pulls out pie slices smaller than this share.
const explodeBelow = 0.05

type chartJob struct {
	name  string
	build func() (*plot.Plot, error)
}

func renderAll(ctx context.Context, t *dataset.Table, opt Options, res *Result, log *logger.Logger) error {
	team := chart.FileName(opt.FocusTeam)
	if team == "" {
		team = "team"
	}
	jobs := []chartJob{
		{"missing_values", func() (*plot.Plot, error) {
			miss := res.Missing
			labels := make([]string, len(miss))
			values := make([]float64, len(miss))
			for i, m := range miss {
				labels[i] = string(m.Column)
				values[i] = m.Percent
			}
			return chart.PieChart("Missing values by column (%)", labels, values, chart.PieOptions{})
		}},
		{team + "_medals", func() (*plot.Plot, error) {
			labels, values := podium(res.FocusMedals)
			return chart.Bar(opt.FocusTeam+" medals", "Medal", "Count", labels, values)
		}},
		{team + "_medals_by_year", func() (*plot.Plot, error) {
			x := res.FocusMedalsByYear
			var series []chart.BarSeries
			for _, m := range MedalSeries(x) {
				vals := make([]float64, len(x.Rows))
				for i, y := range x.Rows {
					vals[i] = float64(x.Get(y, m))
				}
				series = append(series, chart.BarSeries{Name: m, Values: vals})
			}
			return chart.GroupedBar(opt.FocusTeam+" medals by year", "Year", "Medals", x.Rows, series)
		}},
		{team + "_medal_sports", func() (*plot.Plot, error) {
			r := res.FocusSports
			return chart.PieChart(opt.FocusTeam+" medals by sport", r.Labels(), r.Values(),
				chart.PieOptions{Explode: explode(r.Values(), explodeBelow)})
		}},
		{"team_wordcloud", func() (*plot.Plot, error) {
			r := res.TeamTokens.Top(opt.WordcloudMaxWords)
			words := make([]chart.Word, len(r.Rows))
			for i, c := range r.Rows {
				words[i] = chart.Word{Text: c.Label(), Weight: float64(c.Count)}
			}
			return chart.WordCloudChart("Team names", words)
		}},
		{"top_teams", func() (*plot.Plot, error) {
			return chart.Bar(fmt.Sprintf("Top %d teams by participation", len(res.TopTeams.Rows)),
				"Team", "Athlete entries", res.TopTeams.Labels(), res.TopTeams.Values())
		}},
		{"gold_teams", func() (*plot.Plot, error) {
			return chart.PieChart(fmt.Sprintf("Top %d teams by gold medals", len(res.GoldTeams.Rows)),
				res.GoldTeams.Labels(), res.GoldTeams.Values(), chart.PieOptions{Hole: 0.45})
		}},
	}
	for _, tr := range res.Trends {
		jobs = append(jobs, chartJob{"participation_" + strings.ToLower(tr.Name), func() (*plot.Plot, error) {
			var series []chart.LineSeries
			for _, sex := range tr.Table.Rows {
				xs, ys := YearSeries(tr.Table, sex)
				series = append(series, chart.LineSeries{Name: sexLabel(sex), X: xs, Y: ys})
			}
			return chart.Lines(tr.Name+" participation by sex", "Year", "Athlete entries", series)
		}})
	}
	jobs = append(jobs,
		chartJob{"height_weight", func() (*plot.Plot, error) {
			return chart.Bubble("Height vs weight (size: age, colour: sport)", "Height (cm)", "Weight (kg)",
				bubbles(t), chart.BubbleOptions{MaxPoints: opt.ScatterMaxPoints, LegendGroups: 10})
		}},
		chartJob{"top_male_athletes", func() (*plot.Plot, error) {
			return athleteTree("Top male medallists", res.TopMale)
		}},
		chartJob{"top_female_athletes", func() (*plot.Plot, error) {
			return athleteTree("Top female medallists", res.TopFemale)
		}},
	)

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := j.build()
		if isNoData(err) {
			log.WithField("chart", j.name).Warn("nothing to draw, skipped")
			res.Notes = append(res.Notes, "chart "+j.name+" skipped: no data")
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", j.name, err)
		}
		path, err := chart.Save(p, opt.Chart, j.name)
		if err != nil {
			log.WithError(err).WithField("chart", j.name).Debug("save failed")
			return err
		}
		log.WithField("path", path).Debug("chart saved")
		res.Charts = append(res.Charts, ChartFile{Name: j.name, Path: path})
	}
	return nil
}

// podium orders a medal ranking Gold, Silver, Bronze.
func podium(r aggregate.Ranking) ([]string, []float64) {
	var labels []string
	var values []float64
	for _, m := range MedalOrder {
		if n := r.Get(m); n > 0 {
			labels = append(labels, m)
			values = append(values, float64(n))
		}
	}
	return labels, values
}

// explode offsets slices whose share is below share.
func explode(values []float64, share float64) []float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	if total == 0 {
		return out
	}
	for i, v := range values {
		if v/total < share {
			out[i] = 0.12
		}
	}
	return out
}

func bubbles(t *dataset.Table) []chart.BubblePoint {
	pts := make([]chart.BubblePoint, 0, t.Len())
	for i := range t.Records {
		r := &t.Records[i]
		h, okH := r.Number(dataset.ColHeight)
		w, okW := r.Number(dataset.ColWeight)
		if !okH || !okW {
			continue
		}
		age, _ := r.Number(dataset.ColAge)
		pts = append(pts, chart.BubblePoint{X: h, Y: w, Size: age, Group: r.Sport})
	}
	return pts
}

func athleteTree(title string, r aggregate.Ranking) (*plot.Plot, error) {
	root, err := AthleteHierarchy(r)
	if err != nil {
		return nil, err
	}
	return chart.TreemapChart(title, root)
}

// AthleteHierarchy nests a TopAthletes ranking as sport, then team, then
// athlete name.
func AthleteHierarchy(r aggregate.Ranking) (*aggregate.Node, error) {
	return aggregate.BuildTree("All", r, dataset.ColSport, dataset.ColTeam, dataset.ColName)
}

func sexLabel(s string) string {
	switch s {
	case "M":
		return "Male"
	case "F":
		return "Female"
	}
	return s
}
