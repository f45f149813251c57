package analysis

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/chart"
	"github.com/KaramelBytes/olympeda/internal/dataset"
	"github.com/KaramelBytes/olympeda/internal/logger"
)

const fixtureCSV = `ID,Name,Sex,Age,Height,Weight,Team,NOC,Games,Year,Season,City,Sport,Event,Medal
1,Dhyan Chand,M,28,169,70,India,IND,1936 Summer,1936,Summer,Berlin,Hockey,Hockey Men's Hockey,Gold
2,Dhyan Chand,M,24,169,70,India,IND,1932 Summer,1932,Summer,Los Angeles,Hockey,Hockey Men's Hockey,Gold
3,Karnam Malleswari,F,25,NA,63,India,IND,2000 Summer,2000,Summer,Sydney,Weightlifting,Weightlifting Women's Light-Heavyweight,Bronze
4,Abhinav Bindra,M,25,173,NA,India,IND,2008 Summer,2008,Summer,Beijing,Shooting,Shooting Men's Air Rifle,Gold
5,Shiva Keshavan,M,17,170,65,India,IND,1998 Winter,1998,Winter,Nagano,Luge,Luge Men's Singles,NA
6,Paavo Nurmi,M,23,174,65,Finland,FIN,1920 Summer,1920,Summer,Antwerpen,Athletics,"Athletics Men's 10,000 metres",Gold
7,Paavo Nurmi,M,27,174,65,Finland,FIN,1924 Summer,1924,Summer,Paris,Athletics,"Athletics Men's 1,500 metres",Gold
8,Larisa Latynina,F,21,161,NA,Soviet Union,URS,1956 Summer,1956,Summer,Melbourne,Gymnastics,Gymnastics Women's Individual All-Around,Gold
9,Larisa Latynina,F,25,161,52,Soviet Union,URS,1960 Summer,1960,Summer,Roma,Gymnastics,Gymnastics Women's Floor Exercise,Silver
10,Marit Bjorgen,F,NA,168,58,Norway,NOR,2010 Winter,2010,Winter,Vancouver,Cross Country Skiing,Cross Country Skiing Women's Sprint,Gold
11,Bad Height,M,30,2,80,Norway,NOR,2010 Winter,2010,Winter,Vancouver,Biathlon,Biathlon Men's Sprint,NA
7,Paavo Nurmi,M,27,174,65,Finland,FIN,1924 Summer,1924,Summer,Paris,Athletics,"Athletics Men's 1,500 metres",Gold
13,Ricardo Blas Jr.,M,21,183,214,Guam,GUM,2008 Summer,2008,Summer,Beijing,Judo,Judo Men's Heavyweight,NA
`

func fixture(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadCSV(strings.NewReader(fixtureCSV), "athlete_events.csv", dataset.LoadOptions{})
	require.NoError(t, err)
	return tbl
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "athlete_events.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))
	return path
}

func TestInspect(t *testing.T) {
	tbl := fixture(t)
	in := Inspect(tbl)
	assert.Equal(t, 13, in.Rows)
	assert.Equal(t, 15, in.Cols)
	assert.True(t, in.AnyNulls)
	assert.Equal(t, 1, in.Duplicates)
	assert.Equal(t, 13, tbl.Len(), "inspect must not modify the table")

	require.Len(t, in.Nulls, 15)
	top := in.Nulls[:4]
	assert.Equal(t, []dataset.Column{dataset.ColMedal, dataset.ColWeight, dataset.ColAge, dataset.ColHeight},
		[]dataset.Column{top[0].Column, top[1].Column, top[2].Column, top[3].Column})
	assert.Equal(t, 3, top[0].Count)
	assert.InDelta(t, 300.0/13, top[0].Percent, 1e-9)
	assert.Len(t, in.Missing(), 4)

	require.Len(t, in.Describe, len(dataset.NumericColumns))
	assert.Equal(t, 12, in.Describe[2].Count, "height has one missing value")

	var height Outliers
	for _, o := range in.Outliers {
		if o.Column == dataset.ColHeight {
			height = o
		}
	}
	assert.GreaterOrEqual(t, height.Count, 1)
	assert.Greater(t, height.MaxAbsZ, DefaultOutlierThreshold)
}

func TestAnalyzeAggregates(t *testing.T) {
	tbl := fixture(t)
	res, err := Analyze(context.Background(), tbl, DefaultOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "athlete_events.csv", res.Source)
	assert.Equal(t, 13, res.Cleaning.RowsBefore)
	assert.Equal(t, 1, res.Cleaning.OutliersRemoved)
	assert.Equal(t, 2, res.Cleaning.MedalsFilled)
	assert.Equal(t, 1, res.Cleaning.DuplicatesRemoved)
	assert.Equal(t, 11, res.Rows)
	assert.Equal(t, 11, tbl.Len())

	assert.Equal(t, 5, res.FocusRows)
	assert.Equal(t, 3, res.FocusMedals.Get("Gold"))
	assert.Equal(t, 1, res.FocusMedals.Get("Bronze"))
	assert.Equal(t, []string{"1932", "1936", "2000", "2008"}, res.FocusMedalsByYear.Rows)
	assert.Equal(t, []string{"Gold", "Bronze"}, MedalSeries(res.FocusMedalsByYear))
	assert.Equal(t, []string{"Hockey", "Shooting", "Weightlifting"}, res.FocusSports.Labels())

	assert.Equal(t, []string{"India", "Finland", "Soviet Union", "Guam", "Norway"}, res.TopTeams.Labels())
	assert.Equal(t, []string{"India", "Finland", "Norway", "Soviet Union"}, res.GoldTeams.Labels())
	assert.Equal(t, []float64{3, 2, 1, 1}, res.GoldTeams.Values())

	assert.InDelta(t, 214.0, res.MaxWeight, 1e-9)
	require.Len(t, res.Heaviest, 1)
	assert.Equal(t, "Ricardo Blas Jr.", res.Heaviest[0].Name)

	require.NotEmpty(t, res.TopMale.Rows)
	assert.Equal(t, []string{"Dhyan Chand", "India", "Hockey"}, res.TopMale.Rows[0].Keys)
	assert.Equal(t, 2, res.TopMale.Rows[0].Count)
	for _, r := range res.TopFemale.Rows {
		assert.NotEqual(t, "Paavo Nurmi", r.Keys[0])
	}
	assert.Equal(t, "Larisa Latynina", res.TopFemale.Rows[0].Keys[0])

	require.Len(t, res.Trends, 3)
	xs, ys := YearSeries(res.Trends[0].Table, "F")
	assert.Equal(t, []float64{1956, 1960, 2000}, xs)
	assert.Equal(t, []float64{1, 1, 1}, ys)
	assert.Equal(t, []string{"F", "M"}, res.Trends[1].Table.Rows)
	assert.Empty(t, res.Charts)
}

func TestAnalyzeUnknownTeamAddsNote(t *testing.T) {
	var buf bytes.Buffer
	opt := DefaultOptions()
	opt.FocusTeam = "Atlantis"
	opt.Log = logger.New(logger.Options{Level: "warn", Format: "json", Out: &buf})
	res, err := Analyze(context.Background(), fixture(t), opt)
	require.NoError(t, err)
	assert.Zero(t, res.FocusRows)
	require.NotEmpty(t, res.Notes)
	assert.Contains(t, res.Notes[0], "Atlantis")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Atlantis")
}

func TestMissingSharesExcludeRejectedRows(t *testing.T) {
	res, err := Analyze(context.Background(), fixture(t), DefaultOptions())
	require.NoError(t, err)

	// The height-2 row is also missing its medal. It counts before
	// filtering but not in the shares charted afterwards.
	assert.Equal(t, 3, res.Inspection.Nulls[0].Count)

	require.Len(t, res.Missing, 4)
	assert.Equal(t, []dataset.Column{dataset.ColWeight, dataset.ColMedal, dataset.ColAge, dataset.ColHeight},
		[]dataset.Column{res.Missing[0].Column, res.Missing[1].Column, res.Missing[2].Column, res.Missing[3].Column})
	assert.Equal(t, 2, res.Missing[1].Count)
	assert.InDelta(t, 200.0/12, res.Missing[1].Percent, 1e-9)
	assert.InDelta(t, 100.0/12, res.Missing[3].Percent, 1e-9)
}

func TestAthleteHierarchyNestsSportTeamName(t *testing.T) {
	res, err := Analyze(context.Background(), fixture(t), DefaultOptions())
	require.NoError(t, err)

	root, err := AthleteHierarchy(res.TopMale)
	require.NoError(t, err)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "Athletics", root.Children[0].Name)
	assert.Equal(t, "Hockey", root.Children[1].Name)
	assert.Equal(t, "Shooting", root.Children[2].Name)
	assert.Equal(t, 5.0, root.Weight)

	hockey := root.Children[1]
	require.Len(t, hockey.Children, 1)
	assert.Equal(t, "India", hockey.Children[0].Name)
	require.Len(t, hockey.Children[0].Children, 1)
	assert.Equal(t, "Dhyan Chand", hockey.Children[0].Children[0].Name)
	assert.Equal(t, 2.0, hockey.Children[0].Children[0].Weight)
}

func TestRunWritesCharts(t *testing.T) {
	opt := DefaultOptions()
	opt.DataPath = writeFixture(t)
	opt.Charts = true
	opt.Chart = chart.Options{Dir: filepath.Join(t.TempDir(), "out"), Format: "png", Width: 5, Height: 3.5}

	res, err := Run(context.Background(), opt)
	require.NoError(t, err)

	want := []string{
		"missing_values", "india_medals", "india_medals_by_year", "india_medal_sports",
		"team_wordcloud", "top_teams", "gold_teams",
		"participation_summer", "participation_winter", "participation_all",
		"height_weight", "top_male_athletes", "top_female_athletes",
	}
	var got []string
	for _, c := range res.Charts {
		got = append(got, c.Name)
		info, err := os.Stat(c.Path)
		require.NoError(t, err, c.Name)
		assert.Positive(t, info.Size(), c.Name)
	}
	assert.Equal(t, want, got)
}

func TestRunErrors(t *testing.T) {
	opt := DefaultOptions()
	opt.DataPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := Run(context.Background(), opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Analyze(ctx, fixture(t), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplodeAndPodium(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0.12}, explode([]float64{60, 38, 2}, 0.05))
	assert.Equal(t, []float64{0, 0}, explode([]float64{0, 0}, 0.05))

	r := aggregate.Ranking{Rows: []aggregate.Count{{Keys: []string{"Bronze"}, Count: 4}, {Keys: []string{"Gold"}, Count: 1}}}
	labels, values := podium(r)
	assert.Equal(t, []string{"Gold", "Bronze"}, labels)
	assert.Equal(t, []float64{1, 4}, values)
}
