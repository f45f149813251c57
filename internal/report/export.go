package report

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/analysis"
	"github.com/KaramelBytes/olympeda/internal/utils"
)

// Sheet names written by ExportXLSX, in workbook order.
var Sheets = []string{
	"Summary", "Missing", "Describe", "Cleaning",
	"Focus_Medals", "Focus_Medals_By_Year", "Focus_Sports",
	"Top_Teams", "Gold_Teams", "Participation",
	"Top_Male", "Top_Female", "Team_Words", "Heaviest",
}

type sheetWriter struct {
	f      *excelize.File
	name   string
	row    int
	header int
}

func (s *sheetWriter) append(values ...any) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", s.name, s.row, err)
	}
	return nil
}

func (s *sheetWriter) headerRow(cols ...string) error {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = c
	}
	if err := s.append(vals...); err != nil {
		return err
	}
	if err := s.f.SetRowStyle(s.name, s.row, s.row, s.header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	return s.f.SetColWidth(s.name, "A", last, 18)
}

// ExportXLSX writes one sheet per aggregate of res to path.
func ExportXLSX(path string, res *analysis.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	sheets := make(map[string]*sheetWriter, len(Sheets))
	for i, name := range Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("xlsx sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet: %w", err)
		}
		sheets[name] = &sheetWriter{f: f, name: name, header: bold}
	}

	if err := fillSheets(sheets, res); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	f.SetActiveSheet(0)
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func fillSheets(s map[string]*sheetWriter, res *analysis.Result) error {
	in := res.Inspection
	sum := s["Summary"]
	if err := sum.headerRow("Key", "Value"); err != nil {
		return err
	}
	for _, kv := range [][2]any{
		{"Run", res.RunID},
		{"File", res.Source},
		{"Started", res.Started.Format(time.RFC3339)},
		{"Rows", in.Rows},
		{"Rows after cleaning", res.Rows},
		{"Columns", in.Cols},
		{"Duplicate rows", in.Duplicates},
		{"Focus team", res.FocusTeam},
		{"Focus team rows", res.FocusRows},
		{"Heaviest weight", res.MaxWeight},
	} {
		if err := sum.append(kv[0], kv[1]); err != nil {
			return err
		}
	}

	miss := s["Missing"]
	if err := miss.headerRow("Column", "Missing", "Percent"); err != nil {
		return err
	}
	for _, n := range in.Nulls {
		if err := miss.append(string(n.Column), n.Count, n.Percent); err != nil {
			return err
		}
	}

	desc := s["Describe"]
	if err := desc.headerRow("Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"); err != nil {
		return err
	}
	for _, d := range in.Describe {
		if err := desc.append(string(d.Column), d.Count, cellNum(d.Mean), cellNum(d.Std), cellNum(d.Min),
			cellNum(d.Q25), cellNum(d.Q50), cellNum(d.Q75), cellNum(d.Max)); err != nil {
			return err
		}
	}

	cl := s["Cleaning"]
	if err := cl.headerRow("Step", "Column", "Affected", "Detail"); err != nil {
		return err
	}
	if res.Cleaning != nil {
		for _, op := range res.Cleaning.Operations {
			if err := cl.append(op.Step, string(op.Column), op.Affected, op.Detail); err != nil {
				return err
			}
		}
	}

	for name, r := range map[string]aggregate.Ranking{
		"Focus_Medals": res.FocusMedals,
		"Focus_Sports": res.FocusSports,
		"Top_Teams":    res.TopTeams,
		"Gold_Teams":   res.GoldTeams,
		"Top_Male":     res.TopMale,
		"Top_Female":   res.TopFemale,
		"Team_Words":   res.TeamTokens,
	} {
		if err := rankingSheet(s[name], r); err != nil {
			return err
		}
	}

	by := s["Focus_Medals_By_Year"]
	x := res.FocusMedalsByYear
	medals := analysis.MedalSeries(x)
	if err := by.headerRow(append([]string{"Year"}, medals...)...); err != nil {
		return err
	}
	for _, y := range x.Rows {
		row := []any{y}
		for _, m := range medals {
			row = append(row, x.Get(y, m))
		}
		if err := by.append(row...); err != nil {
			return err
		}
	}

	part := s["Participation"]
	if err := part.headerRow("Games", "Sex", "Year", "Entries"); err != nil {
		return err
	}
	for _, tr := range res.Trends {
		for _, sex := range tr.Table.Rows {
			keys, counts := tr.Table.Series(sex)
			for i, k := range keys {
				year, _ := strconv.Atoi(k)
				if err := part.append(tr.Name, sex, year, counts[i]); err != nil {
					return err
				}
			}
		}
	}

	hv := s["Heaviest"]
	if err := hv.headerRow("ID", "Name", "Team", "Sport", "Year", "Weight"); err != nil {
		return err
	}
	for _, r := range res.Heaviest {
		if err := hv.append(r.ID, r.Name, r.Team, r.Sport, r.Year, r.Weight.Float64); err != nil {
			return err
		}
	}
	return nil
}

func rankingSheet(s *sheetWriter, r aggregate.Ranking) error {
	header := []string{"Rank"}
	for _, c := range r.Columns {
		header = append(header, string(c))
	}
	if err := s.headerRow(append(header, "Count")...); err != nil {
		return err
	}
	for i, c := range r.Rows {
		row := []any{i + 1}
		for _, k := range c.Keys {
			row = append(row, k)
		}
		if err := s.append(append(row, c.Count)...); err != nil {
			return err
		}
	}
	return nil
}

// cellNum leaves NaN cells empty; excelize cannot store NaN.
func cellNum(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return f
}

// jsonResult is the exported shape of a Result.
type jsonResult struct {
	RunID      string                `json:"run_id"`
	Source     string                `json:"source"`
	Started    time.Time             `json:"started"`
	DurationMS int64                 `json:"duration_ms"`
	Rows       int                   `json:"rows"`
	RowsClean  int                   `json:"rows_after_cleaning"`
	Columns    int                   `json:"columns"`
	Duplicates int                   `json:"duplicates"`
	Missing    []jsonNull            `json:"missing"`
	Describe   []jsonDescribe        `json:"describe"`
	Cleaning   []jsonOperation       `json:"cleaning"`
	FocusTeam  string                `json:"focus_team"`
	FocusRows  int                   `json:"focus_rows"`
	Rankings   map[string][]jsonRank `json:"rankings"`
	ByYear     []map[string]any      `json:"focus_medals_by_year"`
	Trends     map[string][]jsonYear `json:"participation"`
	MaxWeight  float64               `json:"max_weight"`
	Heaviest   []string              `json:"heaviest"`
	Charts     map[string]string     `json:"charts,omitempty"`
	Notes      []string              `json:"notes,omitempty"`
}

type jsonNull struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type jsonDescribe struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q50    *float64 `json:"median"`
	Max    *float64 `json:"max"`
}

type jsonOperation struct {
	Step     string `json:"step"`
	Column   string `json:"column,omitempty"`
	Affected int    `json:"affected"`
	Detail   string `json:"detail"`
}

type jsonRank struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

type jsonYear struct {
	Sex   string `json:"sex"`
	Year  int    `json:"year"`
	Count int    `json:"count"`
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toJSON(res *analysis.Result) jsonResult {
	in := res.Inspection
	out := jsonResult{
		RunID:      res.RunID,
		Source:     res.Source,
		Started:    res.Started,
		DurationMS: res.Duration.Milliseconds(),
		Rows:       in.Rows,
		RowsClean:  res.Rows,
		Columns:    in.Cols,
		Duplicates: in.Duplicates,
		FocusTeam:  res.FocusTeam,
		FocusRows:  res.FocusRows,
		Rankings:   map[string][]jsonRank{},
		Trends:     map[string][]jsonYear{},
		MaxWeight:  res.MaxWeight,
		Notes:      res.Notes,
	}
	for _, n := range in.Nulls {
		out.Missing = append(out.Missing, jsonNull{Column: string(n.Column), Count: n.Count, Percent: n.Percent})
	}
	for _, d := range in.Describe {
		out.Describe = append(out.Describe, jsonDescribe{
			Column: string(d.Column), Count: d.Count,
			Mean: finite(d.Mean), Std: finite(d.Std), Min: finite(d.Min), Q50: finite(d.Q50), Max: finite(d.Max),
		})
	}
	if res.Cleaning != nil {
		for _, op := range res.Cleaning.Operations {
			out.Cleaning = append(out.Cleaning, jsonOperation{Step: op.Step, Column: string(op.Column), Affected: op.Affected, Detail: op.Detail})
		}
	}
	for name, r := range map[string]aggregate.Ranking{
		"focus_medals": res.FocusMedals,
		"focus_sports": res.FocusSports,
		"top_teams":    res.TopTeams,
		"gold_teams":   res.GoldTeams,
		"top_male":     res.TopMale,
		"top_female":   res.TopFemale,
		"team_words":   res.TeamTokens.Top(50),
	} {
		rows := make([]jsonRank, len(r.Rows))
		for i, c := range r.Rows {
			rows[i] = jsonRank{Keys: c.Keys, Count: c.Count}
		}
		out.Rankings[name] = rows
	}
	x := res.FocusMedalsByYear
	for _, y := range x.Rows {
		row := map[string]any{"year": y}
		for _, m := range x.Cols {
			row[m] = x.Get(y, m)
		}
		out.ByYear = append(out.ByYear, row)
	}
	for _, tr := range res.Trends {
		var years []jsonYear
		for _, sex := range tr.Table.Rows {
			keys, counts := tr.Table.Series(sex)
			for i, k := range keys {
				year, _ := strconv.Atoi(k)
				years = append(years, jsonYear{Sex: sex, Year: year, Count: counts[i]})
			}
		}
		out.Trends[tr.Name] = years
	}
	for _, r := range res.Heaviest {
		out.Heaviest = append(out.Heaviest, r.Name)
	}
	if len(res.Charts) > 0 {
		out.Charts = map[string]string{}
		for _, c := range res.Charts {
			out.Charts[c.Name] = c.Path
		}
	}
	return out
}

// ExportJSON writes res as indented JSON to path.
func ExportJSON(path string, res *analysis.Result) error {
	b, err := utils.PrettyJSON(toJSON(res))
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
