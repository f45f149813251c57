package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/analysis"
	"github.com/KaramelBytes/olympeda/internal/clean"
	"github.com/KaramelBytes/olympeda/internal/dataset"
)

var heading = color.New(color.FgYellow, color.Bold)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	return t
}

// PrintRanking prints a ranking with one column per key plus the count.
func PrintRanking(w io.Writer, title string, r aggregate.Ranking) {
	heading.Fprintln(w, "\n"+title)
	header := make([]string, 0, len(r.Columns)+2)
	header = append(header, "#")
	for _, c := range r.Columns {
		header = append(header, string(c))
	}
	header = append(header, "Count")
	t := newTable(w, header...)
	for i, c := range r.Rows {
		row := append([]string{strconv.Itoa(i + 1)}, c.Keys...)
		t.Append(append(row, strconv.Itoa(c.Count)))
	}
	t.Render()
}

// PrintDescribe prints summary statistics, one row per column.
func PrintDescribe(w io.Writer, ds []dataset.Description) {
	heading.Fprintln(w, "\nSummary statistics")
	t := newTable(w, "Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max")
	for _, d := range ds {
		t.Append([]string{
			string(d.Column), strconv.Itoa(d.Count),
			num(d.Mean), num(d.Std), num(d.Min), num(d.Q25), num(d.Q50), num(d.Q75), num(d.Max),
		})
	}
	t.Render()
}

// PrintNulls prints missing counts and percentages per column.
func PrintNulls(w io.Writer, nulls []analysis.NullShare) {
	heading.Fprintln(w, "\nMissing values")
	t := newTable(w, "Column", "Missing", "Percent")
	for _, n := range nulls {
		t.Append([]string{string(n.Column), strconv.Itoa(n.Count), fmt.Sprintf("%.2f%%", n.Percent)})
	}
	t.Render()
}

// PrintInspection prints the shape, summary statistics and missing values.
func PrintInspection(w io.Writer, in analysis.Inspection) {
	heading.Fprintln(w, "\nShape")
	fmt.Fprintf(w, "Rows: %d\nColumns: %d\nAny missing values: %t\nDuplicate rows: %d\n", in.Rows, in.Cols, in.AnyNulls, in.Duplicates)
	PrintDescribe(w, in.Describe)
	PrintNulls(w, in.Nulls)
}

// PrintCleaning prints the cleaning audit trail.
func PrintCleaning(w io.Writer, rep *clean.Report) {
	heading.Fprintln(w, "\nCleaning")
	t := newTable(w, "Step", "Column", "Affected", "Detail")
	for _, op := range rep.Operations {
		t.Append([]string{op.Step, string(op.Column), strconv.Itoa(op.Affected), op.Detail})
	}
	t.SetFooter([]string{"", "rows", fmt.Sprintf("%d -> %d", rep.RowsBefore, rep.RowsAfter), ""})
	t.Render()
}

// PrintResult prints the console summary of a full pass.
func PrintResult(w io.Writer, res *analysis.Result) {
	PrintInspection(w, res.Inspection)
	PrintCleaning(w, res.Cleaning)
	fmt.Fprintf(w, "\nRows for team %s: %d\n", res.FocusTeam, res.FocusRows)
	PrintRanking(w, res.FocusTeam+" medals", res.FocusMedals)
	PrintRanking(w, res.FocusTeam+" medals by sport", res.FocusSports)
	PrintRanking(w, "Top teams by participation", res.TopTeams)
	PrintRanking(w, "Top teams by gold medals", res.GoldTeams)
	PrintRanking(w, "Top male medallists", res.TopMale)
	PrintRanking(w, "Top female medallists", res.TopFemale)
	if len(res.Heaviest) > 0 {
		heading.Fprintln(w, "\nHeaviest athletes")
		t := newTable(w, "ID", "Name", "Team", "Sport", "Year", "Weight")
		for _, r := range res.Heaviest {
			t.Append([]string{strconv.Itoa(r.ID), r.Name, r.Team, r.Sport, strconv.Itoa(r.Year), r.Weight.String()})
		}
		t.Render()
	}
	if len(res.Charts) > 0 {
		heading.Fprintln(w, "\nCharts")
		for _, c := range res.Charts {
			fmt.Fprintf(w, "  %s\n", c.Path)
		}
	}
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
