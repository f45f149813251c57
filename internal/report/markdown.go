// Package report renders analysis results for people: markdown, console
// tables and spreadsheet/JSON exports.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
	"github.com/KaramelBytes/olympeda/internal/analysis"
	"github.com/KaramelBytes/olympeda/internal/dataset"
	"github.com/KaramelBytes/olympeda/internal/utils"
)

// Markdown renders the result as a plain sectioned report.
func Markdown(res *analysis.Result) string {
	var b strings.Builder
	in := res.Inspection

	b.WriteString("[DATASET SUMMARY]\n")
	if res.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", res.Source))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", res.RunID))
	b.WriteString(fmt.Sprintf("Rows: %d (after cleaning %d)\n", in.Rows, res.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", in.Cols))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n\n", in.Duplicates))

	b.WriteString("[SCHEMA]\n")
	desc := map[dataset.Column]dataset.Description{}
	for _, d := range in.Describe {
		desc[d.Column] = d
	}
	outl := map[dataset.Column]analysis.Outliers{}
	for _, o := range in.Outliers {
		outl[o.Column] = o
	}
	nulls := map[dataset.Column]analysis.NullShare{}
	for _, n := range in.Nulls {
		nulls[n.Column] = n
	}
	for _, c := range dataset.Columns {
		n := nulls[c]
		kind := "text"
		if c.IsNumeric() {
			kind = "numeric"
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c, kind, in.Rows-n.Count, n.Percent))
		if d, ok := desc[c]; ok && d.Count > 0 {
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g, median %.4g", d.Min, d.Max, d.Mean, d.Std, d.Q50))
			if o, ok := outl[c]; ok && o.Count > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f (max |z|≈%.2f)", o.Count, o.Threshold, o.MaxAbsZ))
			}
		}
		b.WriteString("\n")
	}

	if rep := res.Cleaning; rep != nil {
		b.WriteString("\n[CLEANING]\n")
		b.WriteString(fmt.Sprintf("Rows: %d -> %d\n", rep.RowsBefore, rep.RowsAfter))
		for _, op := range rep.Operations {
			col := ""
			if op.Column != "" {
				col = " " + string(op.Column)
			}
			b.WriteString(fmt.Sprintf("- %s%s: %d (%s)\n", op.Step, col, op.Affected, op.Detail))
		}
	}

	b.WriteString("\n[RANKINGS]\n")
	b.WriteString(fmt.Sprintf("Rows for team %s: %d\n", res.FocusTeam, res.FocusRows))
	writeRanking(&b, res.FocusTeam+" medals", res.FocusMedals)
	writeRanking(&b, res.FocusTeam+" medals by sport", res.FocusSports)
	writeRanking(&b, "Top teams by participation", res.TopTeams)
	writeRanking(&b, "Top teams by gold medals", res.GoldTeams)
	writeRanking(&b, "Top male medallists", res.TopMale)
	writeRanking(&b, "Top female medallists", res.TopFemale)
	writeRanking(&b, "Team name words", res.TeamTokens.Top(15))
	if len(res.Heaviest) > 0 {
		b.WriteString(fmt.Sprintf("Heaviest athletes (%.4g kg):\n", res.MaxWeight))
		for _, r := range res.Heaviest {
			b.WriteString(fmt.Sprintf("  • %s, %s, %s %d\n", safeVal(r.Name), safeVal(r.Team), safeVal(r.Sport), r.Year))
		}
	}

	b.WriteString("\n[TRENDS]\n")
	x := res.FocusMedalsByYear
	if len(x.Rows) > 0 {
		b.WriteString(fmt.Sprintf("%s medals by year:\n", res.FocusTeam))
		series := analysis.MedalSeries(x)
		for _, y := range x.Rows {
			parts := make([]string, len(series))
			for i, m := range series {
				parts[i] = fmt.Sprintf("%s %d", m, x.Get(y, m))
			}
			b.WriteString(fmt.Sprintf("  • %s: %s\n", y, strings.Join(parts, ", ")))
		}
	}
	for _, tr := range res.Trends {
		b.WriteString(fmt.Sprintf("%s participation:", tr.Name))
		for _, sex := range tr.Table.Rows {
			keys, _ := tr.Table.Series(sex)
			if len(keys) == 0 {
				continue
			}
			peakYear, peak := peakOf(tr.Table, sex)
			b.WriteString(fmt.Sprintf(" %s %d entries over %d games (%s-%s, peak %d in %s);",
				sex, tr.Table.RowTotal(sex), len(keys), keys[0], keys[len(keys)-1], peak, peakYear))
		}
		b.WriteString("\n")
	}

	if len(res.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, c := range res.Charts {
			b.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Path))
		}
	}

	if len(res.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range res.Notes {
			b.WriteString("- " + n + "\n")
		}
	}
	return b.String()
}

// WriteMarkdown writes Markdown(res) to path.
func WriteMarkdown(path string, res *analysis.Result) error {
	if err := utils.SafeWriteFile(path, []byte(Markdown(res))); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeRanking(b *strings.Builder, title string, r aggregate.Ranking) {
	if len(r.Rows) == 0 {
		return
	}
	b.WriteString(title + ": ")
	for i, c := range r.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s(%d)", safeVal(c.Label()), c.Count))
	}
	b.WriteString("\n")
}

func peakOf(x aggregate.CrossTable, row string) (string, int) {
	keys, counts := x.Series(row)
	best, at := math.MinInt, ""
	for i, n := range counts {
		if n > best {
			best, at = n, keys[i]
		}
	}
	return at, best
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
