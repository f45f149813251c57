package dataset

import (
	"strconv"
	"strings"
)

// Column names a field of the athlete-events table.
type Column string

const (
	ColID     Column = "ID"
	ColName   Column = "Name"
	ColSex    Column = "Sex"
	ColAge    Column = "Age"
	ColHeight Column = "Height"
	ColWeight Column = "Weight"
	ColTeam   Column = "Team"
	ColNOC    Column = "NOC"
	ColGames  Column = "Games"
	ColYear   Column = "Year"
	ColSeason Column = "Season"
	ColCity   Column = "City"
	ColSport  Column = "Sport"
	ColEvent  Column = "Event"
	ColMedal  Column = "Medal"
)

// Columns lists every column in file order.
var Columns = []Column{
	ColID, ColName, ColSex, ColAge, ColHeight, ColWeight, ColTeam, ColNOC,
	ColGames, ColYear, ColSeason, ColCity, ColSport, ColEvent, ColMedal,
}

// NumericColumns are the columns summarised by Describe.
var NumericColumns = []Column{ColID, ColAge, ColHeight, ColWeight, ColYear}

// ParseColumn resolves a column name case-insensitively.
func ParseColumn(name string) (Column, bool) {
	n := strings.TrimSpace(name)
	for _, c := range Columns {
		if strings.EqualFold(string(c), n) {
			return c, true
		}
	}
	return "", false
}

// IsNumeric reports whether the column holds numbers.
func (c Column) IsNumeric() bool {
	for _, n := range NumericColumns {
		if n == c {
			return true
		}
	}
	return false
}

// NullFloat is a float64 that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

// NullString is a string that may be missing.
type NullString struct {
	String string
	Valid  bool
}

// Str returns a valid NullString.
func Str(v string) NullString { return NullString{String: v, Valid: true} }

// Record is one athlete-event row.
type Record struct {
	ID     int
	Name   string
	Sex    string
	Age    NullFloat
	Height NullFloat
	Weight NullFloat
	Team   string
	NOC    string
	Games  string
	Year   int
	Season string
	City   string
	Sport  string
	Event  string
	Medal  NullString
}

// Value returns the textual value of col; missing values are "".
func (r *Record) Value(col Column) string {
	switch col {
	case ColID:
		return strconv.Itoa(r.ID)
	case ColName:
		return r.Name
	case ColSex:
		return r.Sex
	case ColAge:
		return r.Age.String()
	case ColHeight:
		return r.Height.String()
	case ColWeight:
		return r.Weight.String()
	case ColTeam:
		return r.Team
	case ColNOC:
		return r.NOC
	case ColGames:
		return r.Games
	case ColYear:
		return strconv.Itoa(r.Year)
	case ColSeason:
		return r.Season
	case ColCity:
		return r.City
	case ColSport:
		return r.Sport
	case ColEvent:
		return r.Event
	case ColMedal:
		if !r.Medal.Valid {
			return ""
		}
		return r.Medal.String
	}
	return ""
}

// Number returns the numeric value of col and whether it is present.
func (r *Record) Number(col Column) (float64, bool) {
	switch col {
	case ColID:
		return float64(r.ID), true
	case ColYear:
		return float64(r.Year), true
	case ColAge:
		return r.Age.Float64, r.Age.Valid
	case ColHeight:
		return r.Height.Float64, r.Height.Valid
	case ColWeight:
		return r.Weight.Float64, r.Weight.Valid
	}
	return 0, false
}

// IsNull reports whether col is missing in this row.
func (r *Record) IsNull(col Column) bool {
	switch col {
	case ColAge:
		return !r.Age.Valid
	case ColHeight:
		return !r.Height.Valid
	case ColWeight:
		return !r.Weight.Valid
	case ColMedal:
		return !r.Medal.Valid
	}
	return false
}

// NullableFloat returns a pointer to the nullable numeric field for col, or nil.
func (r *Record) NullableFloat(col Column) *NullFloat {
	switch col {
	case ColAge:
		return &r.Age
	case ColHeight:
		return &r.Height
	case ColWeight:
		return &r.Weight
	}
	return nil
}

const nullMark = "\x00"

// Key is the full-row equality key: two records share a key only when every
// column is equal, with missing distinct from any present value.
func (r *Record) Key() string {
	var b strings.Builder
	for i, c := range Columns {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if r.IsNull(c) {
			b.WriteString(nullMark)
			continue
		}
		b.WriteString(r.Value(c))
	}
	return b.String()
}

// Strings returns the row in column order, rendering missing values as na.
func (r *Record) Strings(na string) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		if r.IsNull(c) {
			out[i] = na
			continue
		}
		out[i] = r.Value(c)
	}
	return out
}

// Table is the in-memory athlete-events table.
type Table struct {
	Name    string
	Records []Record
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Records) }

// Clone returns a deep copy; records hold no references so a slice copy suffices.
func (t *Table) Clone() *Table {
	recs := make([]Record, len(t.Records))
	copy(recs, t.Records)
	return &Table{Name: t.Name, Records: recs}
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(*Record) bool) *Table {
	out := &Table{Name: t.Name}
	for i := range t.Records {
		if keep(&t.Records[i]) {
			out.Records = append(out.Records, t.Records[i])
		}
	}
	return out
}

// NullCount counts missing values in col.
func (t *Table) NullCount(col Column) int {
	n := 0
	for i := range t.Records {
		if t.Records[i].IsNull(col) {
			n++
		}
	}
	return n
}
