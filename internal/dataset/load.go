package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrBadValue is returned when a cell cannot be parsed for its column.
	ErrBadValue = errors.New("bad value")
)

// maxWholeFloat is the largest magnitude at which every float64 is a whole
// number exactly representable as an int.
const maxWholeFloat = 1 << 53

// DefaultMissingTokens are read as missing values.
var DefaultMissingTokens = []string{"", "NA", "NaN", "nan", "null", "NULL"}

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// Sheet selects the XLSX sheet; empty means the first sheet.
	Sheet string
	// MissingTokens overrides DefaultMissingTokens when non-empty.
	MissingTokens []string
}

// LoadFile reads a CSV/TSV or XLSX file chosen by extension.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited file into a Table.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV reads delimited records from r. name labels the resulting table.
func ReadCSV(r io.Reader, name string, opt LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dec, err := newDecoder(header, opt.MissingTokens)
	if err != nil {
		return nil, err
	}
	t := &Table{Name: name}
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++
		row, err := dec.decode(rec, line)
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, row)
	}
	return t, nil
}

// LoadXLSX reads the selected sheet of a workbook into a Table.
func LoadXLSX(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("open xlsx: workbook %s has no sheets", filepath.Base(path))
		}
		sheet = sheets[0]
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("open sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	t := &Table{Name: filepath.Base(path)}
	var dec *decoder
	line := 0
	for rows.Next() {
		line++
		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if dec == nil {
			if dec, err = newDecoder(cells, opt.MissingTokens); err != nil {
				return nil, err
			}
			continue
		}
		if isBlank(cells) {
			continue
		}
		row, err := dec.decode(cells, line)
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, row)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if dec == nil {
		return nil, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
	}
	return t, nil
}

type decoder struct {
	index   map[Column]int
	missing map[string]struct{}
}

func newDecoder(header []string, tokens []string) (*decoder, error) {
	d := &decoder{index: make(map[Column]int, len(Columns)), missing: map[string]struct{}{}}
	for i, h := range header {
		if c, ok := ParseColumn(strings.TrimPrefix(h, "\ufeff")); ok {
			if _, dup := d.index[c]; !dup {
				d.index[c] = i
			}
		}
	}
	var absent []string
	for _, c := range Columns {
		if _, ok := d.index[c]; !ok {
			absent = append(absent, string(c))
		}
	}
	if len(absent) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(absent, ", "))
	}
	if len(tokens) == 0 {
		tokens = DefaultMissingTokens
	}
	for _, tok := range tokens {
		d.missing[tok] = struct{}{}
	}
	return d, nil
}

func (d *decoder) cell(rec []string, c Column) (string, bool) {
	i := d.index[c]
	if i >= len(rec) {
		return "", false
	}
	v := strings.TrimSpace(rec[i])
	if _, na := d.missing[v]; na {
		return "", false
	}
	return v, true
}

func (d *decoder) decode(rec []string, line int) (Record, error) {
	var r Record
	var err error
	text := func(c Column) string {
		v, _ := d.cell(rec, c)
		return v
	}
	integer := func(c Column) int {
		if err != nil {
			return 0
		}
		v, ok := d.cell(rec, c)
		if !ok {
			err = fmt.Errorf("row %d, column %s: %w: missing", line, c, ErrBadValue)
			return 0
		}
		// Some exports write whole numbers as 1896.0.
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil || f != math.Trunc(f) || math.Abs(f) > maxWholeFloat {
			err = fmt.Errorf("row %d, column %s: %w: %q", line, c, ErrBadValue, v)
			return 0
		}
		return int(f)
	}
	number := func(c Column) NullFloat {
		if err != nil {
			return NullFloat{}
		}
		v, ok := d.cell(rec, c)
		if !ok {
			return NullFloat{}
		}
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			err = fmt.Errorf("row %d, column %s: %w: %q", line, c, ErrBadValue, v)
			return NullFloat{}
		}
		return Float(f)
	}

	r.ID = integer(ColID)
	r.Name = text(ColName)
	r.Sex = text(ColSex)
	r.Age = number(ColAge)
	r.Height = number(ColHeight)
	r.Weight = number(ColWeight)
	r.Team = text(ColTeam)
	r.NOC = text(ColNOC)
	r.Games = text(ColGames)
	r.Year = integer(ColYear)
	r.Season = text(ColSeason)
	r.City = text(ColCity)
	r.Sport = text(ColSport)
	r.Event = text(ColEvent)
	if v, ok := d.cell(rec, ColMedal); ok {
		r.Medal = Str(v)
	}
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
