package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// MissingToken is written for missing values so files round-trip through ReadCSV.
const MissingToken = "NA"

// WriteCSV writes the table with a header row in column order.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = string(c)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range t.Records {
		if err := cw.Write(t.Records[i].Strings(MissingToken)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
