/*
Package results accumulates experiment results into tables and persists
them as CSV files.

A Table is an ordered list of rows with a fixed header. A Writer wraps a
table and rewrites its CSV file after every appended row, so an
interrupted sweep loses at most the configuration that was running.
*/
package results

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Row maps column names to values. Supported values are strings, ints,
// floats, bools and time.Durations (written in seconds).
type Row map[string]interface{}

// Table is an in-memory result table.
type Table struct {
	header []string
	rows   [][]string
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	header := make([]string, len(columns))
	copy(header, columns)
	return &Table{header: header}
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	return t.header
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds a row to the end of the table. Columns missing from row are
// left empty. A key in row that is not a column is an error.
func (t *Table) Append(row Row) error {
	rec, err := t.record(row)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, rec)
	return nil
}

// Records returns the header followed by every row, formatted.
func (t *Table) Records() [][]string {
	recs := make([][]string, 0, len(t.rows)+1)
	recs = append(recs, t.header)
	return append(recs, t.rows...)
}

// Column returns the formatted values of one column.
func (t *Table) Column(name string) []string {
	i := t.index(name)
	if i < 0 {
		return nil
	}
	vals := make([]string, len(t.rows))
	for j, row := range t.rows {
		vals[j] = row[i]
	}
	return vals
}

func (t *Table) index(name string) int {
	for i, col := range t.header {
		if col == name {
			return i
		}
	}
	return -1
}

func (t *Table) record(row Row) ([]string, error) {
	rec := make([]string, len(t.header))
	for name, v := range row {
		i := t.index(name)
		if i < 0 {
			return nil, errors.Errorf("'%s' is not a column of %v.",
				name, t.header)
		}
		rec[i] = Format(v)
	}
	return rec, nil
}

// Format renders a value the way it appears in a result file.
func Format(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case time.Duration:
		return strconv.FormatFloat(v.Seconds(), 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", v)
}
