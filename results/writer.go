package results

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Writer appends rows to a table and keeps a CSV copy of the whole table
// on disk. Rows are never removed or rewritten.
type Writer struct {
	path  string
	table *Table
}

// NewWriter returns a writer for a new table with the given columns that
// is persisted at path. Nothing is written until the first row arrives.
func NewWriter(path string, columns ...string) *Writer {
	return &Writer{path: path, table: NewTable(columns...)}
}

// Path returns the location of the CSV file.
func (w *Writer) Path() string {
	return w.path
}

// Append adds row to the table and rewrites the CSV file.
func (w *Writer) Append(row Row) error {
	if err := w.table.Append(row); err != nil {
		return err
	}
	return w.Flush()
}

// Flush writes the whole table to its file. The file is replaced
// atomically, so readers never see a partial table.
func (w *Writer) Flush() error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return errors.Wrap(err, "create results file")
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "create results file")
	}
	cw := csv.NewWriter(tmp)
	if err := cw.WriteAll(w.table.Records()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write results '%s'", w.path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "write results '%s'", w.path)
	}
	return errors.Wrap(os.Rename(tmp.Name(), w.path), "replace results")
}

// AppendLog appends a single row to the CSV file at path. When the file
// does not exist yet (or is empty) the header is written first. This is
// for logs shared between many runs of a program.
func AppendLog(path string, header []string, row Row) error {
	t := NewTable(header...)
	if err := t.Append(row); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open results log")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return errors.Wrap(err, "open results log")
	}

	recs := t.Records()
	if info.Size() > 0 {
		recs = recs[1:]
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(recs); err != nil {
		f.Close()
		return errors.Wrapf(err, "append to '%s'", path)
	}
	return errors.Wrapf(f.Close(), "append to '%s'", path)
}
