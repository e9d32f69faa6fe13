package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pevans/catalogsnap/catalog"
)

// WriteTable writes records as CSV with a header row in catalog.Columns
// order.
func WriteTable(w io.Writer, records []catalog.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(catalog.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write record %q: %w", r.Title, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTableFile writes the table to path, replacing any existing file.
// Missing parent directories are created.
func WriteTableFile(path string, records []catalog.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteTable(f, records); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// ReadTable reads a table written by WriteTable. The header row is checked
// against catalog.Columns.
func ReadTable(r io.Reader) ([]catalog.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(catalog.Columns)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table has no header")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]catalog.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}
