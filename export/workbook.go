package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pevans/catalogsnap/catalog"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the records are written to.
const SheetName = "Sheet1"

// WriteWorkbookFile writes records to an xlsx workbook at path, header row
// first, replacing any existing file. Missing parent directories are created.
func WriteWorkbookFile(path string, records []catalog.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &catalog.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := r.Row()
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %q: %w", r.Title, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// ReadWorkbookFile reads a workbook written by WriteWorkbookFile. The header
// row is checked against catalog.Columns.
func ReadWorkbookFile(path string) ([]catalog.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook has no header")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]catalog.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells
		cells := make([]string, len(catalog.Columns))
		copy(cells, row)
		records = append(records, recordFromRow(cells))
	}
	return records, nil
}

// WriteFile writes the output table in the format chosen by the extension of
// path: ".csv" gets CSV, anything else an xlsx workbook.
func WriteFile(path string, records []catalog.Record) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return WriteTableFile(path, records)
	}
	return WriteWorkbookFile(path, records)
}

// ReadFile reads a table written by WriteFile.
func ReadFile(path string) ([]catalog.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open table: %w", err)
		}
		defer f.Close()
		return ReadTable(f)
	}
	return ReadWorkbookFile(path)
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

func checkHeader(header []string) error {
	for i, column := range catalog.Columns {
		if i >= len(header) || header[i] != column {
			got := ""
			if i < len(header) {
				got = header[i]
			}
			return fmt.Errorf("unexpected column %d: %q", i+1, got)
		}
	}
	return nil
}

func recordFromRow(row []string) catalog.Record {
	return catalog.Record{
		Title:     row[0],
		Author:    row[1],
		AddedDate: row[2],
		ViewCount: row[3],
		Duration:  row[4],
	}
}
