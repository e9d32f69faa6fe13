package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pevans/catalogsnap/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TestWriteWorkbookFile_RoundTrip verifies header, column order and rows
func TestWriteWorkbookFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films_data.xlsx")
	records := append(sampleRecords(), catalog.Record{
		Title: "Утренние новости", Author: "Первый канал", AddedDate: "1 час назад", ViewCount: "1234", Duration: "12:00",
	})

	require.NoError(t, WriteWorkbookFile(path, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, catalog.Columns, rows[0])
	assert.Equal(t, []string{"Утренние новости", "Первый канал", "1 час назад", "1234", "12:00"}, rows[3])

	got, err := ReadWorkbookFile(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

// TestWriteWorkbookFile_HeaderOnly verifies an empty result still has a header
func TestWriteWorkbookFile_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films_data.xlsx")

	require.NoError(t, WriteWorkbookFile(path, nil))

	got, err := ReadWorkbookFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestWriteWorkbookFile_EmptyTrailingField verifies an empty last cell reads
// back as an empty string
func TestWriteWorkbookFile_EmptyTrailingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films_data.xlsx")
	records := []catalog.Record{{Title: "T", Author: "A", AddedDate: "D", ViewCount: "V", Duration: ""}}

	require.NoError(t, WriteWorkbookFile(path, records))

	got, err := ReadWorkbookFile(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

// TestWriteWorkbookFile_OverwritesAndCreatesDirectories verifies replacement
// of an existing file inside a fresh directory tree
func TestWriteWorkbookFile_OverwritesAndCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "films_data.xlsx")
	require.NoError(t, WriteWorkbookFile(path, sampleRecords()))

	require.NoError(t, WriteWorkbookFile(path, sampleRecords()[:1]))

	got, err := ReadWorkbookFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords()[:1], got)
}

// TestWriteWorkbookFile_PathIsDirectory verifies write failures are reported
func TestWriteWorkbookFile_PathIsDirectory(t *testing.T) {
	err := WriteWorkbookFile(t.TempDir(), sampleRecords())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

// TestWriteFile_ChoosesFormatByExtension verifies .csv stays CSV and other
// paths get a workbook
func TestWriteFile_ChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "films.CSV")
	require.NoError(t, WriteFile(csvPath, sampleRecords()))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Title,Author,Added,Views,Duration\n")

	xlsxPath := filepath.Join(dir, "films_data.xlsx")
	require.NoError(t, WriteFile(xlsxPath, sampleRecords()))
	data, err = os.ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]), "xlsx is a zip container")

	for _, path := range []string{csvPath, xlsxPath} {
		got, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleRecords(), got)
	}
}
