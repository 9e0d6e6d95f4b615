package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t, "cust_id, \"order_amt\" ,region\n1,10.5,north\n2,20,south\n")

	table, err := Read(path)
	require.NoError(t, err)

	// Headers are trimmed and stripped of stray quotes.
	assert.Equal(t, []string{"cust_id", "order_amt", "region"}, table.Columns)
	require.Len(t, table.Rows, 2)

	// Cell values are coerced: int, float, string.
	assert.Equal(t, 1, table.Rows[0]["cust_id"])
	assert.Equal(t, 10.5, table.Rows[0]["order_amt"])
	assert.Equal(t, 20, table.Rows[1]["order_amt"])
	assert.Equal(t, "north", table.Rows[0]["region"])
}

func TestReadCSVShortRow(t *testing.T) {
	// csv.Reader rejects ragged rows, so pad with an empty trailing field.
	path := writeCSV(t, "a,b\n1,\n")

	table, err := Read(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0]["b"])
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"cust_id", "order_amt"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"1", "10.5"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"2", "20"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cust_id", "order_amt"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 10.5, table.Rows[0]["order_amt"])
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read("notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestHeaders(t *testing.T) {
	path := writeCSV(t, "cust_id,order_amt\n1,2\n")

	cols, err := Headers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cust_id", "order_amt"}, cols)
}

func TestIsNumericColumn(t *testing.T) {
	path := writeCSV(t, "id,name,score\n1,alice,9.5\n2,bob,\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.True(t, table.IsNumericColumn("id"))
	assert.False(t, table.IsNumericColumn("name"))
	// Empty cells do not break a numeric column.
	assert.True(t, table.IsNumericColumn("score"))
	assert.Equal(t, []string{"id", "score"}, table.NumericColumns())
}
