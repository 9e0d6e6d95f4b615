package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

// Read loads a delimited or spreadsheet file into a Table.
func Read(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xls", ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// Headers returns just the column names of a dataset file.
func Headers(path string) ([]string, error) {
	t, err := Read(path)
	if err != nil {
		return nil, err
	}
	return t.Columns, nil
}

func readCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make([]string, len(headers))
	for i, h := range headers {
		columns[i] = cleanHeader(h)
	}

	var rows []model.GenericRecord
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		row := make(model.GenericRecord, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = utils.ParseValue(record[i])
			}
		}
		rows = append(rows, row)
	}
	return NewTable(columns, rows), nil
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		columns[i] = cleanHeader(h)
	}

	var rows []model.GenericRecord
	for _, record := range cells[1:] {
		row := make(model.GenericRecord, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = utils.ParseValue(record[i])
			}
		}
		rows = append(rows, row)
	}
	return NewTable(columns, rows), nil
}

// cleanHeader trims whitespace and strips stray quotes from a column name.
func cleanHeader(h string) string {
	return strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
}
