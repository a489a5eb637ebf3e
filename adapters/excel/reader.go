package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"datascope/domain/table"
	"datascope/internal/errors"
)

// DataReader loads xlsx and csv files into the raw Source shape the
// coercer consumes. Column names come from the header row in first-seen
// order; blank or duplicate headers get synthetic names so the column
// set stays unique.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for an xlsx or csv file
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadSource reads the file into a raw Source. Blank cells become nil
// (missing); everything else stays a string for the coercer to type.
func (r *DataReader) ReadSource() (*table.Source, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.New(errors.CodeReadFailed,
			fmt.Sprintf("%s file not found: %s", r.fileType, r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, errors.New(errors.CodeReadFailed, "unsupported file type: "+r.fileType)
	}
}

func (r *DataReader) readExcel() (*table.Source, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open xlsx file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.CodeReadFailed, "xlsx file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}
	return processRows(rows)
}

func (r *DataReader) readCSV() (*table.Source, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open csv file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv file")
	}
	return processRows(rows)
}

func processRows(rows [][]string) (*table.Source, error) {
	if len(rows) < 2 {
		return nil, errors.New(errors.CodeEmptyDataset,
			"file must have a header row and at least one data row")
	}

	columns := uniqueHeaders(rows[0])

	dataRows := make([]map[string]any, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(map[string]any, len(columns))
		for j, col := range columns {
			if j >= len(raw) || strings.TrimSpace(raw[j]) == "" {
				row[col] = nil
				continue
			}
			row[col] = raw[j]
		}
		dataRows = append(dataRows, row)
	}

	return &table.Source{Columns: columns, Rows: dataRows}, nil
}

func uniqueHeaders(headerRow []string) []string {
	columns := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name] = 1
		columns[i] = name
	}
	return columns
}
