package excel

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Dataset holds named numeric columns read from a workbook or CSV file.
// Cells that are blank or non-numeric become NaN so the statistic kernels'
// nan_policy handling applies uniformly to messy spreadsheets.
type Dataset struct {
	Columns []string
	Samples map[string][]float64
}

// Sample returns the column with the given name.
func (d *Dataset) Sample(name string) ([]float64, bool) {
	s, ok := d.Samples[name]
	return s, ok
}

// DataReader loads sample columns from Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadData reads the first sheet (or the CSV body) into named columns
func (r *DataReader) ReadData() (*Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}
	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

func (r *DataReader) readExcelData() (*Dataset, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}
	return processRows(rows)
}

func (r *DataReader) readCSVData() (*Dataset, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(string(raw), "\n"), "\n") {
		rows = append(rows, strings.Split(strings.TrimRight(line, "\r"), ","))
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have at least a header row and one data row")
	}
	return processRows(rows)
}

func processRows(rows [][]string) (*Dataset, error) {
	headers := rows[0]
	ds := &Dataset{Samples: make(map[string][]float64, len(headers))}
	var cells []int // original cell index per kept column
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		ds.Columns = append(ds.Columns, name)
		cells = append(cells, i)
		ds.Samples[name] = make([]float64, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for c, name := range ds.Columns {
			v := math.NaN()
			if cell := cells[c]; cell < len(row) {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(row[cell]), 64); err == nil {
					v = parsed
				}
			}
			ds.Samples[name] = append(ds.Samples[name], v)
		}
	}
	return ds, nil
}
