package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"cvdiag/domain/core"
	"cvdiag/domain/dataset"
	"cvdiag/domain/diagnostics"
	"cvdiag/internal"
)

var readerLog = internal.NewLogger("DataReader")

// DataReader reads cross-validation prediction dumps from Excel and CSV
// files. A dump needs the columns fold, observed and predicted; it may also
// carry standard_deviation and labcode columns, and every remaining column
// is parsed as a numeric feature column.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file, dispatching on its
// extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadRaw reads the file into headers and raw string rows
func (r *DataReader) ReadRaw() (*RawData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readXLSX()
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, r.fileType)
	}
}

func (r *DataReader) readCSV() (*RawData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file %s has no data rows", r.filePath)
	}

	readerLog.Debug("Read %d rows from %s", len(records)-1, r.filePath)
	return &RawData{Headers: records[0], Rows: records[1:]}, nil
}

func (r *DataReader) readXLSX() (*RawData, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file %s has no data rows", r.filePath)
	}

	headers := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// excelize drops trailing empty cells, pad back to header width
		for len(row) < len(headers) {
			row = append(row, "")
		}
		data = append(data, row)
	}

	readerLog.Debug("Read %d rows from %s", len(data), r.filePath)
	return &RawData{Headers: headers, Rows: data}, nil
}

// ReadCollection parses the file and groups its rows into a FoldCollection
// for the given output variable key. Folds appear in first-appearance order
// of their fold identifier; domain validation errors propagate unchanged.
func (r *DataReader) ReadCollection(key string) (*diagnostics.FoldCollection, error) {
	raw, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(raw.Headers))
	for i, header := range raw.Headers {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{ColumnFold, ColumnObserved, ColumnPredicted} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingColumn, required)
		}
	}

	_, withSD := index[ColumnStandardDeviation]
	_, withLabcodes := index[ColumnLabcode]

	var featureNames []string
	known := map[string]bool{
		ColumnFold: true, ColumnObserved: true, ColumnPredicted: true,
		ColumnStandardDeviation: true, ColumnLabcode: true,
	}
	for _, header := range raw.Headers {
		name := strings.ToLower(strings.TrimSpace(header))
		if !known[name] {
			featureNames = append(featureNames, name)
		}
	}

	groups := make(map[string]*foldRows)
	var order []string
	for i, row := range raw.Rows {
		foldID := strings.TrimSpace(row[index[ColumnFold]])
		group, ok := groups[foldID]
		if !ok {
			group = newFoldRows(len(featureNames))
			groups[foldID] = group
			order = append(order, foldID)
		}
		if err := group.add(row, i+2, index, featureNames, withSD, withLabcodes); err != nil {
			return nil, err
		}
	}

	folds := make([]*diagnostics.FoldResult, 0, len(order))
	for _, foldID := range order {
		fold, err := groups[foldID].build(key, featureNames)
		if err != nil {
			return nil, fmt.Errorf("fold %s: %w", foldID, err)
		}
		folds = append(folds, fold)
	}

	readerLog.Info("Parsed %d folds for key %s", len(folds), key)
	return diagnostics.NewFoldCollection(folds)
}

// foldRows accumulates one fold's rows during parsing
type foldRows struct {
	observed          []float64
	predicted         []float64
	standardDeviation []float64
	labcodes          []string
	features          [][]float64
}

func newFoldRows(featureCount int) *foldRows {
	return &foldRows{features: make([][]float64, featureCount)}
}

func (g *foldRows) add(row []string, line int, index map[string]int, featureNames []string, withSD, withLabcodes bool) error {
	parse := func(column string) (float64, error) {
		cell := strings.TrimSpace(row[index[column]])
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("line %d: column %s: cannot parse %q as number", line, column, cell)
		}
		return value, nil
	}

	observed, err := parse(ColumnObserved)
	if err != nil {
		return err
	}
	predicted, err := parse(ColumnPredicted)
	if err != nil {
		return err
	}
	g.observed = append(g.observed, observed)
	g.predicted = append(g.predicted, predicted)

	if withSD {
		sd, err := parse(ColumnStandardDeviation)
		if err != nil {
			return err
		}
		g.standardDeviation = append(g.standardDeviation, sd)
	}
	if withLabcodes {
		g.labcodes = append(g.labcodes, strings.TrimSpace(row[index[ColumnLabcode]]))
	}
	for i, name := range featureNames {
		value, err := parse(name)
		if err != nil {
			return err
		}
		g.features[i] = append(g.features[i], value)
	}
	return nil
}

func (g *foldRows) build(key string, featureNames []string) (*diagnostics.FoldResult, error) {
	var frame *dataset.Frame
	if len(featureNames) > 0 {
		var err error
		frame, err = dataset.NewFrame(featureNames, g.features)
		if err != nil {
			return nil, err
		}
	}
	return diagnostics.NewFoldResult(key, g.observed, g.predicted, g.standardDeviation, g.labcodes, frame)
}
