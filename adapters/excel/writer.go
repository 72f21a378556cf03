package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cvdiag/domain/core"
	"cvdiag/domain/dataset"
	"cvdiag/domain/diagnostics"
	"cvdiag/internal"
)

var writerLog = internal.NewLogger("ReportWriter")

// Report is an exportable snapshot of a run's metric table plus the
// metadata needed to trace it back to its source.
type Report struct {
	ID          core.ReportID
	Key         string
	Folds       int
	LeaveOneOut bool
	Combined    bool
	GeneratedAt time.Time
	Metrics     *dataset.Frame
}

// NewReport computes the requested metrics for a collection and wraps them
// with report metadata. A nil metric list means the default metric set.
func NewReport(collection *diagnostics.FoldCollection, metrics []diagnostics.Metric, combineFolds bool) (*Report, error) {
	frame, err := collection.GetMetrics(metrics, combineFolds)
	if err != nil {
		return nil, err
	}
	return &Report{
		ID:          core.ReportID(core.NewID()),
		Key:         collection.Key(),
		Folds:       collection.Len(),
		LeaveOneOut: collection.IsLOO(),
		Combined:    combineFolds || collection.IsLOO(),
		GeneratedAt: time.Now().UTC(),
		Metrics:     frame,
	}, nil
}

// WriteXLSX writes the report to an Excel workbook: a metadata block
// followed by the metric table, one row per metric-table row.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	meta := [][]interface{}{
		{"report_id", r.ID.String()},
		{"key", r.Key},
		{"folds", r.Folds},
		{"leave_one_out", r.LeaveOneOut},
		{"combined", r.Combined},
		{"generated_at", r.GeneratedAt.Format(time.RFC3339)},
	}
	for i, pair := range meta {
		if err := setRow(f, sheet, i+1, pair); err != nil {
			return err
		}
	}

	headerRow := len(meta) + 2
	header := []interface{}{ColumnFold}
	for _, name := range r.Metrics.ColumnNames() {
		header = append(header, name)
	}
	if err := setRow(f, sheet, headerRow, header); err != nil {
		return err
	}

	for i := 0; i < r.Metrics.RowCount(); i++ {
		label := fmt.Sprintf("%d", i+1)
		if r.Combined {
			label = "all"
		}
		row := []interface{}{label}
		for _, value := range r.Metrics.Row(i) {
			row = append(row, value)
		}
		if err := setRow(f, sheet, headerRow+1+i, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	writerLog.Info("Wrote report %s for key %s to %s", r.ID, r.Key, path)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}
