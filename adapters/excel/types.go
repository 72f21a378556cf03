package excel

// Column names recognized in cross-validation prediction dumps. Any other
// column is treated as a feature column and collected into the fold's X
// table.
const (
	ColumnFold              = "fold"
	ColumnObserved          = "observed"
	ColumnPredicted         = "predicted"
	ColumnStandardDeviation = "standard_deviation"
	ColumnLabcode           = "labcode"
)

// RawData is a parsed prediction dump before fold grouping
type RawData struct {
	Headers []string   // column headers in file order
	Rows    [][]string // data rows as raw strings
}
