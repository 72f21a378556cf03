package dataset

import (
	"sort"

	"cvdiag/domain/core"
)

// Frame is the canonical tabular object for per-sample feature data.
// Columns are named float64 vectors sharing a uniform row count. A Frame is
// treated as immutable by its consumers: accessors copy data out, and Concat
// builds a fresh Frame instead of mutating the receiver.
type Frame struct {
	names   []string
	index   map[string]int
	columns [][]float64
	rows    int
}

// NewFrame builds a Frame from ordered column names and their values.
// Every column must have the same length and names must be unique.
func NewFrame(names []string, columns [][]float64) (*Frame, error) {
	if len(names) != len(columns) {
		return nil, core.NewShapeMismatchError("columns", len(columns), "names", len(names))
	}

	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}

	f := &Frame{
		names:   make([]string, len(names)),
		index:   make(map[string]int, len(names)),
		columns: make([][]float64, len(columns)),
		rows:    rows,
	}
	for i, name := range names {
		if _, dup := f.index[name]; dup {
			return nil, core.NewValidationError("names", "duplicate column "+name)
		}
		if len(columns[i]) != rows {
			return nil, core.NewShapeMismatchError(name, len(columns[i]), names[0], rows)
		}
		f.names[i] = name
		f.index[name] = i
		f.columns[i] = append([]float64(nil), columns[i]...)
	}
	return f, nil
}

// RowCount returns the number of rows
func (f *Frame) RowCount() int {
	return f.rows
}

// ColumnCount returns the number of columns
func (f *Frame) ColumnCount() int {
	return len(f.names)
}

// ColumnNames returns the column names in frame order
func (f *Frame) ColumnNames() []string {
	return append([]string(nil), f.names...)
}

// HasColumn reports whether a column with the given name exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns a copy of the named column's values
func (f *Frame) Column(name string) ([]float64, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), f.columns[i]...), true
}

// Row returns a copy of row i in column order
func (f *Frame) Row(i int) []float64 {
	row := make([]float64, len(f.columns))
	for c := range f.columns {
		row[c] = f.columns[c][i]
	}
	return row
}

// SameColumnSet reports whether both frames hold the same column names,
// ignoring column order.
func (f *Frame) SameColumnSet(other *Frame) bool {
	if other == nil || len(f.names) != len(other.names) {
		return false
	}
	return sortedNames(f.names) == sortedNames(other.names)
}

func sortedNames(names []string) string {
	s := append([]string(nil), names...)
	sort.Strings(s)
	joined := ""
	for _, n := range s {
		joined += n + "\x00"
	}
	return joined
}

// Clone returns a deep copy of the frame
func (f *Frame) Clone() *Frame {
	clone, _ := NewFrame(f.names, f.columns)
	return clone
}

// Concat appends the rows of the given frames to a copy of the receiver.
// Column sets must match (order-insensitive); appended values are aligned to
// the receiver's column order and re-indexed contiguously.
func (f *Frame) Concat(others ...*Frame) (*Frame, error) {
	out := f.Clone()
	for _, other := range others {
		if !f.SameColumnSet(other) {
			return nil, core.ErrColumnMismatch
		}
		for i, name := range out.names {
			col, _ := other.Column(name)
			out.columns[i] = append(out.columns[i], col...)
		}
		out.rows += other.rows
	}
	return out, nil
}
