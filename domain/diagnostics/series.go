package diagnostics

import "github.com/montanaflynn/stats"

// Series is a named vector of metric values: one element when folds were
// combined, one element per fold otherwise.
type Series struct {
	name   string
	values []float64
}

// NewSeries builds a Series from a name and values
func NewSeries(name string, values []float64) Series {
	return Series{name: name, values: append([]float64(nil), values...)}
}

// Name returns the series name (the metric that produced it)
func (s Series) Name() string {
	return s.name
}

// Len returns the number of values
func (s Series) Len() int {
	return len(s.values)
}

// Values returns a copy of the series values
func (s Series) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// At returns the value at index i
func (s Series) At(i int) float64 {
	return s.values[i]
}

// Mean returns the arithmetic mean of the series
func (s Series) Mean() (float64, error) {
	return stats.Mean(s.values)
}
