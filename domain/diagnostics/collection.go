package diagnostics

import (
	"cvdiag/domain/core"
	"cvdiag/domain/dataset"
)

// FoldCollection holds every fold of one cross-validation run. All folds
// share the same key, and each of the optional fields (standard deviation,
// labcodes, features) is either present on every fold or absent from every
// fold. The collection is immutable and preserves fold order.
type FoldCollection struct {
	folds []*FoldResult
}

// optionalFields drives the all-or-none presence checks.
var optionalFields = []struct {
	name string
	has  func(*FoldResult) bool
}{
	{"standard_deviation", (*FoldResult).HasStandardDeviation},
	{"labcodes", (*FoldResult).HasLabcodes},
	{"X", (*FoldResult).HasFeatures},
}

// NewFoldCollection validates and stores the folds of a cross-validation
// run. It requires at least two folds, an identical key on every fold,
// consistent presence of each optional field, and, when feature tables are
// carried, an identical column-name set on every fold (column order is
// ignored).
func NewFoldCollection(folds []*FoldResult) (*FoldCollection, error) {
	if len(folds) <= 1 {
		return nil, core.ErrEmptyCollection
	}

	first := folds[0]
	for _, fold := range folds[1:] {
		if fold.Key() != first.Key() {
			return nil, core.NewKeyMismatchError(fold.Key(), first.Key())
		}
	}
	for _, field := range optionalFields {
		present := field.has(first)
		for _, fold := range folds[1:] {
			if field.has(fold) != present {
				return nil, core.NewFieldPresenceMismatchError(field.name)
			}
		}
	}
	if first.HasFeatures() {
		for _, fold := range folds[1:] {
			if !first.features.SameColumnSet(fold.features) {
				return nil, core.ErrColumnMismatch
			}
		}
	}

	return &FoldCollection{folds: append([]*FoldResult(nil), folds...)}, nil
}

// Len returns the number of folds
func (c *FoldCollection) Len() int {
	return len(c.folds)
}

// Fold returns the fold at index i
func (c *FoldCollection) Fold(i int) *FoldResult {
	return c.folds[i]
}

// Folds returns the folds in collection order
func (c *FoldCollection) Folds() []*FoldResult {
	return append([]*FoldResult(nil), c.folds...)
}

// Key returns the key of the output variable the run validated
func (c *FoldCollection) Key() string {
	return c.folds[0].Key()
}

// IsLOO reports whether the collection represents a leave-one-out run,
// i.e. every fold holds exactly one sample.
func (c *FoldCollection) IsLOO() bool {
	for _, fold := range c.folds {
		if fold.NSamples() != 1 {
			return false
		}
	}
	return true
}

// CombineFolds concatenates all folds, in collection order, into one
// synthetic FoldResult sharing the collection's key. Optional fields are
// concatenated when present; sample order within each fold is preserved and
// the combined data is re-indexed contiguously.
func (c *FoldCollection) CombineFolds() (*FoldResult, error) {
	var observed, predicted, standardDeviation []float64
	var labcodes []string
	var features *dataset.Frame

	first := c.folds[0]
	for _, fold := range c.folds {
		observed = append(observed, fold.observed...)
		predicted = append(predicted, fold.predicted...)
		if first.HasStandardDeviation() {
			standardDeviation = append(standardDeviation, fold.standardDeviation...)
		}
		if first.HasLabcodes() {
			labcodes = append(labcodes, fold.labcodes...)
		}
	}
	if first.HasFeatures() {
		rest := make([]*dataset.Frame, 0, len(c.folds)-1)
		for _, fold := range c.folds[1:] {
			rest = append(rest, fold.features)
		}
		combined, err := first.features.Concat(rest...)
		if err != nil {
			return nil, err
		}
		features = combined
	}

	return NewFoldResult(c.Key(), observed, predicted, standardDeviation, labcodes, features)
}

// GetMetric calculates one metric across the run. With combineFolds true the
// folds are concatenated first and a single pooled value is returned; with
// combineFolds false the metric is calculated per fold, in fold order.
//
// A leave-one-out run always combines, even when combineFolds is false: each
// fold holds a single sample, so per-fold metrics would fail the
// insufficient-samples guard.
func (c *FoldCollection) GetMetric(metric Metric, combineFolds bool) (Series, error) {
	if c.IsLOO() || combineFolds {
		combined, err := c.CombineFolds()
		if err != nil {
			return Series{}, err
		}
		value, err := combined.GetMetric(metric)
		if err != nil {
			return Series{}, err
		}
		return NewSeries(metric.String(), []float64{value}), nil
	}

	values := make([]float64, len(c.folds))
	for i, fold := range c.folds {
		value, err := fold.GetMetric(metric)
		if err != nil {
			return Series{}, err
		}
		values[i] = value
	}
	return NewSeries(metric.String(), values), nil
}

// GetMetrics calculates several metrics across the run and assembles them as
// columns of a Frame, one column per metric in request order, row-aligned:
// a single row when combined (or LOO), one row per fold otherwise. A nil or
// empty metric list means DefaultMetrics.
func (c *FoldCollection) GetMetrics(metrics []Metric, combineFolds bool) (*dataset.Frame, error) {
	if len(metrics) == 0 {
		metrics = DefaultMetrics()
	}

	names := make([]string, len(metrics))
	columns := make([][]float64, len(metrics))
	for i, metric := range metrics {
		series, err := c.GetMetric(metric, combineFolds)
		if err != nil {
			return nil, err
		}
		names[i] = series.Name()
		columns[i] = series.Values()
	}
	return dataset.NewFrame(names, columns)
}
