package diagnostics

import (
	"math"

	"cvdiag/domain/core"
	"cvdiag/domain/dataset"
)

// FoldResult is the container for one cross-validation fold: the observed
// and predicted values of a single output variable, plus optional per-sample
// traceability data. A FoldResult is immutable after construction; the
// constructor copies every input and accessors copy data out.
type FoldResult struct {
	key               string
	observed          []float64
	predicted         []float64
	standardDeviation []float64      // optional, nil when absent
	labcodes          []string       // optional, nil when absent
	features          *dataset.Frame // optional X table, nil when absent
}

// NewFoldResult validates and stores one fold's data. Shape checks run
// before numeric checks: predicted, standardDeviation, labcodes and features
// (when present) must all match the length of observed, and observed,
// predicted and standardDeviation must contain only real numbers (NaN and
// ±Inf are rejected). Pass nil for absent optional fields.
func NewFoldResult(key string, observed, predicted, standardDeviation []float64, labcodes []string, features *dataset.Frame) (*FoldResult, error) {
	n := len(observed)
	if n == 0 {
		return nil, core.NewValidationError("observed", "needs at least one sample")
	}
	if len(predicted) != n {
		return nil, core.NewShapeMismatchError("predicted", len(predicted), "observed", n)
	}
	if standardDeviation != nil && len(standardDeviation) != n {
		return nil, core.NewShapeMismatchError("standard_deviation", len(standardDeviation), "observed", n)
	}
	if labcodes != nil && len(labcodes) != n {
		return nil, core.NewShapeMismatchError("labcodes", len(labcodes), "observed", n)
	}
	if features != nil && features.RowCount() != n {
		return nil, core.NewShapeMismatchError("X", features.RowCount(), "observed", n)
	}

	if i, ok := firstNonNumeric(observed); !ok {
		return nil, core.NewNotNumericError("observed", i)
	}
	if i, ok := firstNonNumeric(predicted); !ok {
		return nil, core.NewNotNumericError("predicted", i)
	}
	if standardDeviation != nil {
		if i, ok := firstNonNumeric(standardDeviation); !ok {
			return nil, core.NewNotNumericError("standard_deviation", i)
		}
	}

	fold := &FoldResult{
		key:       key,
		observed:  append([]float64(nil), observed...),
		predicted: append([]float64(nil), predicted...),
	}
	if standardDeviation != nil {
		fold.standardDeviation = append([]float64(nil), standardDeviation...)
	}
	if labcodes != nil {
		fold.labcodes = append([]string(nil), labcodes...)
	}
	if features != nil {
		fold.features = features.Clone()
	}
	return fold, nil
}

// firstNonNumeric returns the index of the first value that is not a real
// number. NaN and ±Inf are the only float64 values that fail.
func firstNonNumeric(values []float64) (int, bool) {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, false
		}
	}
	return 0, true
}

// Key returns the key of the validated output variable
func (f *FoldResult) Key() string {
	return f.key
}

// NSamples returns the number of samples in the fold
func (f *FoldResult) NSamples() int {
	return len(f.observed)
}

// Observed returns a copy of the observed values
func (f *FoldResult) Observed() []float64 {
	return append([]float64(nil), f.observed...)
}

// Predicted returns a copy of the predicted values
func (f *FoldResult) Predicted() []float64 {
	return append([]float64(nil), f.predicted...)
}

// HasStandardDeviation reports whether the fold carries predicted
// uncertainties.
func (f *FoldResult) HasStandardDeviation() bool {
	return f.standardDeviation != nil
}

// StandardDeviation returns a copy of the predicted standard deviations, or
// nil when absent.
func (f *FoldResult) StandardDeviation() []float64 {
	if f.standardDeviation == nil {
		return nil
	}
	return append([]float64(nil), f.standardDeviation...)
}

// HasLabcodes reports whether the fold carries per-sample labels.
func (f *FoldResult) HasLabcodes() bool {
	return f.labcodes != nil
}

// Labcodes returns a copy of the per-sample labels, or nil when absent.
func (f *FoldResult) Labcodes() []string {
	if f.labcodes == nil {
		return nil
	}
	return append([]string(nil), f.labcodes...)
}

// HasFeatures reports whether the fold carries a feature table.
func (f *FoldResult) HasFeatures() bool {
	return f.features != nil
}

// Features returns a copy of the fold's feature table, or nil when absent.
func (f *FoldResult) Features() *dataset.Frame {
	if f.features == nil {
		return nil
	}
	return f.features.Clone()
}

// GetMetric calculates a metric for the fold. Every metric requires more
// than one sample; on a single-sample fold the call fails with
// core.ErrInsufficientSamples regardless of which metric was requested.
func (f *FoldResult) GetMetric(metric Metric) (float64, error) {
	if f.NSamples() <= 1 {
		return 0, core.ErrInsufficientSamples
	}
	return evaluate(metric, f.observed, f.predicted, f.standardDeviation)
}
