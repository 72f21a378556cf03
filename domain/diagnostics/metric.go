package diagnostics

import "fmt"

// Metric identifies a regression quality metric. The set is closed: every
// metric is dispatched through evaluate, so adding one here without a case
// there is caught by the default branch.
type Metric string

const (
	MetricMAE      Metric = "MAE"      // mean absolute error
	MetricMSD      Metric = "MSD"      // mean squared error
	MetricR2       Metric = "R2"       // coefficient of determination
	MetricMAPE     Metric = "MAPE"     // mean absolute percentage error
	MetricPearson  Metric = "PEARSON"  // Pearson correlation
	MetricSpearman Metric = "SPEARMAN" // Spearman rank correlation
	MetricFisher   Metric = "FISHER"   // rank-discrimination exact test p-value
)

// DefaultMetrics returns every registered metric in reporting order.
func DefaultMetrics() []Metric {
	return []Metric{
		MetricMAE,
		MetricMSD,
		MetricR2,
		MetricMAPE,
		MetricPearson,
		MetricSpearman,
		MetricFisher,
	}
}

// Valid reports whether m names a registered metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricMAE, MetricMSD, MetricR2, MetricMAPE, MetricPearson, MetricSpearman, MetricFisher:
		return true
	}
	return false
}

// String returns the metric name used for output columns and series.
func (m Metric) String() string {
	return string(m)
}

// ParseMetric converts a metric name into a Metric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}

// evaluate dispatches a metric to its wrapper function. All wrappers share
// the signature (observed, predicted, standardDeviation) -> float64; the
// standard deviation is accepted by the contract but ignored by every
// currently registered metric.
func evaluate(m Metric, observed, predicted, standardDeviation []float64) (float64, error) {
	switch m {
	case MetricMAE:
		return meanAbsoluteError(observed, predicted, standardDeviation), nil
	case MetricMSD:
		return meanSquaredError(observed, predicted, standardDeviation), nil
	case MetricR2:
		return r2Score(observed, predicted, standardDeviation), nil
	case MetricMAPE:
		return meanAbsolutePercentageError(observed, predicted, standardDeviation), nil
	case MetricPearson:
		return pearson(observed, predicted, standardDeviation), nil
	case MetricSpearman:
		return spearman(observed, predicted, standardDeviation), nil
	case MetricFisher:
		return fisherExactP(observed, predicted, standardDeviation), nil
	default:
		return 0, fmt.Errorf("unknown metric %q", m)
	}
}
