package diagnostics

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
)

// mapeEpsilon is the floor applied to |observed| so a zero observation does
// not blow up the percentage error (same contract as scikit-learn).
const mapeEpsilon = 2.220446049250313e-16

// meanAbsoluteError calculates the mean absolute error. The standard
// deviation is ignored in the calculation.
func meanAbsoluteError(observed, predicted, standardDeviation []float64) float64 {
	residuals := make([]float64, len(observed))
	for i := range observed {
		residuals[i] = math.Abs(observed[i] - predicted[i])
	}
	mean, _ := stats.Mean(residuals)
	return mean
}

// meanSquaredError calculates the mean squared error. The standard deviation
// is ignored in the calculation.
func meanSquaredError(observed, predicted, standardDeviation []float64) float64 {
	residuals := make([]float64, len(observed))
	for i := range observed {
		d := observed[i] - predicted[i]
		residuals[i] = d * d
	}
	mean, _ := stats.Mean(residuals)
	return mean
}

// meanAbsolutePercentageError calculates the mean absolute percentage error.
// The standard deviation is ignored in the calculation.
func meanAbsolutePercentageError(observed, predicted, standardDeviation []float64) float64 {
	ratios := make([]float64, len(observed))
	for i := range observed {
		ratios[i] = math.Abs(observed[i]-predicted[i]) / math.Max(mapeEpsilon, math.Abs(observed[i]))
	}
	mean, _ := stats.Mean(ratios)
	return mean
}

// r2Score calculates the coefficient of determination. The standard
// deviation is ignored in the calculation.
func r2Score(observed, predicted, standardDeviation []float64) float64 {
	return stat.RSquaredFrom(predicted, observed, nil)
}

// pearson calculates the Pearson correlation coefficient with predicted as
// the first argument. The standard deviation is ignored in the calculation.
func pearson(observed, predicted, standardDeviation []float64) float64 {
	return stat.Correlation(predicted, observed, nil)
}

// spearman calculates the Spearman rank correlation: both arrays are
// converted to fractional ranks (ties share their average rank) and the
// Pearson correlation of the ranks is returned. The standard deviation is
// ignored in the calculation.
func spearman(observed, predicted, standardDeviation []float64) float64 {
	return stat.Correlation(rankData(predicted), rankData(observed), nil)
}

// rankData assigns 1-based fractional ranks, averaging over ties.
func rankData(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// fisherExactP tests whether the model can distinguish the bottom half of
// the observations from the top half. The top n/2 indices of observed and
// predicted values form a 2x2 contingency table and the p-value of a
// one-sided ("greater") Fisher's exact test on it is returned. A low p-value
// indicates the model ranks high and low values consistently with the ground
// truth; a high p-value indicates no detectable ranking ability.
//
// Ties are broken by a stable ascending sort of the indices, so among equal
// values the earlier sample is ranked lower. The standard deviation is
// ignored in the calculation.
func fisherExactP(observed, predicted, standardDeviation []float64) float64 {
	n := len(observed)
	nHalf := n / 2
	topObs := topIndices(observed, nHalf)
	topEst := topIndices(predicted, nHalf)

	// Construct contingency table
	tp := 0
	for i := range topEst {
		if _, ok := topObs[i]; ok {
			tp++
		}
	}
	fp := nHalf - tp
	fn := nHalf - tp
	tn := (n - nHalf) - (nHalf - tp)

	return hypergeomGreaterP(tp, fp, fn, tn)
}

// topIndices returns the index set of the k largest values, ties resolved by
// stable ascending sort order.
func topIndices(values []float64, k int) map[int]struct{} {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	top := make(map[int]struct{}, k)
	for _, i := range idx[len(idx)-k:] {
		top[i] = struct{}{}
	}
	return top
}

// hypergeomGreaterP computes the one-sided ("greater") exact p-value for the
// 2x2 table [[tp fp] [fn tn]]: the hypergeometric upper tail P(X >= tp) with
// the table's marginals fixed.
func hypergeomGreaterP(tp, fp, fn, tn int) float64 {
	total := tp + fp + fn + tn
	successes := tp + fn // first column marginal
	draws := tp + fp     // first row marginal

	upper := successes
	if draws < successes {
		upper = draws
	}

	logTotal := combin.LogGeneralizedBinomial(float64(total), float64(draws))
	p := 0.0
	for x := tp; x <= upper; x++ {
		if draws-x > total-successes {
			continue
		}
		logProb := combin.LogGeneralizedBinomial(float64(successes), float64(x)) +
			combin.LogGeneralizedBinomial(float64(total-successes), float64(draws-x)) -
			logTotal
		p += math.Exp(logProb)
	}
	if p > 1 {
		p = 1
	}
	return p
}
