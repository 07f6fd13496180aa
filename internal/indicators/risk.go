package indicators

import (
	"math"
	"sort"
)

// Returns computes one-step percentage returns over the full close series.
func Returns(closes []float64) []float64 {
	return pctReturns(closes)
}

// MaxDrawdown returns the largest peak-to-trough decline over the window
// as a fraction of the peak.
func MaxDrawdown(closes []float64) (float64, bool) {
	if len(closes) < 2 {
		return 0, false
	}
	peak := closes[0]
	maxDD := 0.0
	for _, c := range closes[1:] {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (peak - c) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD, true
}

// Sharpe returns mean return over return stddev, unannualized.
func Sharpe(closes []float64) (float64, bool) {
	rets := pctReturns(closes)
	if len(rets) < 2 {
		return 0, false
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	sd := stddev(rets, mean)
	if sd == 0 {
		return 0, false
	}
	return mean / sd, true
}

// Beta regresses asset returns on benchmark returns: cov(a,b)/var(b).
// Both series are aligned on their common tail. ok=false when the
// benchmark is missing, too short, or has zero variance.
func Beta(assetCloses, benchCloses []float64) (float64, bool) {
	n := len(assetCloses)
	if len(benchCloses) < n {
		n = len(benchCloses)
	}
	if n < 3 {
		return 0, false
	}
	a := pctReturns(assetCloses[len(assetCloses)-n:])
	b := pctReturns(benchCloses[len(benchCloses)-n:])
	if len(a) != len(b) || len(a) < 2 {
		return 0, false
	}
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(len(a))
	meanB /= float64(len(b))
	var cov, varB float64
	for i := range a {
		cov += (a[i] - meanA) * (b[i] - meanB)
		varB += (b[i] - meanB) * (b[i] - meanB)
	}
	if varB == 0 {
		return 0, false
	}
	return cov / varB, true
}

// HistVaR estimates the 1-day historical value at risk at the given
// confidence level (e.g. 0.95), returned as a positive loss fraction.
func HistVaR(closes []float64, confidence float64) (float64, bool) {
	rets := pctReturns(closes)
	if len(rets) < 2 || confidence <= 0 || confidence >= 1 {
		return 0, false
	}
	sorted := make([]float64, len(rets))
	copy(sorted, rets)
	sort.Float64s(sorted)
	idx := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	v := -sorted[idx]
	if v < 0 {
		v = 0
	}
	return v, true
}
