// Package indicators implements pure technical indicator functions over
// price/volume windows. All functions assume ascending chronological order,
// never mutate their input, and report ok=false instead of panicking when
// the window is shorter than the indicator minimum.
package indicators

import (
	"math"

	"SignalDesk/internal/domain/models"
)

// SMA returns the arithmetic mean of the last period closes.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// EMA returns the exponential moving average: SMA seed over the first
// period values, then ema = close*k + ema*(1-k) with k = 2/(period+1).
func EMA(closes []float64, period int) (float64, bool) {
	s, ok := EMASeries(closes, period)
	if !ok {
		return 0, false
	}
	return s[len(s)-1], true
}

// EMASeries returns the EMA value for every index from period-1 onward.
// The result has len(closes)-period+1 entries.
func EMASeries(closes []float64, period int) ([]float64, bool) {
	if period <= 0 || len(closes) < period {
		return nil, false
	}
	k := 2.0 / float64(period+1)
	seed := 0.0
	for _, c := range closes[:period] {
		seed += c
	}
	ema := seed / float64(period)
	out := make([]float64, 0, len(closes)-period+1)
	out = append(out, ema)
	for _, c := range closes[period:] {
		ema = c*k + ema*(1-k)
		out = append(out, ema)
	}
	return out, true
}

// RSI computes the relative strength index over the most recent period
// one-step differences using Wilder-style simple averages. Returns 100
// when the average loss is zero.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	var gain, loss float64
	tail := closes[len(closes)-period-1:]
	for i := 1; i < len(tail); i++ {
		d := tail[i] - tail[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes EMA(12)-EMA(26) with a 9-period signal EMA over the macd
// series. Needs at least 34 closes so the signal line has a full window.
func MACD(closes []float64) (MACDResult, bool) {
	const (
		fast   = 12
		slow   = 26
		signal = 9
	)
	if len(closes) < slow+signal-1 {
		return MACDResult{}, false
	}
	fastS, _ := EMASeries(closes, fast)
	slowS, _ := EMASeries(closes, slow)
	// align: slowS[i] corresponds to fastS[i+slow-fast]
	macdSeries := make([]float64, len(slowS))
	off := slow - fast
	for i := range slowS {
		macdSeries[i] = fastS[i+off] - slowS[i]
	}
	sigS, ok := EMASeries(macdSeries, signal)
	if !ok {
		return MACDResult{}, false
	}
	m := macdSeries[len(macdSeries)-1]
	s := sigS[len(sigS)-1]
	return MACDResult{MACD: m, Signal: s, Histogram: m - s}, true
}

// BollingerResult holds the three Bollinger band levels.
type BollingerResult struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes bands at SMA(period) +/- 2 population standard
// deviations over the last period closes.
func Bollinger(closes []float64, period int) (BollingerResult, bool) {
	mid, ok := SMA(closes, period)
	if !ok {
		return BollingerResult{}, false
	}
	sd := stddev(closes[len(closes)-period:], mid)
	return BollingerResult{
		Upper:  mid + 2*sd,
		Middle: mid,
		Lower:  mid - 2*sd,
	}, true
}

// Volatility annualizes the standard deviation of the last period-1
// one-step percentage returns by sqrt(252).
func Volatility(closes []float64, period int) (float64, bool) {
	if period < 2 || len(closes) < period {
		return 0, false
	}
	rets := pctReturns(closes[len(closes)-period:])
	if len(rets) == 0 {
		return 0, false
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	return stddev(rets, mean) * math.Sqrt(252), true
}

// ROC returns the rate of change over period bars, in percent.
func ROC(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	prev := closes[len(closes)-1-period]
	if prev == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - prev) / prev * 100, true
}

// Momentum returns the absolute price change over period bars.
func Momentum(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	return closes[len(closes)-1] - closes[len(closes)-1-period], true
}

// ATR computes the average true range with Wilder smoothing: the first
// value is a simple mean of the first period true ranges.
func ATR(bars []models.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 {
		return 0, false
	}
	trs := trueRanges(bars)
	atr := 0.0
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)
	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, true
}

// ADX computes the average directional index with Wilder smoothing of
// +DM, -DM and TR, then a Wilder average over the DX series. Needs at
// least 2*period+1 bars so the DX average has a full window.
func ADX(bars []models.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < 2*period+1 {
		return 0, false
	}
	n := len(bars) - 1
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trs := trueRanges(bars)
	for i := 1; i < len(bars); i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	// Wilder smoothing: seed with plain sums, then s = s - s/period + x.
	smooth := func(xs []float64) []float64 {
		out := make([]float64, 0, len(xs)-period+1)
		s := 0.0
		for _, x := range xs[:period] {
			s += x
		}
		out = append(out, s)
		for _, x := range xs[period:] {
			s = s - s/float64(period) + x
			out = append(out, s)
		}
		return out
	}
	sTR := smooth(trs)
	sPlus := smooth(plusDM)
	sMinus := smooth(minusDM)

	dx := make([]float64, len(sTR))
	for i := range sTR {
		if sTR[i] == 0 {
			continue
		}
		pdi := sPlus[i] / sTR[i] * 100
		mdi := sMinus[i] / sTR[i] * 100
		if pdi+mdi == 0 {
			continue
		}
		dx[i] = math.Abs(pdi-mdi) / (pdi + mdi) * 100
	}
	if len(dx) < period {
		return 0, false
	}
	adx := 0.0
	for _, v := range dx[:period] {
		adx += v
	}
	adx /= float64(period)
	for _, v := range dx[period:] {
		adx = (adx*float64(period-1) + v) / float64(period)
	}
	return adx, true
}

// StochasticResult holds the %K and %D oscillator values.
type StochasticResult struct {
	K float64
	D float64
}

// Stochastic computes %K over kPeriod bars and %D as the mean of the
// last dPeriod %K values.
func Stochastic(bars []models.Bar, kPeriod, dPeriod int) (StochasticResult, bool) {
	if kPeriod <= 0 || dPeriod <= 0 || len(bars) < kPeriod+dPeriod-1 {
		return StochasticResult{}, false
	}
	kAt := func(end int) (float64, bool) {
		win := bars[end-kPeriod : end]
		lo := win[0].Low
		hi := win[0].High
		for _, b := range win[1:] {
			if b.Low < lo {
				lo = b.Low
			}
			if b.High > hi {
				hi = b.High
			}
		}
		if hi == lo {
			return 50, true
		}
		return (win[len(win)-1].Close - lo) / (hi - lo) * 100, true
	}
	ks := make([]float64, 0, dPeriod)
	for end := len(bars) - dPeriod + 1; end <= len(bars); end++ {
		k, ok := kAt(end)
		if !ok {
			return StochasticResult{}, false
		}
		ks = append(ks, k)
	}
	d := 0.0
	for _, k := range ks {
		d += k
	}
	d /= float64(len(ks))
	return StochasticResult{K: ks[len(ks)-1], D: d}, true
}

// OBV computes on-balance volume over the full window.
func OBV(bars []models.Bar) (float64, bool) {
	if len(bars) < 2 {
		return 0, false
	}
	obv := 0.0
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv += float64(bars[i].Volume)
		case bars[i].Close < bars[i-1].Close:
			obv -= float64(bars[i].Volume)
		}
	}
	return obv, true
}

// VWAP computes the volume-weighted average of the typical price over
// the last period bars.
func VWAP(bars []models.Bar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period {
		return 0, false
	}
	var pv, vol float64
	for _, b := range bars[len(bars)-period:] {
		tp := (b.High + b.Low + b.Close) / 3
		pv += tp * float64(b.Volume)
		vol += float64(b.Volume)
	}
	if vol == 0 {
		return 0, false
	}
	return pv / vol, true
}

// TrendSlope fits a least-squares line over the last period closes and
// returns its slope per bar.
func TrendSlope(closes []float64, period int) (float64, bool) {
	if period < 2 || len(closes) < period {
		return 0, false
	}
	win := closes[len(closes)-period:]
	n := float64(period)
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range win {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / den, true
}

// TrendR2 returns the coefficient of determination of the least-squares
// fit over the last period closes.
func TrendR2(closes []float64, period int) (float64, bool) {
	slope, ok := TrendSlope(closes, period)
	if !ok {
		return 0, false
	}
	win := closes[len(closes)-period:]
	meanY := 0.0
	for _, y := range win {
		meanY += y
	}
	meanY /= float64(period)
	meanX := float64(period-1) / 2
	intercept := meanY - slope*meanX
	var ssRes, ssTot float64
	for i, y := range win {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		// flat series fits itself exactly
		return 1, true
	}
	return 1 - ssRes/ssTot, true
}

// Support returns min(closes)*0.95 over the window.
func Support(closes []float64) (float64, bool) {
	if len(closes) == 0 {
		return 0, false
	}
	lo := closes[0]
	for _, c := range closes[1:] {
		if c < lo {
			lo = c
		}
	}
	return lo * 0.95, true
}

// Resistance returns max(closes)*1.05 over the window.
func Resistance(closes []float64) (float64, bool) {
	if len(closes) == 0 {
		return 0, false
	}
	hi := closes[0]
	for _, c := range closes[1:] {
		if c > hi {
			hi = c
		}
	}
	return hi * 1.05, true
}

func trueRanges(bars []models.Bar) []float64 {
	out := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr := hl
		if hc > tr {
			tr = hc
		}
		if lc > tr {
			tr = lc
		}
		out = append(out, tr)
	}
	return out
}

func pctReturns(closes []float64) []float64 {
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, (closes[i]-closes[i-1])/closes[i-1])
	}
	return out
}

// stddev is the population standard deviation around mean.
func stddev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, x := range xs {
		d := x - mean
		s += d * d
	}
	return math.Sqrt(s / float64(len(xs)))
}
