package indicators

import (
	"math"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func barsFromCloses(closes []float64) []models.Bar {
	out := make([]models.Bar, len(closes))
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = models.Bar{
			Date:   d.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func TestSMAConstantSeries(t *testing.T) {
	closes := []float64{5, 5, 5, 5, 5}
	got, ok := SMA(closes, 5)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 5 {
		t.Fatalf("SMA of constant series = %v, want 5", got)
	}
}

func TestSMAShortWindow(t *testing.T) {
	if _, ok := SMA([]float64{1, 2, 3}, 4); ok {
		t.Fatalf("expected not ok for short window")
	}
	if _, ok := SMA(nil, 1); ok {
		t.Fatalf("expected not ok for empty input")
	}
}

func TestSMATrailingMean(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6}
	got, ok := SMA(closes, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 5 {
		t.Fatalf("SMA = %v, want 5", got)
	}
}

func TestEMASeedEqualsSMA(t *testing.T) {
	closes := []float64{2, 4, 6, 8}
	got, ok := EMA(closes, 4)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 5 {
		t.Fatalf("EMA with len==period should equal SMA seed, got %v", got)
	}
}

func TestEMARecurrence(t *testing.T) {
	closes := []float64{1, 2, 3, 4}
	// seed = SMA(1,2,3) = 2; k = 0.5; ema = 4*0.5 + 2*0.5 = 3
	got, ok := EMA(closes, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if !almostEqual(got, 3, 1e-12) {
		t.Fatalf("EMA = %v, want 3", got)
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{10, 11, 9, 12, 8, 13, 7, 14, 6, 15, 5, 16, 4, 17, 3}
	got, ok := RSI(closes, 14)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got < 0 || got > 100 {
		t.Fatalf("RSI out of bounds: %v", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	got, ok := RSI(risingCloses(20), 14)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 100 {
		t.Fatalf("RSI of non-negative diffs = %v, want 100", got)
	}
}

func TestRSIShortWindow(t *testing.T) {
	if _, ok := RSI(risingCloses(14), 14); ok {
		t.Fatalf("RSI needs period+1 closes")
	}
}

func TestMACDNeedsFullSignalWindow(t *testing.T) {
	if _, ok := MACD(risingCloses(33)); ok {
		t.Fatalf("expected not ok for 33 closes")
	}
	res, ok := MACD(risingCloses(34))
	if !ok {
		t.Fatalf("expected ok for 34 closes")
	}
	if !almostEqual(res.Histogram, res.MACD-res.Signal, 1e-12) {
		t.Fatalf("histogram must equal macd-signal")
	}
}

func TestBollingerBandWidth(t *testing.T) {
	closes := risingCloses(25)
	res, ok := Bollinger(closes, 20)
	if !ok {
		t.Fatalf("expected ok")
	}
	mid, _ := SMA(closes, 20)
	sd := (res.Upper - res.Middle) / 2
	if !almostEqual(res.Upper-res.Lower, 4*sd, 1e-9) {
		t.Fatalf("upper-lower = %v, want %v", res.Upper-res.Lower, 4*sd)
	}
	if res.Middle != mid {
		t.Fatalf("middle = %v, want SMA %v", res.Middle, mid)
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 42
	}
	res, ok := Bollinger(closes, 20)
	if !ok {
		t.Fatalf("expected ok")
	}
	if res.Upper != 42 || res.Lower != 42 {
		t.Fatalf("bands of constant series should collapse, got %+v", res)
	}
}

func TestVolatilityConstantSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	got, ok := Volatility(closes, 30)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 0 {
		t.Fatalf("volatility of constant series = %v, want 0", got)
	}
}

func TestROCAndMomentum(t *testing.T) {
	closes := risingCloses(20)
	roc, ok := ROC(closes, 10)
	if !ok {
		t.Fatalf("expected ok")
	}
	want := (119.0 - 109.0) / 109.0 * 100
	if !almostEqual(roc, want, 1e-9) {
		t.Fatalf("ROC = %v, want %v", roc, want)
	}
	mom, ok := Momentum(closes, 10)
	if !ok || mom != 10 {
		t.Fatalf("Momentum = %v ok=%v, want 10", mom, ok)
	}
}

func TestStochasticTopOfRange(t *testing.T) {
	bars := barsFromCloses(risingCloses(30))
	res, ok := Stochastic(bars, 14, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if res.K < 90 {
		t.Fatalf("rising closes should put %%K near the top, got %v", res.K)
	}
	if res.D < 0 || res.D > 100 {
		t.Fatalf("%%D out of bounds: %v", res.D)
	}
}

func TestOBVRising(t *testing.T) {
	bars := barsFromCloses(risingCloses(10))
	got, ok := OBV(bars)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 9000 {
		t.Fatalf("OBV = %v, want 9000 (9 up days x 1000)", got)
	}
}

func TestVWAPWithinRange(t *testing.T) {
	bars := barsFromCloses(risingCloses(30))
	got, ok := VWAP(bars, 20)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got < bars[10].Low || got > bars[29].High {
		t.Fatalf("VWAP %v outside window price range", got)
	}
}

func TestATRPositive(t *testing.T) {
	bars := barsFromCloses(risingCloses(30))
	got, ok := ATR(bars, 14)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got <= 0 {
		t.Fatalf("ATR should be positive for moving prices, got %v", got)
	}
}

func TestADXStrongTrend(t *testing.T) {
	bars := barsFromCloses(risingCloses(60))
	got, ok := ADX(bars, 14)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got < 50 {
		t.Fatalf("ADX of a one-way trend should be high, got %v", got)
	}
	if _, ok := ADX(bars[:28], 14); ok {
		t.Fatalf("ADX needs 2*period+1 bars")
	}
}

func TestTrendSlopeAndR2(t *testing.T) {
	closes := risingCloses(50)
	slope, ok := TrendSlope(closes, 50)
	if !ok {
		t.Fatalf("expected ok")
	}
	if !almostEqual(slope, 1, 1e-9) {
		t.Fatalf("slope = %v, want 1", slope)
	}
	r2, ok := TrendR2(closes, 50)
	if !ok || !almostEqual(r2, 1, 1e-9) {
		t.Fatalf("R2 = %v ok=%v, want 1", r2, ok)
	}
}

func TestSupportResistance(t *testing.T) {
	closes := []float64{100, 120, 90, 110}
	s, _ := Support(closes)
	r, _ := Resistance(closes)
	if !almostEqual(s, 90*0.95, 1e-9) {
		t.Fatalf("support = %v", s)
	}
	if !almostEqual(r, 120*1.05, 1e-9) {
		t.Fatalf("resistance = %v", r)
	}
}
