package signal

import (
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

func risingBars(n int) []models.Bar {
	out := make([]models.Bar, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		c := 100 + float64(i)
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

func allGenerators() []interface {
	Family() string
	Generate(bars []models.Bar) (models.Signal, error)
} {
	conf := NewStaticConfidence(nil)
	return []interface {
		Family() string
		Generate(bars []models.Bar) (models.Signal, error)
	}{
		NewTechnicalGenerator(conf),
		NewMomentumGenerator(conf),
		NewVolumeGenerator(conf),
		NewVolatilityGenerator(conf),
		NewTrendGenerator(conf),
	}
}

func TestGeneratorsBullishOnRisingWindow(t *testing.T) {
	bars := risingBars(100)
	for _, g := range allGenerators() {
		s, err := g.Generate(bars)
		if err != nil {
			t.Fatalf("%s: %v", g.Family(), err)
		}
		if s.Strength <= 0.5 {
			t.Fatalf("%s: strength %v on a rising window, want > 0.5", s.Type, s.Strength)
		}
		if s.Strength > 1 {
			t.Fatalf("%s: strength %v out of bounds", s.Type, s.Strength)
		}
	}
}

func TestTechnicalRSISaturatesOnRisingWindow(t *testing.T) {
	g := NewTechnicalGenerator(NewStaticConfidence(nil))
	s, err := g.Generate(risingBars(100))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	rsi := s.Indicators["rsi_14"]
	if rsi == nil {
		t.Fatalf("rsi_14 missing")
	}
	if *rsi != 100 {
		t.Fatalf("rsi_14 = %v, want 100 for all-gain window", *rsi)
	}
	if s.Strength != 1.0 {
		t.Fatalf("technical strength = %v, want clamped 1.0", s.Strength)
	}
}

func TestTrendStrengthNearOneOnLinearTrend(t *testing.T) {
	g := NewTrendGenerator(NewStaticConfidence(nil))
	s, err := g.Generate(risingBars(100))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if s.Strength < 0.95 {
		t.Fatalf("trend strength = %v, want near 1.0", s.Strength)
	}
}

func TestGeneratorsNilIndicatorsOnShortWindow(t *testing.T) {
	g := NewTechnicalGenerator(NewStaticConfidence(nil))
	s, err := g.Generate(risingBars(10))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, name := range []string{"sma_20", "sma_50", "rsi_14", "macd", "bb_upper"} {
		if s.Indicators[name] != nil {
			t.Fatalf("%s should be nil for a 10-bar window", name)
		}
	}
	if s.Computed() {
		t.Fatalf("signal with only nil indicators must report uncomputed")
	}
	if s.Strength != 0.5 {
		t.Fatalf("strength = %v, want neutral 0.5", s.Strength)
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	bars := risingBars(100)
	for _, g := range allGenerators() {
		a, _ := g.Generate(bars)
		b, _ := g.Generate(bars)
		if a.Strength != b.Strength || a.Confidence != b.Confidence {
			t.Fatalf("%s: generator output differs across identical calls", g.Family())
		}
	}
}

func TestStaticConfidenceDefaults(t *testing.T) {
	c := NewStaticConfidence(nil)
	want := map[string]float64{
		models.SignalTechnical:  0.80,
		models.SignalMomentum:   0.75,
		models.SignalVolume:     0.70,
		models.SignalVolatility: 0.65,
		models.SignalTrend:      0.85,
	}
	for f, v := range want {
		if got := c.Confidence(f); got != v {
			t.Fatalf("confidence(%s) = %v, want %v", f, got, v)
		}
	}
}

func TestStaticConfidenceOverride(t *testing.T) {
	c := NewStaticConfidence(map[string]float64{models.SignalTrend: 0.5})
	if got := c.Confidence(models.SignalTrend); got != 0.5 {
		t.Fatalf("override ignored, got %v", got)
	}
	if got := c.Confidence(models.SignalTechnical); got != 0.80 {
		t.Fatalf("default lost, got %v", got)
	}
}
