package signal

import (
	"math"
	"testing"

	"SignalDesk/internal/domain/models"
)

func sig(family string, strength, confidence float64) models.Signal {
	v := 1.0
	return models.Signal{
		Type:       family,
		Indicators: map[string]*float64{"x": &v},
		Strength:   strength,
		Confidence: confidence,
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
	sum := 0.0
	w := DefaultWeights()
	for _, f := range models.SignalFamilies {
		sum += w.For(f)
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Fatalf("family weights sum = %v, want 1.0", sum)
	}
}

func TestWeightsValidateRejectsBadSum(t *testing.T) {
	w := Weights{Technical: 0.5, Momentum: 0.5, Volume: 0.5}
	if err := w.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := NewAggregator(w, DefaultThresholds()); err == nil {
		t.Fatalf("aggregator must reject invalid weights")
	}
}

func TestAggregateAllBullish(t *testing.T) {
	agg, err := NewAggregator(DefaultWeights(), DefaultThresholds())
	if err != nil {
		t.Fatalf("new aggregator: %v", err)
	}
	signals := []models.Signal{
		sig(models.SignalTechnical, 0.9, 0.80),
		sig(models.SignalMomentum, 0.8, 0.75),
		sig(models.SignalVolume, 0.7, 0.70),
		sig(models.SignalVolatility, 0.65, 0.65),
		sig(models.SignalTrend, 0.9, 0.85),
	}
	got := agg.Aggregate(signals)
	if got.Direction != models.DirectionBullish {
		t.Fatalf("direction = %s, want bullish", got.Direction)
	}
	if got.Strength < 0 || got.Strength > 1 {
		t.Fatalf("strength out of [0,1]: %v", got.Strength)
	}
	if got.Consensus.Bullish != 5 || got.Consensus.Agreement != 1.0 {
		t.Fatalf("consensus = %+v, want 5 bullish agreement 1.0", got.Consensus)
	}
}

func TestAggregateBearishThreshold(t *testing.T) {
	agg, _ := NewAggregator(DefaultWeights(), DefaultThresholds())
	signals := []models.Signal{
		sig(models.SignalTechnical, 0.2, 0.80),
		sig(models.SignalMomentum, 0.3, 0.75),
		sig(models.SignalVolume, 0.3, 0.70),
		sig(models.SignalVolatility, 0.5, 0.65),
		sig(models.SignalTrend, 0.2, 0.85),
	}
	got := agg.Aggregate(signals)
	if got.Direction != models.DirectionBearish {
		t.Fatalf("direction = %s, want bearish", got.Direction)
	}
	if got.Consensus.Bearish != 4 || got.Consensus.Neutral != 1 {
		t.Fatalf("consensus = %+v", got.Consensus)
	}
	if got.Consensus.Agreement != 0.8 {
		t.Fatalf("agreement = %v, want 0.8", got.Consensus.Agreement)
	}
}

func TestAggregateNeutralDefaultForUncomputedSignal(t *testing.T) {
	agg, _ := NewAggregator(DefaultWeights(), DefaultThresholds())
	empty := models.Signal{
		Type:       models.SignalTechnical,
		Indicators: map[string]*float64{"sma_20": nil, "rsi_14": nil},
		// raw strength must be ignored because nothing was computed
		Strength:   1.0,
		Confidence: 0.80,
	}
	signals := []models.Signal{
		empty,
		sig(models.SignalMomentum, 0.5, 0.75),
		sig(models.SignalVolume, 0.5, 0.70),
		sig(models.SignalVolatility, 0.5, 0.65),
		sig(models.SignalTrend, 0.5, 0.85),
	}
	got := agg.Aggregate(signals)
	if !almostEqual(got.Strength, 0.5, 1e-12) {
		t.Fatalf("strength = %v, want 0.5 with neutral default", got.Strength)
	}
	if got.Direction != models.DirectionNeutral {
		t.Fatalf("direction = %s, want neutral", got.Direction)
	}
	if got.Consensus.Neutral != 5 {
		t.Fatalf("uncomputed signal must count neutral, got %+v", got.Consensus)
	}
}

func TestAggregateWeightedAverage(t *testing.T) {
	agg, _ := NewAggregator(DefaultWeights(), DefaultThresholds())
	signals := []models.Signal{
		sig(models.SignalTechnical, 1.0, 0.80),
		sig(models.SignalMomentum, 0.0, 0.75),
		sig(models.SignalVolume, 0.5, 0.70),
		sig(models.SignalVolatility, 0.5, 0.65),
		sig(models.SignalTrend, 0.5, 0.85),
	}
	got := agg.Aggregate(signals)
	want := 1.0*0.30 + 0.0*0.25 + 0.5*0.20 + 0.5*0.10 + 0.5*0.15
	if !almostEqual(got.Strength, want, 1e-12) {
		t.Fatalf("strength = %v, want %v", got.Strength, want)
	}
	wantConf := 0.80*0.30 + 0.75*0.25 + 0.70*0.20 + 0.65*0.10 + 0.85*0.15
	if !almostEqual(got.Confidence, wantConf, 1e-12) {
		t.Fatalf("confidence = %v, want %v", got.Confidence, wantConf)
	}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
