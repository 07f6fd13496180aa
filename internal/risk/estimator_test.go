package risk

import (
	"math"
	"testing"

	"SignalDesk/internal/domain/models"
)

func closesSeq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i%7) + float64(i)*0.2
	}
	return out
}

func TestAssessBetaNilWithoutBenchmark(t *testing.T) {
	e := NewEstimator(DefaultConfig())
	got := e.Assess(closesSeq(60), nil, models.CombinedSignal{Strength: 0.7, Confidence: 0.8})
	if got.Beta != nil {
		t.Fatalf("beta = %v, want nil without benchmark", *got.Beta)
	}
}

func TestAssessBetaWithBenchmark(t *testing.T) {
	e := NewEstimator(DefaultConfig())
	closes := closesSeq(60)
	got := e.Assess(closes, closes, models.CombinedSignal{Strength: 0.7, Confidence: 0.8})
	if got.Beta == nil {
		t.Fatalf("beta missing with benchmark supplied")
	}
	if math.Abs(*got.Beta-1) > 1e-9 {
		t.Fatalf("beta vs self = %v, want 1", *got.Beta)
	}
}

func TestAssessExpectedReturnSign(t *testing.T) {
	e := NewEstimator(DefaultConfig())
	closes := closesSeq(60)
	bull := e.Assess(closes, nil, models.CombinedSignal{Strength: 0.9, Confidence: 0.8})
	bear := e.Assess(closes, nil, models.CombinedSignal{Strength: 0.1, Confidence: 0.8})
	if bull.ExpectedReturn <= 0 {
		t.Fatalf("bullish expected return = %v, want > 0", bull.ExpectedReturn)
	}
	if bear.ExpectedReturn >= 0 {
		t.Fatalf("bearish expected return = %v, want < 0", bear.ExpectedReturn)
	}
}

func TestAssessConfidenceIntervalContainsEstimate(t *testing.T) {
	e := NewEstimator(DefaultConfig())
	got := e.Assess(closesSeq(60), nil, models.CombinedSignal{Strength: 0.7, Confidence: 0.8})
	ci := got.ConfidenceInterval
	if got.ExpectedReturn < ci.Lower || got.ExpectedReturn > ci.Upper {
		t.Fatalf("expected return %v outside interval [%v, %v]", got.ExpectedReturn, ci.Lower, ci.Upper)
	}
	// higher confidence narrows the interval
	tight := e.Assess(closesSeq(60), nil, models.CombinedSignal{Strength: 0.7, Confidence: 0.95})
	if (tight.ConfidenceInterval.Upper - tight.ConfidenceInterval.Lower) > (ci.Upper - ci.Lower) {
		t.Fatalf("interval did not narrow with higher confidence")
	}
}

func TestNewEstimatorRejectsBadQuantile(t *testing.T) {
	e := NewEstimator(Config{VaRConfidence: 2})
	got := e.Assess(closesSeq(60), nil, models.CombinedSignal{Strength: 0.6, Confidence: 0.7})
	if got.ValueAtRisk < 0 {
		t.Fatalf("VaR must be non-negative, got %v", got.ValueAtRisk)
	}
}
