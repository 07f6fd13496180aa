package recommend

import (
	"math"
	"testing"

	"SignalDesk/internal/domain/models"
)

func combined(direction string, strength, confidence float64) models.CombinedSignal {
	return models.CombinedSignal{Direction: direction, Strength: strength, Confidence: confidence}
}

func TestBuyEntryOnly(t *testing.T) {
	e := NewEngine(DefaultConfig())
	recs := e.Recommend(
		combined(models.DirectionBullish, 0.8, 0.85),
		models.RiskAssessment{Volatility: 0.1},
		95, 210,
	)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want exactly 1", len(recs))
	}
	r := recs[0]
	if r.Type != models.RecommendationEntry || r.Action != "buy" {
		t.Fatalf("unexpected recommendation %+v", r)
	}
	// min(0.05, 0.02/0.1) = 0.05
	if r.PositionSize != 0.05 {
		t.Fatalf("position size = %v, want 0.05", r.PositionSize)
	}
	if r.StopLoss != 0.2 {
		t.Fatalf("stop loss = %v, want 2x volatility", r.StopLoss)
	}
	if math.Abs(r.TakeProfit-3*0.1*0.8) > 1e-12 {
		t.Fatalf("take profit = %v", r.TakeProfit)
	}
}

func TestSellMirrorsBuy(t *testing.T) {
	e := NewEngine(DefaultConfig())
	recs := e.Recommend(
		combined(models.DirectionBearish, 0.2, 0.8),
		models.RiskAssessment{Volatility: 0.5},
		95, 210,
	)
	var entry *models.Recommendation
	for i := range recs {
		if recs[i].Type == models.RecommendationEntry {
			entry = &recs[i]
		}
	}
	if entry == nil || entry.Action != "sell" {
		t.Fatalf("expected sell entry, got %+v", recs)
	}
	// min(0.05, 0.02/0.5) = 0.04, then scaled by 0.7 for high volatility
	if math.Abs(entry.PositionSize-0.04*0.7) > 1e-12 {
		t.Fatalf("position size = %v, want 0.028", entry.PositionSize)
	}
}

func TestHighVolatilityEmitsReduce(t *testing.T) {
	e := NewEngine(DefaultConfig())
	recs := e.Recommend(
		combined(models.DirectionNeutral, 0.5, 0.6),
		models.RiskAssessment{Volatility: 0.35},
		95, 210,
	)
	foundReduce, foundHold := false, false
	for _, r := range recs {
		if r.Type == models.RecommendationRisk && r.Action == "reduce_position" {
			foundReduce = true
		}
		if r.Type == models.RecommendationHold {
			foundHold = true
		}
	}
	if !foundReduce {
		t.Fatalf("reduce_position missing: %+v", recs)
	}
	if !foundHold {
		t.Fatalf("neutral direction must emit hold: %+v", recs)
	}
}

func TestLowVolatilityNoReduce(t *testing.T) {
	e := NewEngine(DefaultConfig())
	recs := e.Recommend(
		combined(models.DirectionBullish, 0.8, 0.85),
		models.RiskAssessment{Volatility: 0.3},
		95, 210,
	)
	for _, r := range recs {
		if r.Type == models.RecommendationRisk {
			t.Fatalf("volatility at the threshold must not trigger reduce: %+v", r)
		}
	}
}

func TestHoldOnLowConfidence(t *testing.T) {
	e := NewEngine(DefaultConfig())
	recs := e.Recommend(
		combined(models.DirectionBullish, 0.65, 0.4),
		models.RiskAssessment{Volatility: 0.1},
		95, 210,
	)
	if len(recs) != 1 || recs[0].Type != models.RecommendationHold {
		t.Fatalf("expected single hold, got %+v", recs)
	}
	wl := recs[0].WatchLevels
	if wl == nil || wl.Support != 95 || wl.Resistance != 210 {
		t.Fatalf("watch levels missing or wrong: %+v", wl)
	}
}
