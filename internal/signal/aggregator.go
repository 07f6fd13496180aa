package signal

import (
	"fmt"
	"math"

	"SignalDesk/internal/domain/models"
)

// Weights holds the per-family aggregation weights. They must sum to 1.0.
type Weights struct {
	Technical  float64 `yaml:"technical"`
	Momentum   float64 `yaml:"momentum"`
	Volume     float64 `yaml:"volume"`
	Trend      float64 `yaml:"trend"`
	Volatility float64 `yaml:"volatility"`
}

// DefaultWeights returns the standard family weighting.
func DefaultWeights() Weights {
	return Weights{
		Technical:  0.30,
		Momentum:   0.25,
		Volume:     0.20,
		Trend:      0.15,
		Volatility: 0.10,
	}
}

// Validate enforces the weights-sum invariant.
func (w Weights) Validate() error {
	sum := w.Technical + w.Momentum + w.Volume + w.Trend + w.Volatility
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("signal weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// For returns the weight for a signal family.
func (w Weights) For(family string) float64 {
	switch family {
	case models.SignalTechnical:
		return w.Technical
	case models.SignalMomentum:
		return w.Momentum
	case models.SignalVolume:
		return w.Volume
	case models.SignalTrend:
		return w.Trend
	case models.SignalVolatility:
		return w.Volatility
	default:
		return 0
	}
}

// Thresholds hold the direction bounds applied to weighted and
// per-signal strengths.
type Thresholds struct {
	Bullish float64 `yaml:"bullish"`
	Bearish float64 `yaml:"bearish"`
}

// DefaultThresholds returns the standard direction bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{Bullish: 0.6, Bearish: 0.4}
}

// Aggregator combines family signals into one CombinedSignal using
// configured weights and direction thresholds.
type Aggregator struct {
	weights    Weights
	thresholds Thresholds
}

func NewAggregator(w Weights, t Thresholds) (*Aggregator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if t.Bullish <= t.Bearish {
		return nil, fmt.Errorf("bullish threshold must exceed bearish, got %v <= %v", t.Bullish, t.Bearish)
	}
	return &Aggregator{weights: w, thresholds: t}, nil
}

// Aggregate computes the weighted strength/confidence, direction and
// consensus. A signal that produced no indicator values contributes a
// neutral strength of 0.5 instead of its raw strength.
func (a *Aggregator) Aggregate(signals []models.Signal) models.CombinedSignal {
	var wSum, strength, confidence float64
	cons := models.Consensus{}

	for _, s := range signals {
		st := s.Strength
		if !s.Computed() {
			st = 0.5
		}
		w := a.weights.For(s.Type)
		wSum += w
		strength += st * w
		confidence += s.Confidence * w

		switch {
		case st > a.thresholds.Bullish:
			cons.Bullish++
		case st < a.thresholds.Bearish:
			cons.Bearish++
		default:
			cons.Neutral++
		}
	}

	if wSum > 0 {
		strength /= wSum
		confidence /= wSum
	}

	total := len(signals)
	if total > 0 {
		agree := cons.Bullish
		if cons.Bearish > agree {
			agree = cons.Bearish
		}
		cons.Agreement = float64(agree) / float64(total)
	}

	direction := models.DirectionNeutral
	switch {
	case strength > a.thresholds.Bullish:
		direction = models.DirectionBullish
	case strength < a.thresholds.Bearish:
		direction = models.DirectionBearish
	}

	return models.CombinedSignal{
		Direction:  direction,
		Strength:   strength,
		Confidence: confidence,
		Consensus:  cons,
		Signals:    signals,
	}
}

// --- shared generator helpers ---

func setIndicator(m map[string]*float64, name string, v float64, ok bool) {
	if !ok {
		m[name] = nil
		return
	}
	val := v
	m[name] = &val
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
