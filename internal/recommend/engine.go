// Package recommend maps a combined signal and risk assessment to zero
// or more actionable recommendations. Rules fire independently.
package recommend

import (
	"fmt"

	"SignalDesk/internal/domain/models"
)

// Config names every decision threshold so tests and deployments can
// vary them without touching the rules.
type Config struct {
	// EntryConfidence gates entry recommendations.
	EntryConfidence float64 `yaml:"entry_confidence"`
	// HighVolatility triggers the position-reduction rule.
	HighVolatility float64 `yaml:"high_volatility"`
	// HoldConfidence below which a wait recommendation is emitted.
	HoldConfidence float64 `yaml:"hold_confidence"`
	// MaxPositionSize caps position sizing regardless of volatility.
	MaxPositionSize float64 `yaml:"max_position_size"`
	// RiskBudget is divided by volatility to size positions.
	RiskBudget float64 `yaml:"risk_budget"`
	// ReduceFactor scales entry sizes when volatility is high.
	ReduceFactor float64 `yaml:"reduce_factor"`
}

// DefaultConfig returns the standard rule thresholds.
func DefaultConfig() Config {
	return Config{
		EntryConfidence: 0.7,
		HighVolatility:  0.3,
		HoldConfidence:  0.5,
		MaxPositionSize: 0.05,
		RiskBudget:      0.02,
		ReduceFactor:    0.7,
	}
}

// Engine evaluates the recommendation rules.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	d := DefaultConfig()
	if cfg.EntryConfidence == 0 {
		cfg.EntryConfidence = d.EntryConfidence
	}
	if cfg.HighVolatility == 0 {
		cfg.HighVolatility = d.HighVolatility
	}
	if cfg.HoldConfidence == 0 {
		cfg.HoldConfidence = d.HoldConfidence
	}
	if cfg.MaxPositionSize == 0 {
		cfg.MaxPositionSize = d.MaxPositionSize
	}
	if cfg.RiskBudget == 0 {
		cfg.RiskBudget = d.RiskBudget
	}
	if cfg.ReduceFactor == 0 {
		cfg.ReduceFactor = d.ReduceFactor
	}
	return &Engine{cfg: cfg}
}

// Recommend evaluates all rules against the combined signal and risk
// assessment. support/resistance feed the hold watch levels.
func (e *Engine) Recommend(combined models.CombinedSignal, risk models.RiskAssessment, support, resistance float64) []models.Recommendation {
	out := make([]models.Recommendation, 0, 2)
	vol := risk.Volatility

	if combined.Confidence > e.cfg.EntryConfidence {
		switch combined.Direction {
		case models.DirectionBullish:
			out = append(out, e.entry("buy", combined, vol))
		case models.DirectionBearish:
			out = append(out, e.entry("sell", combined, vol))
		}
	}

	if vol > e.cfg.HighVolatility {
		// scale any entry already emitted before adding the reduction note
		for i := range out {
			if out[i].Type == models.RecommendationEntry {
				out[i].PositionSize *= e.cfg.ReduceFactor
			}
		}
		out = append(out, models.Recommendation{
			Type:      models.RecommendationRisk,
			Action:    "reduce_position",
			Reasoning: fmt.Sprintf("volatility %.2f exceeds %.2f threshold", vol, e.cfg.HighVolatility),
		})
	}

	if combined.Direction == models.DirectionNeutral || combined.Confidence < e.cfg.HoldConfidence {
		out = append(out, models.Recommendation{
			Type:      models.RecommendationHold,
			Action:    "wait",
			Reasoning: "no directional edge with sufficient confidence",
			WatchLevels: &models.WatchLevels{
				Support:    support,
				Resistance: resistance,
			},
		})
	}

	return out
}

func (e *Engine) entry(action string, combined models.CombinedSignal, vol float64) models.Recommendation {
	size := e.cfg.MaxPositionSize
	if vol > 0 {
		if s := e.cfg.RiskBudget / vol; s < size {
			size = s
		}
	}
	return models.Recommendation{
		Type:   models.RecommendationEntry,
		Action: action,
		Reasoning: fmt.Sprintf("%s consensus at %.0f%% confidence",
			combined.Direction, combined.Confidence*100),
		PositionSize: size,
		StopLoss:     2 * vol,
		TakeProfit:   3 * vol * combined.Strength,
	}
}
