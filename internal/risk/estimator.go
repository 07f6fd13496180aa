// Package risk derives point-estimate risk metrics from the close series
// and the combined signal.
package risk

import (
	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/indicators"
)

// Config holds the estimator constants.
type Config struct {
	// VaRConfidence is the historical VaR quantile level.
	VaRConfidence float64 `yaml:"var_confidence"`
}

// DefaultConfig returns the standard estimator configuration.
func DefaultConfig() Config {
	return Config{VaRConfidence: 0.95}
}

// Estimator computes a RiskAssessment for one pipeline invocation.
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) *Estimator {
	if cfg.VaRConfidence <= 0 || cfg.VaRConfidence >= 1 {
		cfg.VaRConfidence = DefaultConfig().VaRConfidence
	}
	return &Estimator{cfg: cfg}
}

// Assess computes the risk metrics. benchCloses may be nil; Beta stays
// nil in that case rather than fabricating a number.
func (e *Estimator) Assess(closes []float64, benchCloses []float64, combined models.CombinedSignal) models.RiskAssessment {
	out := models.RiskAssessment{}

	if vol, ok := indicators.Volatility(closes, len(closes)); ok {
		out.Volatility = vol
	}
	if dd, ok := indicators.MaxDrawdown(closes); ok {
		out.MaxDrawdown = dd
	}
	if sh, ok := indicators.Sharpe(closes); ok {
		out.SharpeRatio = sh
	}
	if beta, ok := indicators.Beta(closes, benchCloses); ok {
		b := beta
		out.Beta = &b
	}
	if v, ok := indicators.HistVaR(closes, e.cfg.VaRConfidence); ok {
		out.ValueAtRisk = v
	}

	// expected return scales volatility by the directional lean
	out.ExpectedReturn = (2*combined.Strength - 1) * out.Volatility
	if out.ValueAtRisk > 0 {
		out.RiskReward = out.ExpectedReturn / out.ValueAtRisk
	}

	// the interval narrows as combined confidence rises
	half := out.Volatility * (1 - combined.Confidence)
	out.ConfidenceInterval = models.ConfidenceInterval{
		Lower: out.ExpectedReturn - half,
		Upper: out.ExpectedReturn + half,
	}
	return out
}
