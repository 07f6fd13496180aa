package signal

import (
	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/indicators"
)

// MomentumGenerator reads rate of change, raw momentum and the stochastic
// oscillator.
type MomentumGenerator struct {
	conf domsvc.ConfidenceModel
}

func NewMomentumGenerator(conf domsvc.ConfidenceModel) *MomentumGenerator {
	return &MomentumGenerator{conf: conf}
}

func (g *MomentumGenerator) Family() string { return models.SignalMomentum }

func (g *MomentumGenerator) Generate(bars []models.Bar) (models.Signal, error) {
	closes := models.Closes(bars)
	ind := map[string]*float64{}
	strength := 0.5

	roc, okROC := indicators.ROC(closes, 10)
	setIndicator(ind, "roc_10", roc, okROC)
	if okROC {
		// +/-20% over ten bars saturates the contribution
		strength += clampRange(roc/20, -1, 1) * 0.25
	}

	mom, okMom := indicators.Momentum(closes, 10)
	setIndicator(ind, "momentum_10", mom, okMom)
	if okMom {
		if mom > 0 {
			strength += 0.1
		} else if mom < 0 {
			strength -= 0.1
		}
	}

	st, okSt := indicators.Stochastic(bars, 14, 3)
	setIndicator(ind, "stochastic_k", st.K, okSt)
	setIndicator(ind, "stochastic_d", st.D, okSt)
	if okSt {
		strength += (st.K - 50) / 100 * 0.3
	}

	return models.Signal{
		Type:       models.SignalMomentum,
		Indicators: ind,
		Strength:   clamp01(strength),
		Confidence: g.conf.Confidence(models.SignalMomentum),
	}, nil
}

var _ domsvc.Generator = (*MomentumGenerator)(nil)
