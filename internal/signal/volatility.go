package signal

import (
	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/indicators"
)

// VolatilityGenerator reads annualized volatility, ATR and band position.
// Its directional lean is mild: position within the Bollinger band, damped
// when the volatility regime is too hot to trust the read.
type VolatilityGenerator struct {
	conf domsvc.ConfidenceModel
}

func NewVolatilityGenerator(conf domsvc.ConfidenceModel) *VolatilityGenerator {
	return &VolatilityGenerator{conf: conf}
}

func (g *VolatilityGenerator) Family() string { return models.SignalVolatility }

func (g *VolatilityGenerator) Generate(bars []models.Bar) (models.Signal, error) {
	closes := models.Closes(bars)
	ind := map[string]*float64{}
	strength := 0.5

	vol, okVol := indicators.Volatility(closes, len(closes))
	setIndicator(ind, "volatility", vol, okVol)

	atr, okATR := indicators.ATR(bars, 14)
	setIndicator(ind, "atr_14", atr, okATR)
	if okATR && len(closes) > 0 && closes[len(closes)-1] > 0 {
		setIndicator(ind, "atr_pct", atr/closes[len(closes)-1]*100, true)
	}

	bb, okBB := indicators.Bollinger(closes, 20)
	if okBB && bb.Middle > 0 {
		width := (bb.Upper - bb.Lower) / bb.Middle
		setIndicator(ind, "bb_width", width, true)
		if bb.Upper > bb.Lower && len(closes) > 0 {
			pb := (closes[len(closes)-1] - bb.Lower) / (bb.Upper - bb.Lower)
			strength += (clampRange(pb, 0, 1) - 0.5) * 0.3
		}
	}

	// in a hot regime the band read is unreliable, pull back toward neutral
	if okVol && vol > 0.4 {
		strength = 0.5 + (strength-0.5)*0.5
	}

	return models.Signal{
		Type:       models.SignalVolatility,
		Indicators: ind,
		Strength:   clamp01(strength),
		Confidence: g.conf.Confidence(models.SignalVolatility),
	}, nil
}

var _ domsvc.Generator = (*VolatilityGenerator)(nil)
