package signal

import (
	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/indicators"
)

// TrendGenerator reads the least-squares trend line, its fit quality,
// ADX trend strength, and support/resistance levels.
type TrendGenerator struct {
	conf domsvc.ConfidenceModel
}

func NewTrendGenerator(conf domsvc.ConfidenceModel) *TrendGenerator {
	return &TrendGenerator{conf: conf}
}

func (g *TrendGenerator) Family() string { return models.SignalTrend }

func (g *TrendGenerator) Generate(bars []models.Bar) (models.Signal, error) {
	closes := models.Closes(bars)
	ind := map[string]*float64{}
	strength := 0.5

	period := 50
	if len(closes) < period {
		period = len(closes)
	}

	slope, okSlope := indicators.TrendSlope(closes, period)
	setIndicator(ind, "trend_slope", slope, okSlope)
	r2, okR2 := indicators.TrendR2(closes, period)
	setIndicator(ind, "trend_r2", r2, okR2)

	adx, okADX := indicators.ADX(bars, 14)
	setIndicator(ind, "adx_14", adx, okADX)

	if okSlope && okR2 && slope != 0 {
		dir := 1.0
		if slope < 0 {
			dir = -1.0
		}
		// fit quality scales the lean; ADX confirms how established it is
		adxFactor := 1.0
		if okADX {
			adxFactor = clampRange(adx/50, 0, 1)
		}
		strength += dir * 0.5 * r2 * adxFactor
	}

	support, okS := indicators.Support(closes)
	setIndicator(ind, "support", support, okS)
	resistance, okR := indicators.Resistance(closes)
	setIndicator(ind, "resistance", resistance, okR)

	return models.Signal{
		Type:       models.SignalTrend,
		Indicators: ind,
		Strength:   clamp01(strength),
		Confidence: g.conf.Confidence(models.SignalTrend),
	}, nil
}

var _ domsvc.Generator = (*TrendGenerator)(nil)
