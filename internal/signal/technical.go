// Package signal implements the five generator families and the weighted
// aggregator. Generators are pure functions of the bar window: an
// indicator whose window is too short stays nil in the indicator map and
// simply does not move the strength away from neutral.
package signal

import (
	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/indicators"
)

// TechnicalGenerator reads moving averages, RSI, MACD and Bollinger bands.
type TechnicalGenerator struct {
	conf domsvc.ConfidenceModel
}

func NewTechnicalGenerator(conf domsvc.ConfidenceModel) *TechnicalGenerator {
	return &TechnicalGenerator{conf: conf}
}

func (g *TechnicalGenerator) Family() string { return models.SignalTechnical }

func (g *TechnicalGenerator) Generate(bars []models.Bar) (models.Signal, error) {
	closes := models.Closes(bars)
	ind := map[string]*float64{}
	strength := 0.5

	last := 0.0
	if len(closes) > 0 {
		last = closes[len(closes)-1]
	}

	sma20, ok20 := indicators.SMA(closes, 20)
	setIndicator(ind, "sma_20", sma20, ok20)
	if ok20 {
		if last > sma20 {
			strength += 0.1
		} else if last < sma20 {
			strength -= 0.1
		}
	}

	sma50, ok50 := indicators.SMA(closes, 50)
	setIndicator(ind, "sma_50", sma50, ok50)
	if ok50 {
		if last > sma50 {
			strength += 0.1
		} else if last < sma50 {
			strength -= 0.1
		}
	}
	if ok20 && ok50 {
		if sma20 > sma50 {
			strength += 0.1
		} else if sma20 < sma50 {
			strength -= 0.1
		}
	}

	ema12, okE12 := indicators.EMA(closes, 12)
	setIndicator(ind, "ema_12", ema12, okE12)
	ema26, okE26 := indicators.EMA(closes, 26)
	setIndicator(ind, "ema_26", ema26, okE26)

	rsi, okRSI := indicators.RSI(closes, 14)
	setIndicator(ind, "rsi_14", rsi, okRSI)
	if okRSI {
		strength += (rsi - 50) / 100 * 0.4
	}

	macd, okMACD := indicators.MACD(closes)
	setIndicator(ind, "macd", macd.MACD, okMACD)
	setIndicator(ind, "macd_signal", macd.Signal, okMACD)
	setIndicator(ind, "macd_histogram", macd.Histogram, okMACD)
	if okMACD {
		if macd.Histogram > 0 {
			strength += 0.1
		} else if macd.Histogram < 0 {
			strength -= 0.1
		}
	}

	bb, okBB := indicators.Bollinger(closes, 20)
	setIndicator(ind, "bb_upper", bb.Upper, okBB)
	setIndicator(ind, "bb_middle", bb.Middle, okBB)
	setIndicator(ind, "bb_lower", bb.Lower, okBB)
	if okBB && bb.Upper > bb.Lower {
		// mild mean-reversion penalty outside the bands
		pb := (last - bb.Lower) / (bb.Upper - bb.Lower)
		if pb > 1 {
			strength -= 0.05
		} else if pb < 0 {
			strength += 0.05
		}
	}

	return models.Signal{
		Type:       models.SignalTechnical,
		Indicators: ind,
		Strength:   clamp01(strength),
		Confidence: g.conf.Confidence(models.SignalTechnical),
	}, nil
}

var _ domsvc.Generator = (*TechnicalGenerator)(nil)
