package signal

import (
	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/indicators"
)

// VolumeGenerator reads on-balance volume, VWAP and relative volume.
type VolumeGenerator struct {
	conf domsvc.ConfidenceModel
}

func NewVolumeGenerator(conf domsvc.ConfidenceModel) *VolumeGenerator {
	return &VolumeGenerator{conf: conf}
}

func (g *VolumeGenerator) Family() string { return models.SignalVolume }

func (g *VolumeGenerator) Generate(bars []models.Bar) (models.Signal, error) {
	ind := map[string]*float64{}
	strength := 0.5

	last := models.Bar{}
	if len(bars) > 0 {
		last = bars[len(bars)-1]
	}

	vwap, okVWAP := indicators.VWAP(bars, 20)
	setIndicator(ind, "vwap_20", vwap, okVWAP)
	if okVWAP {
		if last.Close > vwap {
			strength += 0.15
		} else if last.Close < vwap {
			strength -= 0.15
		}
	}

	obv, okOBV := indicators.OBV(bars)
	setIndicator(ind, "obv", obv, okOBV)
	if okOBV && len(bars) > 10 {
		prev, okPrev := indicators.OBV(bars[:len(bars)-10])
		if okPrev {
			if obv > prev {
				strength += 0.15
			} else if obv < prev {
				strength -= 0.15
			}
		}
	}

	// relative volume confirms the last move when elevated
	volCloses := make([]float64, len(bars))
	for i, b := range bars {
		volCloses[i] = float64(b.Volume)
	}
	volSMA, okVol := indicators.SMA(volCloses, 20)
	setIndicator(ind, "volume_sma_20", volSMA, okVol)
	if okVol && volSMA > 0 && len(bars) >= 2 {
		ratio := float64(last.Volume) / volSMA
		setIndicator(ind, "volume_ratio", ratio, true)
		if ratio > 1.5 {
			prevClose := bars[len(bars)-2].Close
			if last.Close > prevClose {
				strength += 0.1
			} else if last.Close < prevClose {
				strength -= 0.1
			}
		}
	}

	return models.Signal{
		Type:       models.SignalVolume,
		Indicators: ind,
		Strength:   clamp01(strength),
		Confidence: g.conf.Confidence(models.SignalVolume),
	}, nil
}

var _ domsvc.Generator = (*VolumeGenerator)(nil)
