package signal

import (
	"SignalDesk/internal/domain/models"
	domsvc "SignalDesk/internal/domain/service"
)

// Default per-family confidence constants.
const (
	DefaultTechnicalConfidence  = 0.80
	DefaultMomentumConfidence   = 0.75
	DefaultVolumeConfidence     = 0.70
	DefaultVolatilityConfidence = 0.65
	DefaultTrendConfidence      = 0.85
)

// StaticConfidence assigns a fixed confidence per signal family.
type StaticConfidence struct {
	byFamily map[string]float64
}

// NewStaticConfidence builds a model from an explicit family map. Families
// missing from the map fall back to the defaults.
func NewStaticConfidence(byFamily map[string]float64) *StaticConfidence {
	m := map[string]float64{
		models.SignalTechnical:  DefaultTechnicalConfidence,
		models.SignalMomentum:   DefaultMomentumConfidence,
		models.SignalVolume:     DefaultVolumeConfidence,
		models.SignalVolatility: DefaultVolatilityConfidence,
		models.SignalTrend:      DefaultTrendConfidence,
	}
	for k, v := range byFamily {
		m[k] = v
	}
	return &StaticConfidence{byFamily: m}
}

func (s *StaticConfidence) Confidence(family string) float64 {
	return s.byFamily[family]
}

var _ domsvc.ConfidenceModel = (*StaticConfidence)(nil)
