package models

import "time"

// Signal families.
const (
	SignalTechnical  = "technical"
	SignalMomentum   = "momentum"
	SignalVolume     = "volume"
	SignalVolatility = "volatility"
	SignalTrend      = "trend"
)

// SignalFamilies lists all generator families in canonical order.
var SignalFamilies = []string{
	SignalTechnical,
	SignalMomentum,
	SignalVolume,
	SignalVolatility,
	SignalTrend,
}

// Directions of a combined signal.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// Signal is the output of one generator family. Indicators map names to
// computed values; a nil value marks an indicator whose window was too short.
// Strength encodes bullish(1)/bearish(0) lean, Confidence the generator's
// self-assessed reliability.
type Signal struct {
	Type       string              `json:"type"`
	Indicators map[string]*float64 `json:"indicators"`
	Strength   float64             `json:"strength"`
	Confidence float64             `json:"confidence"`
}

// Computed reports whether the generator produced at least one real
// indicator value. Signals with no computed indicators contribute a
// neutral strength to the aggregate.
func (s *Signal) Computed() bool {
	for _, v := range s.Indicators {
		if v != nil {
			return true
		}
	}
	return false
}

// Consensus counts how the five generators lean.
type Consensus struct {
	Bullish   int     `json:"bullish"`
	Bearish   int     `json:"bearish"`
	Neutral   int     `json:"neutral"`
	Agreement float64 `json:"agreement"`
}

// CombinedSignal is the weighted aggregate of all generator signals.
type CombinedSignal struct {
	Direction  string    `json:"direction"`
	Strength   float64   `json:"strength"`
	Confidence float64   `json:"confidence"`
	Consensus  Consensus `json:"consensus"`
	Signals    []Signal  `json:"signals"`
}

// ConfidenceInterval bounds the expected return estimate.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// RiskAssessment holds point-estimate risk metrics derived from the close
// series and the combined signal. Beta is nil when no benchmark series
// was available.
type RiskAssessment struct {
	Volatility         float64            `json:"volatility"`
	MaxDrawdown        float64            `json:"maxDrawdown"`
	SharpeRatio        float64            `json:"sharpeRatio"`
	Beta               *float64           `json:"beta"`
	ValueAtRisk        float64            `json:"valueAtRisk"`
	ExpectedReturn     float64            `json:"expectedReturn"`
	RiskReward         float64            `json:"riskReward"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
}

// Recommendation types.
const (
	RecommendationEntry = "entry"
	RecommendationRisk  = "risk_management"
	RecommendationHold  = "hold"
)

// WatchLevels are price bounds to monitor while holding.
type WatchLevels struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

// Recommendation is one actionable suggestion. Numeric fields are
// populated per type: entry carries position sizing and exit levels,
// hold carries watch levels.
type Recommendation struct {
	Type         string       `json:"type"`
	Action       string       `json:"action"`
	Reasoning    string       `json:"reasoning"`
	PositionSize float64      `json:"positionSize,omitempty"`
	StopLoss     float64      `json:"stopLoss,omitempty"`
	TakeProfit   float64      `json:"takeProfit,omitempty"`
	WatchLevels  *WatchLevels `json:"watchLevels,omitempty"`
}

// ResponseMetadata describes one pipeline invocation.
type ResponseMetadata struct {
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	DataPoints       int       `json:"dataPoints"`
	Timestamp        time.Time `json:"timestamp"`
}

// SignalResponse is the single response shape of the pipeline. Callers
// distinguish failure only via Success and Message, never via errors.
type SignalResponse struct {
	Success         bool              `json:"success"`
	Symbol          string            `json:"symbol"`
	Timeframe       string            `json:"timeframe,omitempty"`
	Message         string            `json:"message,omitempty"`
	Signal          *CombinedSignal   `json:"signal"`
	RiskAssessment  *RiskAssessment   `json:"riskAssessment"`
	Recommendations []Recommendation  `json:"recommendations"`
	Metadata        *ResponseMetadata `json:"metadata,omitempty"`
}

// SignalHistoryEntry is one archived pipeline result.
type SignalHistoryEntry struct {
	Symbol     string    `json:"symbol"`
	Timeframe  string    `json:"timeframe"`
	Direction  string    `json:"direction"`
	Strength   float64   `json:"strength"`
	Confidence float64   `json:"confidence"`
	Agreement  float64   `json:"agreement"`
	DataPoints int       `json:"dataPoints"`
	CreatedAt  time.Time `json:"createdAt"`
}
