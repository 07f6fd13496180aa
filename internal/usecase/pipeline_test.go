package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/recommend"
	"SignalDesk/internal/risk"
	sig "SignalDesk/internal/signal"
)

type fakeBarStore struct {
	bars map[string][]models.Bar
}

func (f *fakeBarStore) FetchWindow(_ context.Context, symbol string, lookback int) ([]models.Bar, error) {
	bars, ok := f.bars[symbol]
	if !ok {
		return nil, domrepo.ErrDataUnavailable
	}
	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}

func (f *fakeBarStore) GetBars(_ context.Context, symbol string, _, _ time.Time, _ int) ([]models.Bar, error) {
	return f.bars[symbol], nil
}

type nopMetrics struct{}

func (nopMetrics) RecordBarsStored(string, string, int)  {}
func (nopMetrics) RecordError(string)                    {}
func (nopMetrics) RecordLastClose(string, float64)       {}
func (nopMetrics) RecordLatency(string, float64)         {}

type memArchive struct {
	entries []models.SignalHistoryEntry
}

func (m *memArchive) SaveSignal(_ context.Context, e models.SignalHistoryEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memArchive) GetSignalHistory(_ context.Context, symbol string, limit int) ([]models.SignalHistoryEntry, error) {
	return m.entries, nil
}

type panicGenerator struct{ family string }

func (p panicGenerator) Family() string { return p.family }
func (p panicGenerator) Generate([]models.Bar) (models.Signal, error) {
	panic("boom")
}

func risingBars(n int) []models.Bar {
	out := make([]models.Bar, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		c := 100 + float64(i)
		out[i] = models.Bar{
			Date:   d.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func defaultGenerators() []domsvc.Generator {
	conf := sig.NewStaticConfidence(nil)
	return []domsvc.Generator{
		sig.NewTechnicalGenerator(conf),
		sig.NewMomentumGenerator(conf),
		sig.NewVolumeGenerator(conf),
		sig.NewVolatilityGenerator(conf),
		sig.NewTrendGenerator(conf),
	}
}

func newPipeline(store domrepo.BarStore, gens []domsvc.Generator, cfg PipelineConfig) *SignalPipeline {
	agg, _ := sig.NewAggregator(sig.DefaultWeights(), sig.DefaultThresholds())
	return NewSignalPipeline(
		store,
		gens,
		agg,
		risk.NewEstimator(risk.DefaultConfig()),
		recommend.NewEngine(recommend.DefaultConfig()),
		nopMetrics{},
		nil,
		cfg,
	)
}

func TestGenerateSignalsRisingWindowBullish(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": risingBars(100)}}
	p := newPipeline(store, defaultGenerators(), PipelineConfig{})

	resp := p.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	if !resp.Success {
		t.Fatalf("expected success, got message %q", resp.Message)
	}
	if resp.Signal == nil || resp.Signal.Direction != models.DirectionBullish {
		t.Fatalf("direction = %+v, want bullish", resp.Signal)
	}
	if resp.Signal.Strength < 0 || resp.Signal.Strength > 1 {
		t.Fatalf("strength out of bounds: %v", resp.Signal.Strength)
	}
	if resp.Metadata == nil || resp.Metadata.DataPoints != 100 {
		t.Fatalf("metadata = %+v", resp.Metadata)
	}

	var entry *models.Recommendation
	for i := range resp.Recommendations {
		if resp.Recommendations[i].Type == models.RecommendationEntry {
			entry = &resp.Recommendations[i]
		}
	}
	if entry == nil || entry.Action != "buy" {
		t.Fatalf("expected entry/buy recommendation, got %+v", resp.Recommendations)
	}
}

func TestGenerateSignalsShortWindow(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"NEWCO": risingBars(30)}}
	p := newPipeline(store, defaultGenerators(), PipelineConfig{})

	resp := p.GenerateSignals(context.Background(), "NEWCO", "1d", 100)
	if resp.Success {
		t.Fatalf("expected failure for 30-bar window")
	}
	if resp.Signal != nil || resp.RiskAssessment != nil {
		t.Fatalf("failure response must carry nil signal and risk")
	}
	if !strings.Contains(strings.ToLower(resp.Message), "insufficient data") {
		t.Fatalf("message %q should mention insufficient data", resp.Message)
	}
	if resp.Recommendations == nil || len(resp.Recommendations) != 0 {
		t.Fatalf("failure response must carry an empty recommendation list")
	}
}

func TestGenerateSignalsUnknownSymbol(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{}}
	p := newPipeline(store, defaultGenerators(), PipelineConfig{})

	resp := p.GenerateSignals(context.Background(), "NOPE", "1d", 100)
	if resp.Success {
		t.Fatalf("expected failure for unknown symbol")
	}
	if !strings.Contains(resp.Message, "no data available") {
		t.Fatalf("message %q should mention missing data", resp.Message)
	}
}

func TestGenerateSignalsDeterministic(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": risingBars(100)}}
	p := newPipeline(store, defaultGenerators(), PipelineConfig{})

	a := p.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	b := p.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	if a.Signal.Strength != b.Signal.Strength {
		t.Fatalf("strength differs across identical calls: %v vs %v", a.Signal.Strength, b.Signal.Strength)
	}
	if a.Signal.Confidence != b.Signal.Confidence {
		t.Fatalf("confidence differs across identical calls")
	}
	if a.Signal.Consensus != b.Signal.Consensus {
		t.Fatalf("consensus differs across identical calls")
	}
}

func TestGenerateSignalsPanickingGeneratorDegrades(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": risingBars(100)}}
	gens := defaultGenerators()
	gens[0] = panicGenerator{family: models.SignalTechnical}
	p := newPipeline(store, gens, PipelineConfig{})

	resp := p.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	if !resp.Success {
		t.Fatalf("one panicking generator must not fail the pipeline: %q", resp.Message)
	}
	for _, s := range resp.Signal.Signals {
		if s.Type == models.SignalTechnical && s.Strength != 0.5 {
			t.Fatalf("panicking generator should degrade to neutral, got %v", s.Strength)
		}
	}
}

func TestGenerateSignalsBenchmarkBeta(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{
		"AAPL": risingBars(100),
		"SPY":  risingBars(100),
	}}
	cfg := PipelineConfig{BenchmarkSymbol: "SPY"}
	p := newPipeline(store, defaultGenerators(), cfg)

	resp := p.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	if !resp.Success {
		t.Fatalf("unexpected failure: %q", resp.Message)
	}
	if resp.RiskAssessment.Beta == nil {
		t.Fatalf("beta must be computed when a benchmark is configured")
	}

	// without a benchmark beta stays honest nil
	p2 := newPipeline(store, defaultGenerators(), PipelineConfig{})
	resp2 := p2.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	if resp2.RiskAssessment.Beta != nil {
		t.Fatalf("beta must be nil without a benchmark")
	}
}

func TestGenerateSignalsArchivesResult(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": risingBars(100)}}
	p := newPipeline(store, defaultGenerators(), PipelineConfig{})
	arch := &memArchive{}
	p.SetArchive(arch)

	resp := p.GenerateSignals(context.Background(), "AAPL", "1d", 100)
	if !resp.Success {
		t.Fatalf("unexpected failure: %q", resp.Message)
	}
	if len(arch.entries) != 1 {
		t.Fatalf("expected one archived entry, got %d", len(arch.entries))
	}
	e := arch.entries[0]
	if e.Symbol != "AAPL" || e.Direction != models.DirectionBullish || e.DataPoints != 100 {
		t.Fatalf("archived entry = %+v", e)
	}
}
