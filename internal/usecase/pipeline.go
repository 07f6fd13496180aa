package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/indicators"
	"SignalDesk/internal/recommend"
	"SignalDesk/internal/risk"
	sig "SignalDesk/internal/signal"
	applogger "SignalDesk/pkg/logger"
)

// PipelineConfig holds the pipeline invariants.
type PipelineConfig struct {
	// MinWindow is the minimum viable bar count; smaller windows
	// short-circuit to a failure response.
	MinWindow int
	// DefaultLookback is used when the caller passes lookback <= 0.
	DefaultLookback int
	// BenchmarkSymbol, when set, supplies the beta benchmark series.
	BenchmarkSymbol string
	// Timeout bounds one full invocation.
	Timeout time.Duration
}

// DefaultPipelineConfig returns the standard pipeline settings.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MinWindow:       50,
		DefaultLookback: 100,
		Timeout:         10 * time.Second,
	}
}

// SignalPipeline runs the full generation flow: fetch window, run the
// five generators concurrently, aggregate, assess risk, recommend.
// GenerateSignals never returns an error; every failure is converted to
// a structured response at this boundary.
type SignalPipeline struct {
	store      domrepo.BarStore
	generators []domsvc.Generator
	agg        *sig.Aggregator
	estimator  *risk.Estimator
	engine     *recommend.Engine
	archive    domrepo.SignalArchive
	metrics    domrepo.Metrics
	logger     *applogger.Logger
	cfg        PipelineConfig
}

func NewSignalPipeline(
	store domrepo.BarStore,
	generators []domsvc.Generator,
	agg *sig.Aggregator,
	estimator *risk.Estimator,
	engine *recommend.Engine,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	cfg PipelineConfig,
) *SignalPipeline {
	if cfg.MinWindow <= 0 {
		cfg.MinWindow = DefaultPipelineConfig().MinWindow
	}
	if cfg.DefaultLookback <= 0 {
		cfg.DefaultLookback = DefaultPipelineConfig().DefaultLookback
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPipelineConfig().Timeout
	}
	return &SignalPipeline{
		store:      store,
		generators: generators,
		agg:        agg,
		estimator:  estimator,
		engine:     engine,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// SetArchive wires an optional signal history sink. Archiving is
// best-effort and never affects the response.
func (p *SignalPipeline) SetArchive(a domrepo.SignalArchive) { p.archive = a }

// GenerateSignals computes one SignalResponse for symbol. The caller
// always receives a well-formed response, never an error.
func (p *SignalPipeline) GenerateSignals(ctx context.Context, symbol, timeframe string, lookback int) (resp *models.SignalResponse) {
	start := time.Now()
	tf := string(domrepo.NormalizeTimeframe(timeframe))
	if lookback <= 0 {
		lookback = p.cfg.DefaultLookback
	}

	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordError("pipeline_panic")
			if p.logger != nil {
				p.logger.Error("pipeline panic",
					applogger.String("symbol", symbol),
					applogger.Any("panic", r),
				)
			}
			resp = failure(symbol, tf, fmt.Sprintf("internal computation error: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	bars, err := p.store.FetchWindow(ctx, symbol, lookback)
	if err != nil {
		p.metrics.RecordError("fetch_window")
		if errors.Is(err, domrepo.ErrDataUnavailable) {
			return failure(symbol, tf, fmt.Sprintf("no data available for %s", symbol))
		}
		if p.logger != nil {
			p.logger.Error("fetch window failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
		return failure(symbol, tf, fmt.Sprintf("data fetch failed: %v", err))
	}
	if len(bars) < p.cfg.MinWindow {
		p.metrics.RecordError("insufficient_data")
		return failure(symbol, tf, fmt.Sprintf(
			"insufficient data: %d bars, minimum %d required", len(bars), p.cfg.MinWindow))
	}

	signals := p.runGenerators(bars)
	combined := p.agg.Aggregate(signals)

	closes := models.Closes(bars)
	benchCloses := p.fetchBenchmark(ctx, symbol, lookback)
	assessment := p.estimator.Assess(closes, benchCloses, combined)

	support, _ := indicators.Support(closes)
	resistance, _ := indicators.Resistance(closes)
	recs := p.engine.Recommend(combined, assessment, support, resistance)

	p.metrics.RecordLastClose(symbol, closes[len(closes)-1])
	p.metrics.RecordLatency("pipeline", time.Since(start).Seconds())

	resp = &models.SignalResponse{
		Success:         true,
		Symbol:          symbol,
		Timeframe:       tf,
		Signal:          &combined,
		RiskAssessment:  &assessment,
		Recommendations: recs,
		Metadata: &models.ResponseMetadata{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			DataPoints:       len(bars),
			Timestamp:        time.Now().UTC(),
		},
	}
	p.archiveResult(resp)
	return resp
}

// runGenerators fans the window out to every generator concurrently.
// The window is shared read-only, so no locking is needed; a failed or
// panicking generator degrades to an uncomputed neutral signal.
func (p *SignalPipeline) runGenerators(bars []models.Bar) []models.Signal {
	type item struct {
		idx int
		sig models.Signal
	}
	ch := make(chan item, len(p.generators))
	var wg sync.WaitGroup

	for i, g := range p.generators {
		wg.Add(1)
		go func(idx int, g domsvc.Generator) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.metrics.RecordError("generator_panic")
					if p.logger != nil {
						p.logger.Error("generator panic",
							applogger.String("family", g.Family()),
							applogger.Any("panic", r),
						)
					}
					ch <- item{idx, neutralSignal(g.Family())}
				}
			}()
			s, err := g.Generate(bars)
			if err != nil {
				p.metrics.RecordError("generator")
				if p.logger != nil {
					p.logger.Warn("generator failed",
						applogger.String("family", g.Family()),
						applogger.Error(err),
					)
				}
				ch <- item{idx, neutralSignal(g.Family())}
				return
			}
			ch <- item{idx, s}
		}(i, g)
	}

	go func() { wg.Wait(); close(ch) }()

	// fixed ordering keeps the response deterministic
	out := make([]models.Signal, len(p.generators))
	for it := range ch {
		out[it.idx] = it.sig
	}
	return out
}

func (p *SignalPipeline) fetchBenchmark(ctx context.Context, symbol string, lookback int) []float64 {
	if p.cfg.BenchmarkSymbol == "" || p.cfg.BenchmarkSymbol == symbol {
		return nil
	}
	bars, err := p.store.FetchWindow(ctx, p.cfg.BenchmarkSymbol, lookback)
	if err != nil {
		p.metrics.RecordError("benchmark_fetch")
		if p.logger != nil {
			p.logger.Warn("benchmark fetch failed",
				applogger.String("benchmark", p.cfg.BenchmarkSymbol),
				applogger.Error(err),
			)
		}
		return nil
	}
	return models.Closes(bars)
}

func (p *SignalPipeline) archiveResult(resp *models.SignalResponse) {
	if p.archive == nil || resp.Signal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := p.archive.SaveSignal(ctx, models.SignalHistoryEntry{
		Symbol:     resp.Symbol,
		Timeframe:  resp.Timeframe,
		Direction:  resp.Signal.Direction,
		Strength:   resp.Signal.Strength,
		Confidence: resp.Signal.Confidence,
		Agreement:  resp.Signal.Consensus.Agreement,
		DataPoints: resp.Metadata.DataPoints,
		CreatedAt:  resp.Metadata.Timestamp,
	})
	if err != nil {
		p.metrics.RecordError("archive")
		if p.logger != nil {
			p.logger.Warn("signal archive failed",
				applogger.String("symbol", resp.Symbol),
				applogger.Error(err),
			)
		}
	}
}

func neutralSignal(family string) models.Signal {
	return models.Signal{
		Type:       family,
		Indicators: map[string]*float64{},
		Strength:   0.5,
	}
}

func failure(symbol, tf, message string) *models.SignalResponse {
	return &models.SignalResponse{
		Success:         false,
		Symbol:          symbol,
		Timeframe:       tf,
		Message:         message,
		Recommendations: []models.Recommendation{},
	}
}
