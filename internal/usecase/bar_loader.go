package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "SignalDesk/internal/domain/repository"
	"SignalDesk/pkg/logger"
	"SignalDesk/pkg/queue"
)

// BarLoader pulls daily windows from the market data vendor and routes
// them through the processor. Refreshes arrive via the Redis queue.
type BarLoader struct {
	provider drepo.MarketDataProvider
	proc     *BarProcessor
	metrics  drepo.Metrics
	logger   *logger.Logger
}

func NewBarLoader(provider drepo.MarketDataProvider, proc *BarProcessor, metrics drepo.Metrics, lgr *logger.Logger) *BarLoader {
	return &BarLoader{provider: provider, proc: proc, metrics: metrics, logger: lgr}
}

// Load fetches lookback daily bars for symbol and stores them.
func (l *BarLoader) Load(ctx context.Context, symbol string, lookback int) (int, error) {
	if symbol == "" {
		return 0, fmt.Errorf("symbol required")
	}
	if lookback <= 0 {
		lookback = 365
	}

	start := time.Now()
	bars, err := l.provider.FetchDaily(ctx, symbol, lookback)
	if err != nil {
		l.metrics.RecordError("provider_fetch")
		return 0, fmt.Errorf("fetch daily %s: %w", symbol, err)
	}
	l.metrics.RecordLatency("provider_fetch", time.Since(start).Seconds())

	if len(bars) == 0 {
		return 0, nil
	}
	if err := l.proc.ProcessBatch(ctx, symbol, bars); err != nil {
		return 0, err
	}

	if l.logger != nil {
		l.logger.Info("window loaded",
			logger.String("symbol", symbol),
			logger.Int("bars", len(bars)),
			logger.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	}
	return len(bars), nil
}

// Shutdown closes the processor backends.
func (l *BarLoader) Shutdown() { l.proc.Close() }

// RefreshPayload is the queue message for a symbol refresh.
type RefreshPayload struct {
	Symbol   string `json:"symbol"`
	Lookback int    `json:"lookback"`
}

// RefreshJobType is the queue message type handled by RefreshJob.
const RefreshJobType = "refresh_symbol"

// RefreshJob drains refresh requests from the Redis queue through the loader.
type RefreshJob struct {
	loader *BarLoader
}

func NewRefreshJob(loader *BarLoader) *RefreshJob {
	return &RefreshJob{loader: loader}
}

func (j *RefreshJob) Name() string { return "bar-refresh" }
func (j *RefreshJob) Type() string { return RefreshJobType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("parse refresh payload: %w", err)
	}
	_, err = j.loader.Load(ctx, p.Symbol, p.Lookback)
	return err
}

var _ queue.Job = (*RefreshJob)(nil)
