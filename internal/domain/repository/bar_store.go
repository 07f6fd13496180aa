package repository

import (
	"context"
	"errors"
	"time"

	"SignalDesk/internal/domain/models"
)

// Sentinel errors of the data layer.
var (
	// ErrDataUnavailable means the store has no data at all for the symbol.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientData means the window is smaller than the pipeline minimum.
	ErrInsufficientData = errors.New("insufficient data")
)

// BarStore provides read access to daily bars for the signal pipeline.
type BarStore interface {
	// FetchWindow returns up to lookback bars for symbol in ascending date
	// order, possibly fewer near listing dates. Returns ErrDataUnavailable
	// when the symbol is unknown; an empty slice (no error) when data
	// exists but is out of range.
	FetchWindow(ctx context.Context, symbol string, lookback int) ([]models.Bar, error)
	GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error)
}

// BarWriter persists ingested bars.
type BarWriter interface {
	Store(ctx context.Context, symbol string, b models.Bar) error
	StoreBatch(ctx context.Context, symbol string, bars []models.Bar) error
	Health(ctx context.Context) error
	Close() error
}

// BarPublisher publishes ingested bars to a message broker.
type BarPublisher interface {
	Publish(ctx context.Context, symbol string, b models.Bar) error
	PublishBatch(ctx context.Context, symbol string, bars []models.Bar) error
	Close() error
}

// SignalArchive persists pipeline results for later inspection.
type SignalArchive interface {
	SaveSignal(ctx context.Context, e models.SignalHistoryEntry) error
	GetSignalHistory(ctx context.Context, symbol string, limit int) ([]models.SignalHistoryEntry, error)
}

// Metrics abstracts operational counters recorded by the pipeline and ingest.
type Metrics interface {
	RecordBarsStored(backend, symbol string, n int)
	RecordError(kind string)
	RecordLastClose(symbol string, close float64)
	RecordLatency(op string, seconds float64)
}
