package repository

import (
	"context"

	"SignalDesk/internal/domain/models"
)

// MarketDataProvider pulls daily bars from an upstream vendor.
type MarketDataProvider interface {
	// FetchDaily returns up to lookback daily bars for symbol in ascending
	// date order. Returns ErrDataUnavailable for unknown symbols.
	FetchDaily(ctx context.Context, symbol string, lookback int) ([]models.Bar, error)
}
