package usecase

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	xutil "SignalDesk/pkg/util"
)

// BarsUseCase provides business logic for retrieving stored bars.
type BarsUseCase struct {
	store domrepo.BarStore
}

func NewBarsUseCase(store domrepo.BarStore) *BarsUseCase {
	return &BarsUseCase{store: store}
}

type GetBarsParams struct {
	Symbol    string
	From      time.Time
	To        time.Time
	Timeframe domrepo.Timeframe
	Limit     int
}

type GetBarsResult struct {
	Symbol    string
	Timeframe string
	From      time.Time
	To        time.Time
	Count     int
	Bars      []models.Bar
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 500
	}
	if p.Limit > 5000 {
		p.Limit = 5000
	}

	tf := domrepo.NormalizeTimeframe(string(p.Timeframe))
	p.From, p.To = xutil.AlignFromTo(p.From, p.To, string(tf))

	bars, err := uc.store.GetBars(ctx, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if len(bars) > p.Limit {
		bars = bars[:p.Limit]
	}

	return &GetBarsResult{
		Symbol:    p.Symbol,
		Timeframe: string(tf),
		From:      p.From,
		To:        p.To,
		Count:     len(bars),
		Bars:      bars,
	}, nil
}
