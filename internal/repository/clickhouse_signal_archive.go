package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgch "SignalDesk/pkg/clickhouse"
	applogger "SignalDesk/pkg/logger"
)

// CHSignalArchive implements SignalArchive backed by ClickHouse.
type CHSignalArchive struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSignalArchive(ch *pkgch.Client) *CHSignalArchive {
	return &CHSignalArchive{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHSignalArchive) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSignalArchive) SaveSignal(ctx context.Context, e models.SignalHistoryEntry) error {
	start := time.Now()
	const q = `
        INSERT INTO signaldesk.signal_history
            (symbol, timeframe, direction, strength, confidence, agreement, data_points, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		e.Symbol,
		e.Timeframe,
		e.Direction,
		e.Strength,
		e.Confidence,
		e.Agreement,
		e.DataPoints,
		e.CreatedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_signal error",
				applogger.String("symbol", e.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save signal: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse save_signal ok",
			applogger.String("symbol", e.Symbol),
			applogger.String("direction", e.Direction),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSignalArchive) GetSignalHistory(ctx context.Context, symbol string, limit int) ([]models.SignalHistoryEntry, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 50
	}
	const q = `
        SELECT symbol, timeframe, direction, strength, confidence, agreement, data_points, created_at
        FROM signaldesk.signal_history
        WHERE symbol = ?
        ORDER BY created_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse signal_history query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get signal history: %w", err)
	}
	defer rows.Close()

	out := make([]models.SignalHistoryEntry, 0, limit)
	for rows.Next() {
		var e models.SignalHistoryEntry
		if err := rows.Scan(&e.Symbol, &e.Timeframe, &e.Direction, &e.Strength, &e.Confidence, &e.Agreement, &e.DataPoints, &e.CreatedAt); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse signal_history scan error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse signal_history ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

var _ domrepo.SignalArchive = (*CHSignalArchive)(nil)
