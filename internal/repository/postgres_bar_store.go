package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgpg "SignalDesk/pkg/postgres"
	applogger "SignalDesk/pkg/logger"
)

// PostgresBarStore implements BarStore and BarWriter on the bars table.
type PostgresBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewPostgresBarStore(pg *pkgpg.Client) *PostgresBarStore {
	return &PostgresBarStore{db: pg.DB()}
}

// SetLogger injects a structured logger.
func (s *PostgresBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *PostgresBarStore) FetchWindow(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	start := time.Now()
	const q = `
        SELECT date, open, high, low, close, volume
        FROM bars
        WHERE symbol = $1
        ORDER BY date DESC
        LIMIT $2
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, lookback)
	if err != nil {
		if s.l != nil {
			s.l.Error("postgres fetch_window query error",
				applogger.String("symbol", symbol),
				applogger.Int("lookback", lookback),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("fetch window: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, lookback)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("postgres fetch_window scan error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(tmp) == 0 {
		return nil, domrepo.ErrDataUnavailable
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("postgres fetch_window ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *PostgresBarStore) GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	const q = `
        SELECT date, open, high, low, close, volume
        FROM bars
        WHERE symbol = $1 AND date >= $2 AND date <= $3
        ORDER BY date ASC
        LIMIT $4
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("postgres get_bars query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 256)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresBarStore) Store(ctx context.Context, symbol string, b models.Bar) error {
	const q = `
        INSERT INTO bars (symbol, date, open, high, low, close, volume)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (symbol, date) DO UPDATE SET
            open = EXCLUDED.open,
            high = EXCLUDED.high,
            low = EXCLUDED.low,
            close = EXCLUDED.close,
            volume = EXCLUDED.volume
    `
	_, err := s.db.ExecContext(ctx, q, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	return err
}

func (s *PostgresBarStore) StoreBatch(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	// Multi-row VALUES to reduce round-trips, chunked to stay under the
	// placeholder limit.
	const chunkSize = 500
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Date.IsZero() {
				continue
			}
			n := len(args)
			values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				n+1, n+2, n+3, n+4, n+5, n+6, n+7))
			args = append(args, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(`
            INSERT INTO bars (symbol, date, open, high, low, close, volume)
            VALUES %s
            ON CONFLICT (symbol, date) DO UPDATE SET
                open = EXCLUDED.open,
                high = EXCLUDED.high,
                low = EXCLUDED.low,
                close = EXCLUDED.close,
                volume = EXCLUDED.volume
        `, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store batch: %w", err)
		}
	}
	return nil
}

func (s *PostgresBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresBarStore) Close() error {
	return nil // managed by pkg
}

var (
	_ domrepo.BarStore  = (*PostgresBarStore)(nil)
	_ domrepo.BarWriter = (*PostgresBarStore)(nil)
)
