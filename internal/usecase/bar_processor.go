package usecase

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	drepo "SignalDesk/internal/domain/repository"
)

// BarProcessor routes ingested bars to the configured backend.
type BarProcessor struct {
	pub     drepo.BarPublisher
	writer  drepo.BarWriter
	metrics drepo.Metrics
	backend string
}

// NewBarProcessor creates a new BarProcessor instance.
func NewBarProcessor(
	pub drepo.BarPublisher,
	writer drepo.BarWriter,
	metrics drepo.Metrics,
	backend string,
) *BarProcessor {
	return &BarProcessor{
		pub:     pub,
		writer:  writer,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single bar to the configured backend.
func (p *BarProcessor) Process(ctx context.Context, symbol string, b models.Bar) error {
	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, symbol, b)
	case "postgres":
		err = p.writer.Store(ctx, symbol, b)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process bar: %w", err)
	}

	p.metrics.RecordBarsStored(p.backend, symbol, 1)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes a full window of bars in one backend call.
func (p *BarProcessor) ProcessBatch(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, symbol, bars)
	case "postgres":
		err = p.writer.StoreBatch(ctx, symbol, bars)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	p.metrics.RecordBarsStored(p.backend, symbol, len(bars))
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *BarProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.writer != nil {
		_ = p.writer.Close()
	}
}
