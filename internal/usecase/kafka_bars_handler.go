package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	pkgkafka "SignalDesk/pkg/kafka"
)

// KafkaBarsHandler consumes daily bar messages and writes them to storage.
type KafkaBarsHandler struct {
	topic   string
	writer  domrepo.BarWriter
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, writer domrepo.BarWriter, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, writer: writer, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, date, o, h, l, c, v}
func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		Date   string  `json:"date"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      int64   `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.Symbol == "" {
		h.metrics.RecordError("consumer_empty_symbol")
		return fmt.Errorf("bar message missing symbol")
	}
	date, err := time.Parse("2006-01-02", m.Date)
	if err != nil {
		h.metrics.RecordError("consumer_bad_date")
		return fmt.Errorf("bar message date %q: %w", m.Date, err)
	}

	start := time.Now()
	err = h.writer.Store(ctx, m.Symbol, models.Bar{
		Date:   date,
		Open:   m.O,
		High:   m.H,
		Low:    m.L,
		Close:  m.C,
		Volume: m.V,
	})
	h.metrics.RecordLatency("store_bar_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordBarsStored("postgres", m.Symbol, 1)
	h.metrics.RecordLastClose(m.Symbol, m.C)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
