package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
)

type memWriter struct {
	stored map[string][]models.Bar
	fail   bool
}

func newMemWriter() *memWriter { return &memWriter{stored: map[string][]models.Bar{}} }

func (w *memWriter) Store(_ context.Context, symbol string, b models.Bar) error {
	if w.fail {
		return context.DeadlineExceeded
	}
	w.stored[symbol] = append(w.stored[symbol], b)
	return nil
}

func (w *memWriter) StoreBatch(_ context.Context, symbol string, bars []models.Bar) error {
	if w.fail {
		return context.DeadlineExceeded
	}
	w.stored[symbol] = append(w.stored[symbol], bars...)
	return nil
}

func (w *memWriter) Health(context.Context) error { return nil }
func (w *memWriter) Close() error                 { return nil }

type memPublisher struct {
	published map[string][]models.Bar
}

func newMemPublisher() *memPublisher { return &memPublisher{published: map[string][]models.Bar{}} }

func (p *memPublisher) Publish(_ context.Context, symbol string, b models.Bar) error {
	p.published[symbol] = append(p.published[symbol], b)
	return nil
}

func (p *memPublisher) PublishBatch(_ context.Context, symbol string, bars []models.Bar) error {
	p.published[symbol] = append(p.published[symbol], bars...)
	return nil
}

func (p *memPublisher) Close() error { return nil }

func TestBarProcessorPostgresBackend(t *testing.T) {
	w := newMemWriter()
	proc := NewBarProcessor(newMemPublisher(), w, nopMetrics{}, "postgres")

	bars := risingBars(3)
	if err := proc.ProcessBatch(context.Background(), "AAPL", bars); err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if len(w.stored["AAPL"]) != 3 {
		t.Fatalf("stored %d bars, want 3", len(w.stored["AAPL"]))
	}
}

func TestBarProcessorKafkaBackend(t *testing.T) {
	pub := newMemPublisher()
	proc := NewBarProcessor(pub, newMemWriter(), nopMetrics{}, "kafka")

	if err := proc.Process(context.Background(), "AAPL", risingBars(1)[0]); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(pub.published["AAPL"]) != 1 {
		t.Fatalf("published %d bars, want 1", len(pub.published["AAPL"]))
	}
}

func TestBarProcessorUnknownBackend(t *testing.T) {
	proc := NewBarProcessor(newMemPublisher(), newMemWriter(), nopMetrics{}, "sqlite")
	err := proc.Process(context.Background(), "AAPL", risingBars(1)[0])
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("err = %v, want unknown backend", err)
	}
}

func TestKafkaBarsHandlerStoresBar(t *testing.T) {
	w := newMemWriter()
	h := NewKafkaBarsHandler("bars.daily", w, nopMetrics{})

	msg := []byte(`{"symbol":"AAPL","date":"2024-03-15","o":101,"h":103,"l":100,"c":102.5,"v":125000}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	got := w.stored["AAPL"]
	if len(got) != 1 {
		t.Fatalf("stored %d bars, want 1", len(got))
	}
	if got[0].Close != 102.5 || got[0].Volume != 125000 {
		t.Fatalf("bar = %+v", got[0])
	}
	if !got[0].Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", got[0].Date)
	}
}

func TestKafkaBarsHandlerRejectsBadMessages(t *testing.T) {
	h := NewKafkaBarsHandler("bars.daily", newMemWriter(), nopMetrics{})

	if err := h.Handle(context.Background(), []byte(`not json`)); err == nil {
		t.Fatalf("malformed json must error")
	}
	if err := h.Handle(context.Background(), []byte(`{"date":"2024-03-15","c":1}`)); err == nil {
		t.Fatalf("missing symbol must error")
	}
	if err := h.Handle(context.Background(), []byte(`{"symbol":"AAPL","date":"15/03/2024","c":1}`)); err == nil {
		t.Fatalf("bad date must error")
	}
}

func TestGetBarsValidation(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": risingBars(10)}}
	uc := NewBarsUseCase(store)

	if _, err := uc.GetBars(context.Background(), GetBarsParams{}); err == nil {
		t.Fatalf("empty symbol must error")
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := uc.GetBars(context.Background(), GetBarsParams{
		Symbol: "AAPL", From: from.AddDate(0, 1, 0), To: from,
	}); err == nil {
		t.Fatalf("from after to must error")
	}

	res, err := uc.GetBars(context.Background(), GetBarsParams{
		Symbol: "AAPL", From: from, To: from.AddDate(0, 1, 0), Limit: 5,
	})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if res.Count != 5 || len(res.Bars) != 5 {
		t.Fatalf("count = %d, want limit applied", res.Count)
	}
	if res.Timeframe != "1d" {
		t.Fatalf("timeframe = %q, want default 1d", res.Timeframe)
	}
}

func TestGetBarsAlignsRange(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": risingBars(10)}}
	uc := NewBarsUseCase(store)

	// Wednesday to Friday, weekly buckets snap both ends to Monday 00:00.
	from := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)
	to := time.Date(2024, 3, 22, 9, 0, 0, 0, time.UTC)
	res, err := uc.GetBars(context.Background(), GetBarsParams{
		Symbol: "AAPL", From: from, To: to, Timeframe: "1wk",
	})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	wantFrom := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	if !res.From.Equal(wantFrom) || !res.To.Equal(wantTo) {
		t.Fatalf("range = %v..%v, want %v..%v", res.From, res.To, wantFrom, wantTo)
	}
	if res.Timeframe != "1wk" {
		t.Fatalf("timeframe = %q, want 1wk", res.Timeframe)
	}

	// Mid-month range snaps to the first of each month.
	res, err = uc.GetBars(context.Background(), GetBarsParams{
		Symbol: "AAPL", From: from, To: to, Timeframe: "1mo",
	})
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	first := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !res.From.Equal(first) || !res.To.Equal(first) {
		t.Fatalf("range = %v..%v, want both %v", res.From, res.To, first)
	}
}
