package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/recommend"
	"SignalDesk/internal/risk"
	"SignalDesk/internal/service/cache"
	sig "SignalDesk/internal/signal"
	"SignalDesk/internal/usecase"
	applogger "SignalDesk/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubStore struct {
	bars map[string][]models.Bar
}

func (s *stubStore) FetchWindow(_ context.Context, symbol string, lookback int) ([]models.Bar, error) {
	bars, ok := s.bars[symbol]
	if !ok {
		return nil, domrepo.ErrDataUnavailable
	}
	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}

func (s *stubStore) GetBars(_ context.Context, symbol string, _, _ time.Time, _ int) ([]models.Bar, error) {
	return s.bars[symbol], nil
}

type stubMetrics struct{}

func (stubMetrics) RecordBarsStored(string, string, int) {}
func (stubMetrics) RecordError(string)                   {}
func (stubMetrics) RecordLastClose(string, float64)      {}
func (stubMetrics) RecordLatency(string, float64)        {}

func trendBars(n int) []models.Bar {
	out := make([]models.Bar, n)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		c := 100 + float64(i)
		out[i] = models.Bar{
			Date: d.AddDate(0, 0, i), Open: c * 0.995, High: c * 1.01, Low: c * 0.99,
			Close: c, Volume: 1000,
		}
	}
	return out
}

func testHandler(t *testing.T) *SignalsHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	conf := sig.NewStaticConfidence(nil)
	gens := []domsvc.Generator{
		sig.NewTechnicalGenerator(conf),
		sig.NewMomentumGenerator(conf),
		sig.NewVolumeGenerator(conf),
		sig.NewVolatilityGenerator(conf),
		sig.NewTrendGenerator(conf),
	}
	agg, err := sig.NewAggregator(sig.DefaultWeights(), sig.DefaultThresholds())
	if err != nil {
		t.Fatalf("aggregator: %v", err)
	}
	store := &stubStore{bars: map[string][]models.Bar{"AAPL": trendBars(100)}}
	pipeline := usecase.NewSignalPipeline(
		store, gens, agg,
		risk.NewEstimator(risk.DefaultConfig()),
		recommend.NewEngine(recommend.DefaultConfig()),
		stubMetrics{}, nil, usecase.PipelineConfig{},
	)
	return NewSignalsHandler(l, pipeline, usecase.NewBarsUseCase(store), nil, nil, cache.NewTTLCache(), nil)
}

func doRequest(h *SignalsHandler, method, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignalsEndpointSuccess(t *testing.T) {
	h := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/api/signals?symbol=AAPL")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":true`) {
		t.Fatalf("expected success response, got %s", body)
	}
	if !strings.Contains(body, `"direction":"bullish"`) {
		t.Fatalf("expected bullish direction, got %s", body)
	}
}

func TestSignalsEndpointCachesResponse(t *testing.T) {
	h := testHandler(t)
	first := doRequest(h, http.MethodGet, "/api/signals?symbol=AAPL")
	second := doRequest(h, http.MethodGet, "/api/signals?symbol=AAPL")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("codes = %d %d", first.Code, second.Code)
	}
	if second.Header().Get(echo.HeaderCacheControl) == "" {
		t.Fatalf("second request should be served from cache")
	}
}

func TestSignalsEndpointMissingSymbol(t *testing.T) {
	h := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/api/signals")
	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Fatalf("expected validation error envelope, got %s", rec.Body.String())
	}
}

func TestSignalsEndpointUnknownSymbolStillOK(t *testing.T) {
	h := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/api/signals?symbol=NOPE")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, failures are reported in the body", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":false`) {
		t.Fatalf("expected failure body, got %s", body)
	}
}

func TestBarsRangeFormats(t *testing.T) {
	h := testHandler(t)

	for _, from := range []string{"2024-01-02", "2024-01-02T00:00:00Z", "1704153600"} {
		rec := doRequest(h, http.MethodGet, "/api/bars?symbol=AAPL&from="+from)
		if !strings.Contains(rec.Body.String(), `"status":200`) {
			t.Fatalf("from=%s rejected: %s", from, rec.Body.String())
		}
	}

	rec := doRequest(h, http.MethodGet, "/api/bars?symbol=AAPL&from=02/01/2024")
	if !strings.Contains(rec.Body.String(), `"status":400`) {
		t.Fatalf("expected bad date envelope, got %s", rec.Body.String())
	}
}

func TestRefreshWithoutQueue(t *testing.T) {
	h := testHandler(t)
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", strings.NewReader(`{"symbol":"AAPL"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"status":404`) {
		t.Fatalf("expected not enabled envelope, got %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}
