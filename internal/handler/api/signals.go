package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	models "SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	"SignalDesk/internal/service/cache"
	svcmetrics "SignalDesk/internal/service/metrics"
	"SignalDesk/internal/service/ratelimit"
	"SignalDesk/internal/usecase"
	xhttp "SignalDesk/pkg/http"
	xlogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/queue"
	xutil "SignalDesk/pkg/util"

	"github.com/labstack/echo/v4"
)

const (
	signalsCacheTTL = 30 * time.Second
	rlCapacity      = 10
	rlRefillPerSec  = 5
)

// SignalsHandler exposes the signal pipeline over HTTP.
type SignalsHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.SignalPipeline
	bars     *usecase.BarsUseCase
	archive  domrepo.SignalArchive
	queue    queue.QueueService
	cache    cache.BytesCache
	limiter  *ratelimit.Limiter
	health   func(c echo.Context) error
}

func NewSignalsHandler(
	logger *xlogger.Logger,
	pipeline *usecase.SignalPipeline,
	bars *usecase.BarsUseCase,
	archive domrepo.SignalArchive,
	q queue.QueueService,
	bc cache.BytesCache,
	limiter *ratelimit.Limiter,
) *SignalsHandler {
	return &SignalsHandler{
		logger:   logger,
		pipeline: pipeline,
		bars:     bars,
		archive:  archive,
		queue:    q,
		cache:    bc,
		limiter:  limiter,
	}
}

// SetHealthCheck injects an optional storage health probe for /healthz.
func (h *SignalsHandler) SetHealthCheck(fn func(c echo.Context) error) { h.health = fn }

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/signals/history", h.History)
	g.GET("/bars", h.Bars)
	g.POST("/refresh", h.Refresh)
	e.GET("/healthz", h.Healthz)
}

func (h *SignalsHandler) Signals(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.SignalLatency.WithLabelValues("signals").Observe(time.Since(start).Seconds())
	}()

	if h.limiter != nil && !h.limiter.Allow(c.RealIP(), rlCapacity, rlRefillPerSec) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		svcmetrics.SignalErrors.WithLabelValues("signals").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := string(domrepo.NormalizeTimeframe(req.Timeframe))

	key := fmt.Sprintf("signals:%s:%s:%d", req.Symbol, tf, req.Lookback)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(key); err == nil && ok {
			var cached models.SignalResponse
			if err := json.Unmarshal(b, &cached); err == nil {
				svcmetrics.SignalCacheHits.WithLabelValues("signals").Inc()
				c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
				return xhttp.SuccessResponse(c, &cached)
			}
		}
	}

	resp := h.pipeline.GenerateSignals(c.Request().Context(), req.Symbol, tf, req.Lookback)
	if !resp.Success {
		svcmetrics.SignalErrors.WithLabelValues("signals").Inc()
	} else if h.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = h.cache.SetBytes(key, b, signalsCacheTTL)
		}
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *SignalsHandler) History(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.SignalLatency.WithLabelValues("history").Observe(time.Since(start).Seconds())
	}()

	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.archive == nil {
		return xhttp.NotFoundResponse(c, "signal history not enabled")
	}

	entries, err := h.archive.GetSignalHistory(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		svcmetrics.SignalErrors.WithLabelValues("history").Inc()
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

func (h *SignalsHandler) Bars(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.SignalLatency.WithLabelValues("bars").Observe(time.Since(start).Seconds())
	}()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol:    req.Symbol,
		From:      from,
		To:        to,
		Timeframe: domrepo.Timeframe(req.Timeframe),
		Limit:     req.Limit,
	})
	if err != nil {
		svcmetrics.SignalErrors.WithLabelValues("bars").Inc()
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Refresh(c echo.Context) error {
	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.queue == nil {
		return xhttp.NotFoundResponse(c, "refresh queue not enabled")
	}

	err := h.queue.PublishMessage(c.Request().Context(), usecase.RefreshJobType, usecase.RefreshPayload{
		Symbol:   req.Symbol,
		Lookback: req.Lookback,
	})
	if err != nil {
		svcmetrics.SignalErrors.WithLabelValues("refresh").Inc()
		h.logger.Error("refresh enqueue error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]interface{}{
		"symbol":   req.Symbol,
		"lookback": req.Lookback,
		"queued":   true,
	})
}

func (h *SignalsHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health(c); err != nil {
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// parseRange interprets from/to as yyyy-mm-dd, RFC3339 or unix seconds,
// defaulting to the last year.
func parseRange(from, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	f := now.AddDate(-1, 0, 0)
	t := now

	if from != "" {
		v, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q", from)
		}
		f = v
	}
	if to != "" {
		v, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q", to)
		}
		t = v
	}
	return f, t, nil
}

func parseDate(s string) (time.Time, error) {
	if v, err := time.Parse("2006-01-02", s); err == nil {
		return v, nil
	}
	if v, ok := xutil.ParseTime(s); ok {
		return v, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
