package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"SignalDesk/internal/domain/models"
	drepo "SignalDesk/internal/domain/repository"
	xhttp "SignalDesk/pkg/http"
)

// Client implements MarketDataProvider against a daily OHLCV REST vendor.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
}

// New creates a new market data client.
func New(apiKey, baseURL string, timeout time.Duration) drepo.MarketDataProvider {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type dailyBar struct {
	Date string  `json:"date"`
	O    float64 `json:"o"`
	H    float64 `json:"h"`
	L    float64 `json:"l"`
	C    float64 `json:"c"`
	V    int64   `json:"v"`
}

type dailyResponse struct {
	Symbol string     `json:"symbol"`
	Bars   []dailyBar `json:"bars"`
}

// FetchDaily pulls up to lookback daily bars for symbol, ascending by date.
func (c *Client) FetchDaily(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if lookback <= 0 {
		lookback = 365
	}

	httpResp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/daily",
		Headers: map[string]string{
			"X-Api-Key": c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"limit":  {strconv.Itoa(lookback)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("daily %s: %w", symbol, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, drepo.ErrDataUnavailable
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("daily %s: unexpected status %d: %s", symbol, httpResp.StatusCode, body)
	}

	var resp dailyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("daily %s: decode: %w", symbol, err)
	}
	if len(resp.Bars) == 0 {
		return nil, drepo.ErrDataUnavailable
	}

	out := make([]models.Bar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		date, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return nil, fmt.Errorf("daily %s: bad date %q: %w", symbol, b.Date, err)
		}
		out = append(out, models.Bar{
			Date:   date,
			Open:   b.O,
			High:   b.H,
			Low:    b.L,
			Close:  b.C,
			Volume: b.V,
		})
	}
	// vendors disagree on ordering, normalize to ascending
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if len(out) > lookback {
		out = out[len(out)-lookback:]
	}
	return out, nil
}
