package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	drepo "SignalDesk/internal/domain/repository"
)

func TestFetchDailySortsAscending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Fatalf("symbol query missing: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-Api-Key") != "k" {
			t.Fatalf("api key header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","bars":[
			{"date":"2024-03-15","o":102,"h":104,"l":101,"c":103,"v":900},
			{"date":"2024-03-14","o":100,"h":103,"l":99,"c":102,"v":1000}
		]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, 2*time.Second)
	bars, err := c.FetchDaily(context.Background(), "AAPL", 100)
	if err != nil {
		t.Fatalf("fetch daily: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Fatalf("bars not ascending: %v then %v", bars[0].Date, bars[1].Date)
	}
	if bars[1].Close != 103 {
		t.Fatalf("latest close = %v, want 103", bars[1].Close)
	}
}

func TestFetchDailyUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New("k", srv.URL, 2*time.Second)
	_, err := c.FetchDaily(context.Background(), "NOPE", 100)
	if !errors.Is(err, drepo.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestFetchDailyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New("k", srv.URL, 2*time.Second)
	_, err := c.FetchDaily(context.Background(), "AAPL", 100)
	if err == nil {
		t.Fatalf("expected error on 502")
	}
	if errors.Is(err, drepo.ErrDataUnavailable) {
		t.Fatalf("502 must not map to ErrDataUnavailable: %v", err)
	}
}

func TestFetchDailyEmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"NEWCO","bars":[]}`))
	}))
	defer srv.Close()

	c := New("k", srv.URL, 2*time.Second)
	_, err := c.FetchDaily(context.Background(), "NEWCO", 100)
	if !errors.Is(err, drepo.ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
}
