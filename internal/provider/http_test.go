package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"BreakoutRadar/internal/model"
)

func TestHTTPProvider_Bars(t *testing.T) {
	day := int64(24 * 60 * 60)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chart/TEST" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("interval = %q", got)
		}
		// Out of order, one duplicate, one null holiday bar.
		fmt.Fprintf(w, `{"bars":[
			{"timestamp":%d,"open":101,"high":102,"low":100,"close":101.5,"volume":1000},
			{"timestamp":%d,"open":100,"high":101,"low":99,"close":100.5,"volume":1000},
			{"timestamp":%d,"open":0,"high":0,"low":0,"close":0,"volume":0},
			{"timestamp":%d,"open":101,"high":103,"low":100,"close":102,"volume":2000}
		]}`, base+day, base, base+2*day, base+day)
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{BaseURL: srv.URL, APIKey: "secret", RequestsPerSec: 100}, zerolog.Nop())

	bars, err := p.Bars(context.Background(), "TEST", model.TimeframeDaily,
		time.Unix(base, 0), time.Unix(base+3*day, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("len = %d, want 2 (sorted, deduped, null bar dropped)", len(bars))
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars must come back sorted ascending")
	}
	if bars[1].Close != 102 {
		t.Errorf("duplicate timestamp: close = %v, want the later 102", bars[1].Close)
	}
}

func TestHTTPProvider_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"unknown symbol"}`)
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{BaseURL: srv.URL, RequestsPerSec: 100}, zerolog.Nop())
	_, err := p.Bars(context.Background(), "NOPE", model.TimeframeDaily, time.Now().AddDate(0, 0, -10), time.Now())
	if err == nil {
		t.Fatal("expected error from provider error payload")
	}
}

func TestHTTPProvider_UnsupportedTimeframe(t *testing.T) {
	p := NewHTTPProvider(HTTPConfig{BaseURL: "http://127.0.0.1:0"}, zerolog.Nop())
	_, err := p.Bars(context.Background(), "TEST", model.Timeframe("monthly"), time.Now().AddDate(0, 0, -10), time.Now())
	if err == nil {
		t.Fatal("expected error for unsupported timeframe")
	}
}
