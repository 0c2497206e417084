package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"BreakoutRadar/internal/model"
)

// HTTPProvider implements PriceSeriesProvider against a chart-style REST API.
// All blocking concerns live here: request timeout, token-bucket rate
// limiting, exponential-backoff retry, and a circuit breaker. Core analysis
// code never sees any of this.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// HTTPConfig configures the HTTP provider boundary.
type HTTPConfig struct {
	BaseURL        string
	APIKey         string
	Proxy          string
	Timeout        time.Duration
	RequestsPerSec float64
	MaxRetries     uint64
}

// NewHTTPProvider creates a provider with optional proxy support.
func NewHTTPProvider(cfg HTTPConfig, log zerolog.Logger) *HTTPProvider {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSec
	if rps == 0 {
		rps = 2
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "price-provider",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout, Transport: transport},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		breaker: breaker,
		log:     log,
	}
}

func (p *HTTPProvider) Name() string { return "http" }

// chartResponse is the provider wire format.
type chartResponse struct {
	Bars []struct {
		Timestamp int64   `json:"timestamp"`
		Open      float64 `json:"open"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
		Volume    float64 `json:"volume"`
	} `json:"bars"`
	Error string `json:"error,omitempty"`
}

var intervalByTimeframe = map[model.Timeframe]string{
	model.TimeframeWeekly: "1wk",
	model.TimeframeDaily:  "1d",
	model.TimeframeHourly: "1h",
}

// Bars fetches, validates, sorts, and deduplicates the requested range.
func (p *HTTPProvider) Bars(ctx context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.PriceBar, error) {
	interval, ok := intervalByTimeframe[tf]
	if !ok {
		return nil, fmt.Errorf("unsupported timeframe %q", tf)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := fmt.Sprintf("%s/v1/chart/%s?interval=%s&from=%d&to=%d",
		p.baseURL, url.PathEscape(symbol), interval, start.Unix(), end.Unix())

	var body []byte
	fetch := func() error {
		res, err := p.breaker.Execute(func() (interface{}, error) {
			return p.doRequest(ctx, u)
		})
		if err != nil {
			return err
		}
		body = res.([]byte)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.RetryNotify(fetch, policy, func(err error, next time.Duration) {
		p.log.Warn().Err(err).Str("symbol", symbol).Dur("retry_in", next).Msg("provider fetch failed, retrying")
	}); err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, tf, err)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if chart.Error != "" {
		return nil, fmt.Errorf("provider error for %s: %s", symbol, chart.Error)
	}

	bars := make([]model.PriceBar, 0, len(chart.Bars))
	for _, raw := range chart.Bars {
		if raw.Open == 0 && raw.High == 0 && raw.Low == 0 && raw.Close == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Time:   time.Unix(raw.Timestamp, 0).UTC(),
			Open:   raw.Open,
			High:   raw.High,
			Low:    raw.Low,
			Close:  raw.Close,
			Volume: raw.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	bars = dedupeBars(bars)

	if err := ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("malformed series for %s %s: %w", symbol, tf, err)
	}
	return bars, nil
}

func (p *HTTPProvider) doRequest(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("User-Agent", "BreakoutRadar/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func dedupeBars(bars []model.PriceBar) []model.PriceBar {
	if len(bars) < 2 {
		return bars
	}
	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Time.Equal(out[len(out)-1].Time) {
			out[len(out)-1] = b // last write wins for duplicate timestamps
			continue
		}
		out = append(out, b)
	}
	return out
}
