package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bar API that serves
// JSON arrays of OHLCV rows. Useful when Yahoo is rate-limited or blocked.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON row shape from the bar API.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func (f *RESTFetcher) FetchHourly(ctx context.Context, symbol, rng string) (*model.Frame, error) {
	return f.fetchFrame(ctx, symbol, "1h", rng)
}

func (f *RESTFetcher) FetchDaily(ctx context.Context, symbol, rng string) (*model.Frame, error) {
	return f.fetchFrame(ctx, symbol, "1d", rng)
}

func (f *RESTFetcher) fetchFrame(ctx context.Context, symbol, interval, rng string) (*model.Frame, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&interval=%s&range=%s",
		f.BaseURL, url.QueryEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows []restBar
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })

	frame := &model.Frame{Index: make([]time.Time, len(rows))}
	cols := make([][]float64, 5)
	for i := range cols {
		cols[i] = make([]float64, len(rows))
	}
	for i, r := range rows {
		frame.Index[i] = time.Unix(r.Timestamp, 0).UTC()
		cols[0][i] = deref(r.Open)
		cols[1][i] = deref(r.High)
		cols[2][i] = deref(r.Low)
		cols[3][i] = deref(r.Close)
		cols[4][i] = deref(r.Volume)
	}
	for i, name := range []string{"Open", "High", "Low", "Close", "Volume"} {
		frame.Columns = append(frame.Columns, model.Column{Levels: []string{name}, Values: cols[i]})
	}
	return frame, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
