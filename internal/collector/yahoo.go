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

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
// Quote fields are decoded as a generic map: the set and naming of the
// value series is not guaranteed and is repaired downstream.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote    []map[string][]interface{} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// canonicalLabels maps Yahoo payload keys to the conventional column names.
var canonicalLabels = map[string]string{
	"open":     "Open",
	"high":     "High",
	"low":      "Low",
	"close":    "Close",
	"volume":   "Volume",
	"adjclose": "Adj Close",
}

// preferredOrder fixes the column order of the emitted frame; payload maps
// have no ordering of their own.
var preferredOrder = []string{"open", "high", "low", "close", "adjclose", "volume"}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return math.NaN() // null cells stay missing for the normalizer to drop
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*model.Frame, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return &model.Frame{}, nil
	}

	result := chart.Chart.Result[0]
	index := make([]time.Time, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		index[i] = time.Unix(ts, 0).UTC()
	}

	frame := &model.Frame{Index: index}
	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		for _, key := range quoteKeys(quote) {
			frame.Columns = append(frame.Columns, model.Column{
				Levels: []string{labelFor(key)},
				Values: floatColumn(quote[key], len(index)),
			})
		}
	}
	if len(result.Indicators.AdjClose) > 0 {
		frame.Columns = append(frame.Columns, model.Column{
			Levels: []string{"Adj Close"},
			Values: floatColumn(result.Indicators.AdjClose[0].AdjClose, len(index)),
		})
	}
	return frame, nil
}

// quoteKeys returns the payload keys in preferred order, then any
// unrecognized extras sorted for determinism.
func quoteKeys(quote map[string][]interface{}) []string {
	keys := make([]string, 0, len(quote))
	seen := make(map[string]bool, len(quote))
	for _, k := range preferredOrder {
		if _, ok := quote[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extras []string
	for k := range quote {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}

func labelFor(key string) string {
	if l, ok := canonicalLabels[key]; ok {
		return l
	}
	return key
}

func floatColumn(raw []interface{}, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		if i < len(raw) {
			values[i] = toFloat(raw[i])
		} else {
			values[i] = math.NaN()
		}
	}
	return values
}

// FetchHourly fetches hourly bars for the given lookback range.
func (f *YahooFetcher) FetchHourly(ctx context.Context, symbol, rng string) (*model.Frame, error) {
	return f.fetchChart(ctx, symbol, "1h", rng)
}

// FetchDaily fetches daily bars; used for the pre-flight existence check.
func (f *YahooFetcher) FetchDaily(ctx context.Context, symbol, rng string) (*model.Frame, error) {
	return f.fetchChart(ctx, symbol, "1d", rng)
}
