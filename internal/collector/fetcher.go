package collector

import (
	"context"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// Fetcher defines the interface for fetching raw market data frames.
// Frames come back in whatever column shape the source uses; the
// normalizer is responsible for repairing them.
type Fetcher interface {
	// FetchHourly returns hourly bars covering the given lookback range
	// (e.g. "3mo").
	FetchHourly(ctx context.Context, symbol, rng string) (*model.Frame, error)
	// FetchDaily returns daily bars; used as a cheap pre-flight
	// existence check before full analysis.
	FetchDaily(ctx context.Context, symbol, rng string) (*model.Frame, error)
	Name() string
}
