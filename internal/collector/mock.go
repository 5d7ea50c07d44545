package collector

import (
	"context"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Hourly    map[string]*model.Frame
	Daily     map[string]*model.Frame
	HourlyErr error
	DailyErr  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHourly(_ context.Context, symbol, _ string) (*model.Frame, error) {
	if m.HourlyErr != nil {
		return nil, m.HourlyErr
	}
	if f, ok := m.Hourly[symbol]; ok {
		return f, nil
	}
	return &model.Frame{}, nil
}

func (m *MockFetcher) FetchDaily(_ context.Context, symbol, _ string) (*model.Frame, error) {
	if m.DailyErr != nil {
		return nil, m.DailyErr
	}
	if f, ok := m.Daily[symbol]; ok {
		return f, nil
	}
	return &model.Frame{}, nil
}

// FrameFromBars builds a canonical frame from bars, handy for mocks.
func FrameFromBars(bars []model.Bar) *model.Frame {
	index := make([]time.Time, len(bars))
	cols := make([][]float64, 5)
	for i := range cols {
		cols[i] = make([]float64, len(bars))
	}
	for i, b := range bars {
		index[i] = b.Time
		cols[0][i] = b.Open
		cols[1][i] = b.High
		cols[2][i] = b.Low
		cols[3][i] = b.Close
		cols[4][i] = b.Volume
	}
	f := &model.Frame{Index: index}
	for i, name := range []string{"Open", "High", "Low", "Close", "Volume"} {
		f.Columns = append(f.Columns, model.Column{Levels: []string{name}, Values: cols[i]})
	}
	return f
}
