package analyzer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/collector"
	"github.com/matt-tibbett/market-dashboard/internal/config"
	"github.com/matt-tibbett/market-dashboard/internal/model"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Groups: []config.Group{{
			Name: "Test",
			Instruments: []config.Instrument{
				{Symbol: "TST", Name: "Test Asset"},
			},
		}},
		Sessions: map[string]config.SessionRule{
			"Test": {TZ: "UTC", Cutoff: "0h"},
		},
		Default: config.SessionRule{TZ: "UTC", Cutoff: "0h"},
	}
	cfg.Fetch.HourlyRange = "3mo"
	cfg.Fetch.PreflightRange = "5d"
	cfg.Fetch.TimeoutSec = 5
	return cfg
}

// hourlyHistory builds days of gap-free hourly bars ending at a fixed date.
func hourlyHistory(days int) []model.Bar {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 0, days*24)
	for h := 0; h < days*24; h++ {
		price := 100 + float64(h%24)
		bars = append(bars, model.Bar{
			Time:  start.Add(time.Duration(h) * time.Hour),
			Open:  price,
			High:  price + 1,
			Low:   price - 1,
			Close: price + 0.5,
		})
	}
	return bars
}

func preflightFrame() *model.Frame {
	return collector.FrameFromBars(hourlyHistory(1)[:2])
}

func TestAnalyze_FullAnalysis(t *testing.T) {
	mock := &collector.MockFetcher{
		Daily:  map[string]*model.Frame{"TST": preflightFrame()},
		Hourly: map[string]*model.Frame{"TST": collector.FrameFromBars(hourlyHistory(40))},
	}
	a := New(mock, testConfig())

	row := a.Analyze(context.Background(), "Test", config.Instrument{Symbol: "TST", Name: "Test Asset"})
	if row.Outcome != model.OutcomeOK {
		t.Fatalf("expected full analysis, got %s", row.Outcome)
	}
	if row.Asset != "Test Asset" || row.Symbol != "TST" {
		t.Errorf("identity not carried: %+v", row)
	}
	if row.Signal != model.SignalNone && row.Signal != model.SignalShort && row.Signal != model.SignalLong {
		t.Errorf("unexpected signal %q", row.Signal)
	}
}

func TestAnalyze_NoDataOnEmptyPreflight(t *testing.T) {
	mock := &collector.MockFetcher{} // every fetch returns an empty frame
	a := New(mock, testConfig())

	row := a.Analyze(context.Background(), "Test", config.Instrument{Symbol: "XYZ=F", Name: "Missing"})
	if row.Outcome != model.OutcomeNoData {
		t.Fatalf("expected no-data row, got %s", row.Outcome)
	}
	if row.Signal != model.SignalNone {
		t.Errorf("degraded row must carry no signal, got %q", row.Signal)
	}
	if row.Flags != (model.Flags{}) {
		t.Errorf("degraded row must carry no flags, got %+v", row.Flags)
	}
}

func TestAnalyze_NoDataOnPreflightError(t *testing.T) {
	mock := &collector.MockFetcher{DailyErr: fmt.Errorf("connection refused")}
	a := New(mock, testConfig())

	row := a.Analyze(context.Background(), "Test", config.Instrument{Symbol: "TST", Name: "Test Asset"})
	if row.Outcome != model.OutcomeNoData {
		t.Fatalf("expected no-data row, got %s", row.Outcome)
	}
}

func TestAnalyze_ErrorOnBadShape(t *testing.T) {
	badFrame := &model.Frame{
		Index: []time.Time{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		Columns: []model.Column{
			{Levels: []string{"x"}, Values: []float64{1}},
			{Levels: []string{"y"}, Values: []float64{2}},
		},
	}
	mock := &collector.MockFetcher{
		Daily:  map[string]*model.Frame{"TST": preflightFrame()},
		Hourly: map[string]*model.Frame{"TST": badFrame},
	}
	a := New(mock, testConfig())

	row := a.Analyze(context.Background(), "Test", config.Instrument{Symbol: "TST", Name: "Test Asset"})
	if row.Outcome != model.OutcomeError {
		t.Fatalf("expected error row, got %s", row.Outcome)
	}
}

func TestAnalyze_ErrorOnHourlyFetchFailure(t *testing.T) {
	mock := &collector.MockFetcher{
		Daily:     map[string]*model.Frame{"TST": preflightFrame()},
		HourlyErr: fmt.Errorf("rate limited"),
	}
	a := New(mock, testConfig())

	row := a.Analyze(context.Background(), "Test", config.Instrument{Symbol: "TST", Name: "Test Asset"})
	if row.Outcome != model.OutcomeError {
		t.Fatalf("expected error row, got %s", row.Outcome)
	}
}

func TestRunAll_OneBadInstrumentDoesNotBlockOthers(t *testing.T) {
	cfg := testConfig()
	cfg.Groups = []config.Group{{
		Name: "Test",
		Instruments: []config.Instrument{
			{Symbol: "GOOD", Name: "Good"},
			{Symbol: "MISSING", Name: "Missing"},
		},
	}}
	mock := &collector.MockFetcher{
		Daily:  map[string]*model.Frame{"GOOD": preflightFrame()},
		Hourly: map[string]*model.Frame{"GOOD": collector.FrameFromBars(hourlyHistory(40))},
	}
	a := New(mock, cfg)

	results := a.RunAll(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected 1 group, got %d", len(results))
	}
	rows := results[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected one row per instrument, got %d", len(rows))
	}
	if rows[0].Outcome != model.OutcomeOK {
		t.Errorf("GOOD should analyze fully, got %s", rows[0].Outcome)
	}
	if rows[1].Outcome != model.OutcomeNoData {
		t.Errorf("MISSING should be no-data, got %s", rows[1].Outcome)
	}
}
