// Package analyzer orchestrates fetch, normalization, resampling, and
// signal evaluation for each configured instrument.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/collector"
	"github.com/matt-tibbett/market-dashboard/internal/config"
	"github.com/matt-tibbett/market-dashboard/internal/model"
	"github.com/matt-tibbett/market-dashboard/internal/normalize"
	"github.com/matt-tibbett/market-dashboard/internal/session"
	"github.com/matt-tibbett/market-dashboard/internal/signals"
)

// Analyzer runs the per-instrument pipeline.
type Analyzer struct {
	Fetcher collector.Fetcher
	Cfg     *config.Config
}

// New creates an Analyzer.
func New(fetcher collector.Fetcher, cfg *config.Config) *Analyzer {
	return &Analyzer{Fetcher: fetcher, Cfg: cfg}
}

func (a *Analyzer) timeout() time.Duration {
	return time.Duration(a.Cfg.Fetch.TimeoutSec) * time.Second
}

// Analyze produces exactly one result row for the instrument. A failed or
// empty pre-flight yields a no-data row; any later failure yields an error
// row. Neither aborts the caller's batch.
func (a *Analyzer) Analyze(ctx context.Context, group string, ins config.Instrument) model.Row {
	row := model.Row{Asset: ins.Name, Symbol: ins.Symbol, Signal: model.SignalNone}

	ctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	probe, err := a.Fetcher.FetchDaily(ctx, ins.Symbol, a.Cfg.Fetch.PreflightRange)
	if err != nil || probe.Empty() {
		if err != nil {
			log.Printf("[WARN] %s pre-flight failed: %v", ins.Symbol, err)
		} else {
			log.Printf("[WARN] %s returned no recent data, skipping", ins.Symbol)
		}
		row.Outcome = model.OutcomeNoData
		return row
	}

	flags, sig, err := a.analyze(ctx, group, ins)
	if err != nil {
		log.Printf("[ERROR] %s analysis failed: %v", ins.Symbol, err)
		row.Outcome = model.OutcomeError
		return row
	}

	row.Outcome = model.OutcomeOK
	row.Flags = flags
	row.Signal = sig
	return row
}

func (a *Analyzer) analyze(ctx context.Context, group string, ins config.Instrument) (model.Flags, model.Signal, error) {
	var none model.Flags

	frame, err := a.Fetcher.FetchHourly(ctx, ins.Symbol, a.Cfg.Fetch.HourlyRange)
	if err != nil {
		return none, model.SignalNone, fmt.Errorf("fetch hourly bars: %w", err)
	}

	bars, err := normalize.Normalize(frame)
	if err != nil {
		return none, model.SignalNone, fmt.Errorf("normalize: %w", err)
	}

	rule := a.Cfg.SessionFor(ins.Symbol, group)
	spec, err := session.NewSpec(rule.TZ, rule.Cutoff, rule.Shifted)
	if err != nil {
		return none, model.SignalNone, fmt.Errorf("session spec: %w", err)
	}

	daily := session.Daily(bars, spec)
	if len(daily) == 0 {
		return none, model.SignalNone, fmt.Errorf("no daily candles after resampling")
	}
	weekly := session.Weekly(daily)

	flags, sig := signals.Evaluate(daily, weekly)
	return flags, sig, nil
}
