package analyzer

import (
	"context"
	"log"

	"github.com/matt-tibbett/market-dashboard/internal/metrics"
	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// RunAll analyzes every configured instrument, group by group, in
// configuration order. Every instrument contributes exactly one row; a
// failing instrument never stops the batch.
func (a *Analyzer) RunAll(ctx context.Context) []model.GroupResult {
	results := make([]model.GroupResult, 0, len(a.Cfg.Groups))
	for _, g := range a.Cfg.Groups {
		log.Printf("[INFO] === %s ===", g.Name)
		gr := model.GroupResult{Name: g.Name, Rows: make([]model.Row, 0, len(g.Instruments))}
		for _, ins := range g.Instruments {
			log.Printf("[INFO] analyzing %s (%s)", ins.Symbol, ins.Name)
			row := a.Analyze(ctx, g.Name, ins)
			metrics.AnalysesTotal.WithLabelValues(g.Name, string(row.Outcome)).Inc()
			gr.Rows = append(gr.Rows, row)
		}
		results = append(results, gr)
	}
	return results
}
