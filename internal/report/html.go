// Package report renders batch results as a static HTML dashboard.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

const (
	tick  = "✅"
	cross = "❌"
)

// flagHeaders are the per-flag column titles, in render order.
var flagHeaders = []string{
	"Inside Week", "Inside PW Range", "HOM", "HOW", "FRD", "LOM", "LOW", "FGD", "Inside Day",
}

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; padding: 40px; background: #fafafa; color: #222; }
table { border-collapse: collapse; margin-top: 20px; width: 90%; }
th, td { border: 1px solid #ccc; padding: 8px 12px; text-align: center; }
th { background-color: #f2f2f2; }
td { font-size: 1.1em; }
h2 { margin-top: 40px; color: #333; }
.short { color: red; font-weight: bold; }
.long { color: green; font-weight: bold; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Groups}}<h2>{{.Name}}</h2>
<table>
<tr><th>Asset</th><th>Symbol</th><th>Signal</th>{{range $.FlagHeaders}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><td>{{.Asset}}</td><td>{{.Symbol}}</td><td class="{{.SignalClass}}">{{.Signal}}</td>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}<p>Last updated: {{.Updated}} UTC</p>
</body>
</html>
`

var tmpl = template.Must(template.New("dashboard").Parse(page))

type rowView struct {
	Asset       string
	Symbol      string
	Signal      string
	SignalClass string
	Cells       []string
}

type groupView struct {
	Name string
	Rows []rowView
}

type pageView struct {
	Title       string
	FlagHeaders []string
	Groups      []groupView
	Updated     string
}

// Write renders the dashboard and writes it atomically to path.
func Write(path, title string, groups []model.GroupResult) error {
	view := pageView{
		Title:       title,
		FlagHeaders: flagHeaders,
		Updated:     time.Now().UTC().Format("2006-01-02 15:04"),
	}
	for _, g := range groups {
		gv := groupView{Name: g.Name}
		for _, r := range g.Rows {
			gv.Rows = append(gv.Rows, renderRow(r))
		}
		view.Groups = append(view.Groups, gv)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	tmp := path + ".tmp"
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace dashboard: %w", err)
	}
	return nil
}

func renderRow(r model.Row) rowView {
	rv := rowView{Asset: r.Asset, Symbol: r.Symbol, Signal: string(model.SignalNone)}

	switch r.Outcome {
	case model.OutcomeNoData:
		rv.Cells = repeat("No data", len(flagHeaders))
		return rv
	case model.OutcomeError:
		rv.Cells = repeat("Error", len(flagHeaders))
		return rv
	}

	rv.Signal = string(r.Signal)
	switch r.Signal {
	case model.SignalShort:
		rv.SignalClass = "short"
	case model.SignalLong:
		rv.SignalClass = "long"
	}
	f := r.Flags
	for _, v := range []bool{
		f.InsideWeek, f.InsidePrevWeekRange, f.HighOfMonth, f.HighOfWeek,
		f.FirstRedDay, f.LowOfMonth, f.LowOfWeek, f.FirstGreenDay, f.InsideDay,
	} {
		if v {
			rv.Cells = append(rv.Cells, tick)
		} else {
			rv.Cells = append(rv.Cells, cross)
		}
	}
	return rv
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
