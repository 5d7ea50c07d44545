// Package normalize repairs raw data-source frames into canonical bar series.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// Required is the canonical column set every normalized series must carry.
var Required = []string{"Open", "High", "Low", "Close"}

// ShapeError reports an upstream format the repair rules could not recover.
type ShapeError struct {
	Missing []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("missing expected columns: %s", strings.Join(e.Missing, ", "))
}

// rule is a single column-label repair strategy. Rules are tried in order
// and the first whose precondition holds is applied; the rest are skipped.
type rule struct {
	name    string
	applies func(labels []string) bool
	apply   func(labels []string) []string
}

var rules = []rule{
	{
		// Degenerate labeling: every column carries one identical label
		// (seen when a compound header collapses to the ticker itself).
		name: "positional-degenerate",
		applies: func(labels []string) bool {
			if len(labels) < 5 {
				return false
			}
			for _, l := range labels[1:] {
				if l != labels[0] {
					return false
				}
			}
			return true
		},
		apply: func(labels []string) []string {
			return assignPositional(labels, []string{"Open", "High", "Low", "Close", "Volume"})
		},
	},
	{
		// Prefixed labels such as "clf_open": strip the prefix and
		// title-case the suffix.
		name: "strip-prefix",
		applies: func(labels []string) bool {
			if len(labels) == 0 {
				return false
			}
			for _, l := range labels {
				if !strings.Contains(l, "_") {
					return false
				}
			}
			return true
		},
		apply: func(labels []string) []string {
			out := make([]string, len(labels))
			for i, l := range labels {
				parts := strings.Split(l, "_")
				out[i] = title(parts[len(parts)-1])
			}
			return out
		},
	},
	{
		// Unrecognized labels: assume the source kept the conventional
		// OHLC ordering and assign the first four names positionally.
		name: "positional-fallback",
		applies: func(labels []string) bool {
			return !hasAll(labels, Required)
		},
		apply: func(labels []string) []string {
			return assignPositional(labels, Required)
		},
	},
}

// Normalize repairs a raw frame into a canonical, UTC-indexed bar series.
// Column labels are fixed by the first matching repair rule, adjusted closes
// substitute for raw closes, and rows with a missing required field are
// dropped. A *ShapeError is returned when no rule recovers the four
// required columns.
func Normalize(f *model.Frame) ([]model.Bar, error) {
	if f == nil {
		return nil, &ShapeError{Missing: Required}
	}

	// Compound headers collapse to the inner label before any rule runs.
	labels := f.Labels()

	for _, r := range rules {
		if r.applies(labels) {
			labels = r.apply(labels)
			break
		}
	}

	// Adjusted close substitutes for raw close.
	for i, l := range labels {
		if l == "Adj Close" || l == "AdjClose" {
			labels[i] = "Close"
		}
	}

	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, ok := idx[l]; !ok {
			idx[l] = i
		}
	}

	var missing []string
	for _, name := range Required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ShapeError{Missing: missing}
	}

	volIdx, hasVol := idx["Volume"]

	bars := make([]model.Bar, 0, len(f.Index))
	for row, ts := range f.Index {
		b := model.Bar{
			Time:  ts.UTC(),
			Open:  cell(f, idx["Open"], row),
			High:  cell(f, idx["High"], row),
			Low:   cell(f, idx["Low"], row),
			Close: cell(f, idx["Close"], row),
		}
		if math.IsNaN(b.Open) || math.IsNaN(b.High) || math.IsNaN(b.Low) || math.IsNaN(b.Close) {
			continue
		}
		if hasVol {
			if v := cell(f, volIdx, row); !math.IsNaN(v) {
				b.Volume = v
			}
		}
		bars = append(bars, b)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func cell(f *model.Frame, col, row int) float64 {
	if row >= len(f.Columns[col].Values) {
		return math.NaN()
	}
	return f.Columns[col].Values[row]
}

func assignPositional(labels, names []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	for i := 0; i < len(out) && i < len(names); i++ {
		out[i] = names[i]
	}
	return out
}

func hasAll(labels, want []string) bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func title(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
