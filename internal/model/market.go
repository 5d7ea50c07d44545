package model

import "time"

// Bar represents a single OHLCV bar or candle.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Column holds one labeled value series of a raw frame. Sources with
// compound headers populate more than one label level; the inner (last)
// level is the effective label.
type Column struct {
	Levels []string
	Values []float64 // NaN marks a missing cell
}

// Label returns the effective (innermost) column label.
func (c Column) Label() string {
	if len(c.Levels) == 0 {
		return ""
	}
	return c.Levels[len(c.Levels)-1]
}

// Frame is a column-oriented raw table as returned by a data source,
// prior to normalization. Index timestamps carry their own location;
// downstream treats them as UTC instants.
type Frame struct {
	Index   []time.Time
	Columns []Column
}

// Labels returns the effective label of every column, in order.
func (f *Frame) Labels() []string {
	labels := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		labels[i] = c.Label()
	}
	return labels
}

// Empty reports whether the frame carries no rows.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Index) == 0
}
