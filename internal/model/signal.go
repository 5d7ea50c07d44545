package model

// Signal is the combined directional signal for one instrument.
type Signal string

const (
	SignalShort Signal = "SHORT"
	SignalLong  Signal = "LONG"
	SignalNone  Signal = "–"
)

// Outcome tags how far an instrument's analysis got.
type Outcome string

const (
	OutcomeOK     Outcome = "OK"      // full analysis completed
	OutcomeNoData Outcome = "NO_DATA" // pre-flight returned nothing
	OutcomeError  Outcome = "ERROR"   // analysis failed after pre-flight
)

// Flags holds the named boolean signals for one instrument.
type Flags struct {
	InsideWeek          bool
	InsidePrevWeekRange bool
	HighOfMonth         bool
	HighOfWeek          bool
	FirstRedDay         bool
	LowOfMonth          bool
	LowOfWeek           bool
	FirstGreenDay       bool
	InsideDay           bool
}

// Row is the per-instrument analysis result. Flags and Signal are only
// meaningful when Outcome is OutcomeOK.
type Row struct {
	Asset   string
	Symbol  string
	Outcome Outcome
	Signal  Signal
	Flags   Flags
}

// GroupResult collects the rows of one instrument group.
type GroupResult struct {
	Name string
	Rows []Row
}
