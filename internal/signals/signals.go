// Package signals derives boolean pattern flags from daily and weekly
// candle series. All predicates are pure and treat missing history as
// false rather than indexing out of range.
package signals

import (
	"github.com/matt-tibbett/market-dashboard/internal/model"
	"github.com/matt-tibbett/market-dashboard/internal/session"
)

// Trailing window lengths in daily candles.
const (
	monthWindow = 22 // ≈ one trading month
	weekWindow  = 5
)

// IsHighOfMonth reports whether the last fully closed session set the
// highest high of the trailing month window.
func IsHighOfMonth(daily []model.Bar) bool {
	if len(daily) < 2 {
		return false
	}
	return daily[len(daily)-2].High == maxHigh(tail(daily, monthWindow))
}

// IsHighOfWeek reports whether the last fully closed session set the
// highest high of the trailing week window.
func IsHighOfWeek(daily []model.Bar) bool {
	if len(daily) < 2 {
		return false
	}
	return daily[len(daily)-2].High == maxHigh(tail(daily, weekWindow))
}

// IsLowOfMonth is the low-side counterpart of IsHighOfMonth.
func IsLowOfMonth(daily []model.Bar) bool {
	if len(daily) < 2 {
		return false
	}
	return daily[len(daily)-2].Low == minLow(tail(daily, monthWindow))
}

// IsLowOfWeek is the low-side counterpart of IsHighOfWeek.
func IsLowOfWeek(daily []model.Bar) bool {
	if len(daily) < 2 {
		return false
	}
	return daily[len(daily)-2].Low == minLow(tail(daily, weekWindow))
}

// IsRedDay reports whether the last fully closed session closed below its open.
func IsRedDay(daily []model.Bar) bool {
	if len(daily) < 2 {
		return false
	}
	c := daily[len(daily)-2]
	return c.Close < c.Open
}

// IsGreenDay reports whether the last fully closed session closed above its open.
func IsGreenDay(daily []model.Bar) bool {
	if len(daily) < 2 {
		return false
	}
	c := daily[len(daily)-2]
	return c.Close > c.Open
}

// IsInsideDay reports whether the last fully closed session's range sits
// inside the prior session's range.
func IsInsideDay(daily []model.Bar) bool {
	if len(daily) < 3 {
		return false
	}
	cur, prev := daily[len(daily)-2], daily[len(daily)-3]
	return cur.High <= prev.High && cur.Low >= prev.Low
}

// IsInsideWeek reports whether the latest weekly candle's range sits
// inside the prior week's range.
func IsInsideWeek(weekly []model.Bar) bool {
	if len(weekly) < 2 {
		return false
	}
	cur, prev := weekly[len(weekly)-1], weekly[len(weekly)-2]
	return cur.High <= prev.High && cur.Low >= prev.Low
}

// InPrevWeekRange reports whether the still-forming current week (the
// daily candles sharing the latest candle's calendar week) has stayed
// inside the previous completed week's range.
func InPrevWeekRange(daily, weekly []model.Bar) bool {
	if len(weekly) < 2 || len(daily) == 0 {
		return false
	}
	prev := weekly[len(weekly)-2]

	week := session.WeekStart(daily[len(daily)-1].Time)
	var high, low float64
	found := false
	for _, c := range daily {
		if !session.WeekStart(c.Time).Equal(week) {
			continue
		}
		if !found || c.High > high {
			high = c.High
		}
		if !found || c.Low < low {
			low = c.Low
		}
		found = true
	}
	if !found {
		return false
	}
	return high <= prev.High && low >= prev.Low
}

// Evaluate computes every flag plus the combined directional signal.
// SHORT requires a monthly high on a red close; LONG requires a monthly
// low on a green close. The two cannot hold simultaneously.
func Evaluate(daily, weekly []model.Bar) (model.Flags, model.Signal) {
	flags := model.Flags{
		InsideWeek:          IsInsideWeek(weekly),
		InsidePrevWeekRange: InPrevWeekRange(daily, weekly),
		HighOfMonth:         IsHighOfMonth(daily),
		HighOfWeek:          IsHighOfWeek(daily),
		FirstRedDay:         IsRedDay(daily),
		LowOfMonth:          IsLowOfMonth(daily),
		LowOfWeek:           IsLowOfWeek(daily),
		FirstGreenDay:       IsGreenDay(daily),
		InsideDay:           IsInsideDay(daily),
	}

	sig := model.SignalNone
	switch {
	case flags.HighOfMonth && flags.FirstRedDay:
		sig = model.SignalShort
	case flags.LowOfMonth && flags.FirstGreenDay:
		sig = model.SignalLong
	}
	return flags, sig
}

func tail(bars []model.Bar, n int) []model.Bar {
	if len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}

func maxHigh(bars []model.Bar) float64 {
	m := bars[0].High
	for _, b := range bars[1:] {
		if b.High > m {
			m = b.High
		}
	}
	return m
}

func minLow(bars []model.Bar) float64 {
	m := bars[0].Low
	for _, b := range bars[1:] {
		if b.Low < m {
			m = b.Low
		}
	}
	return m
}
