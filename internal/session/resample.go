// Package session converts UTC hourly bars into session-aligned daily and
// weekly candles.
package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

// shift applied in shifted-mode resampling. Markets whose session ends at
// 02:00 UTC need their overnight bars pulled back onto the previous UTC
// calendar day before day bucketing.
const shiftedOffset = 2 * time.Hour

// Spec defines the session-close convention for one instrument.
type Spec struct {
	Location *time.Location
	Cutoff   time.Duration // session boundary as offset from local midnight
	Shifted  bool          // use the fixed two-hour shift instead of the cutoff
}

// NewSpec parses a timezone name and cutoff duration into a Spec.
func NewSpec(tz, cutoff string, shifted bool) (Spec, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Spec{}, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	var off time.Duration
	if cutoff != "" {
		off, err = time.ParseDuration(cutoff)
		if err != nil {
			return Spec{}, fmt.Errorf("parse cutoff %q: %w", cutoff, err)
		}
	}
	return Spec{Location: loc, Cutoff: off, Shifted: shifted}, nil
}

// Daily resamples hourly bars into one candle per trading session.
// Sessions with no constituent bars yield no candle. Bars must be in
// ascending time order.
func Daily(bars []model.Bar, spec Spec) []model.Bar {
	if spec.Shifted {
		return resample(bars, func(t time.Time) time.Time {
			s := t.Add(-shiftedOffset).UTC()
			y, m, d := s.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(shiftedOffset)
		})
	}
	loc := spec.Location
	if loc == nil {
		loc = time.UTC
	}
	return resample(bars, func(t time.Time) time.Time {
		s := t.In(loc).Add(-spec.Cutoff)
		y, m, d := s.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(spec.Cutoff)
	})
}

// Weekly resamples daily candles into one candle per calendar week
// (Monday through Sunday), stamped with the week's Monday 00:00 UTC.
// Weeks with no candles are absent rather than zero-filled.
func Weekly(daily []model.Bar) []model.Bar {
	return resample(daily, WeekStart)
}

// WeekStart returns Monday 00:00 UTC of the calendar week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	back := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -back)
}

// resample buckets bars with the given boundary function and aggregates
// Open=first, High=max, Low=min, Close=last, Volume=sum.
func resample(bars []model.Bar, bucket func(time.Time) time.Time) []model.Bar {
	if len(bars) == 0 {
		return nil
	}
	byStart := make(map[int64]*model.Bar)
	for _, b := range bars {
		key := bucket(b.Time).Unix()
		c, ok := byStart[key]
		if !ok {
			nb := b
			nb.Time = bucket(b.Time)
			byStart[key] = &nb
			continue
		}
		if b.High > c.High {
			c.High = b.High
		}
		if b.Low < c.Low {
			c.Low = b.Low
		}
		c.Close = b.Close
		c.Volume += b.Volume
	}

	keys := make([]int64, 0, len(byStart))
	for k := range byStart {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]model.Bar, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byStart[k])
	}
	return out
}
