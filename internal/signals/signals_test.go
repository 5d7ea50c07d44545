package signals

import (
	"testing"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// flatSeries builds n daily candles with identical prices.
func flatSeries(n int, price float64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Time: day(i), Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return bars
}

func TestIsHighOfMonth(t *testing.T) {
	daily := flatSeries(30, 100)
	daily[28].High = 200 // last closed session sets the monthly high
	if !IsHighOfMonth(daily) {
		t.Fatal("expected high-of-month true")
	}

	// Perturbing any other candle's high above it flips the result.
	daily[20].High = 300
	if IsHighOfMonth(daily) {
		t.Fatal("expected high-of-month false after perturbation")
	}
}

func TestIsHighOfMonth_WindowExcludesOlderHighs(t *testing.T) {
	daily := flatSeries(30, 100)
	daily[28].High = 200
	daily[5].High = 500 // outside the trailing 22-candle window
	if !IsHighOfMonth(daily) {
		t.Fatal("high outside the month window must not count")
	}
}

func TestIsLowOfMonth(t *testing.T) {
	daily := flatSeries(30, 100)
	daily[28].Low = 10
	if !IsLowOfMonth(daily) {
		t.Fatal("expected low-of-month true")
	}
	daily[25].Low = 5
	if IsLowOfMonth(daily) {
		t.Fatal("expected low-of-month false after perturbation")
	}
}

func TestWeekWindowPredicates(t *testing.T) {
	daily := flatSeries(10, 100)
	daily[8].High = 150
	daily[8].Low = 50
	if !IsHighOfWeek(daily) {
		t.Error("expected high-of-week true")
	}
	if !IsLowOfWeek(daily) {
		t.Error("expected low-of-week true")
	}
	// An extreme older than the 5-candle window is invisible to it but
	// still counts for the month window.
	daily[3].High = 160
	if !IsHighOfWeek(daily) {
		t.Error("extreme outside the 5-candle window must not affect high-of-week")
	}
	if IsHighOfMonth(daily) {
		t.Error("expected high-of-month false with a higher candle in the month window")
	}
}

func TestRedGreenDay(t *testing.T) {
	daily := flatSeries(5, 100)
	daily[3].Open = 100
	daily[3].Close = 95
	if !IsRedDay(daily) {
		t.Error("expected red day")
	}
	if IsGreenDay(daily) {
		t.Error("red day cannot be green")
	}

	daily[3].Close = 105
	if !IsGreenDay(daily) {
		t.Error("expected green day")
	}
	if IsRedDay(daily) {
		t.Error("green day cannot be red")
	}
}

func TestRedGreenDay_InsufficientHistory(t *testing.T) {
	if IsRedDay(nil) || IsGreenDay(nil) {
		t.Error("empty series must be false")
	}
	one := flatSeries(1, 100)
	if IsRedDay(one) || IsGreenDay(one) {
		t.Error("single candle must be false, not a crash")
	}
	// A flat two-candle series has no body direction either way.
	two := flatSeries(2, 100)
	if IsRedDay(two) || IsGreenDay(two) {
		t.Error("flat two-candle series must be false")
	}
}

func TestIsInsideDay(t *testing.T) {
	daily := []model.Bar{
		{Time: day(0), High: 10, Low: 1},
		{Time: day(1), High: 9, Low: 2},
		{Time: day(2), High: 11, Low: 0.5},
	}
	if !IsInsideDay(daily) {
		t.Fatal("expected inside day: 9<=10 and 2>=1")
	}

	daily[1].High = 10.5
	if IsInsideDay(daily) {
		t.Fatal("expected not inside day after widening")
	}
}

func TestIsInsideDay_InsufficientHistory(t *testing.T) {
	if IsInsideDay(flatSeries(2, 100)) {
		t.Error("fewer than 3 candles must be false, not a crash")
	}
	if IsInsideDay(nil) {
		t.Error("empty series must be false")
	}
}

func TestIsInsideWeek(t *testing.T) {
	weekly := []model.Bar{
		{Time: day(0), High: 100, Low: 50},
		{Time: day(7), High: 90, Low: 60},
	}
	if !IsInsideWeek(weekly) {
		t.Error("expected inside week")
	}
	weekly[1].Low = 40
	if IsInsideWeek(weekly) {
		t.Error("expected not inside week when low breaks range")
	}
	if IsInsideWeek(weekly[:1]) {
		t.Error("single weekly candle must be false")
	}
}

func TestInPrevWeekRange(t *testing.T) {
	// Previous week Mon Mar 4 - Fri Mar 8, range [90, 110].
	var daily []model.Bar
	for i := 0; i < 5; i++ {
		daily = append(daily, model.Bar{
			Time: time.Date(2024, 3, 4+i, 0, 0, 0, 0, time.UTC),
			High: 110, Low: 90, Open: 100, Close: 100,
		})
	}
	// Current (forming) week: Mon Mar 11, Tue Mar 12 inside that range.
	daily = append(daily,
		model.Bar{Time: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), High: 105, Low: 95},
		model.Bar{Time: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), High: 104, Low: 96},
	)
	weekly := []model.Bar{
		{Time: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), High: 110, Low: 90},
		{Time: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), High: 105, Low: 95},
	}

	if !InPrevWeekRange(daily, weekly) {
		t.Fatal("expected current week inside previous week's range")
	}

	daily[len(daily)-1].High = 115 // current week breaks above
	if InPrevWeekRange(daily, weekly) {
		t.Fatal("expected false when current week exceeds previous high")
	}
}

func TestInPrevWeekRange_InsufficientData(t *testing.T) {
	daily := flatSeries(3, 100)
	if InPrevWeekRange(daily, nil) {
		t.Error("no weekly candles must be false")
	}
	weekly := []model.Bar{{Time: day(0), High: 110, Low: 90}}
	if InPrevWeekRange(daily, weekly) {
		t.Error("single weekly candle must be false")
	}
	weekly = append(weekly, model.Bar{Time: day(7), High: 105, Low: 95})
	if InPrevWeekRange(nil, weekly) {
		t.Error("no daily candles must be false")
	}
}

func TestEvaluate_ShortSignal(t *testing.T) {
	daily := flatSeries(30, 100)
	daily[28].High = 200  // monthly high
	daily[28].Open = 100  // red close
	daily[28].Close = 95

	flags, sig := Evaluate(daily, nil)
	if !flags.HighOfMonth || !flags.FirstRedDay {
		t.Fatalf("expected HOM and FRD, got %+v", flags)
	}
	if sig != model.SignalShort {
		t.Fatalf("expected SHORT, got %s", sig)
	}
}

func TestEvaluate_LongSignal(t *testing.T) {
	daily := flatSeries(30, 100)
	daily[28].Low = 10    // monthly low
	daily[28].Open = 100  // green close
	daily[28].Close = 105

	flags, sig := Evaluate(daily, nil)
	if !flags.LowOfMonth || !flags.FirstGreenDay {
		t.Fatalf("expected LOM and FGD, got %+v", flags)
	}
	if sig != model.SignalLong {
		t.Fatalf("expected LONG, got %s", sig)
	}
}

func TestEvaluate_NoSignal(t *testing.T) {
	_, sig := Evaluate(flatSeries(30, 100), nil)
	if sig != model.SignalNone {
		t.Fatalf("expected no signal, got %s", sig)
	}
}
