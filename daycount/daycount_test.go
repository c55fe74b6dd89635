package daycount_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/bondlib/daycount"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearFraction_MoneyMarket(t *testing.T) {
	t.Parallel()

	start := date(2025, time.January, 15)
	end := date(2025, time.July, 15)

	if got := daycount.YearFraction(daycount.Act360, start, end); math.Abs(got-181.0/360.0) > 1e-12 {
		t.Fatalf("ACT/360 mismatch: got %.12f", got)
	}
	if got := daycount.YearFraction(daycount.Act365F, start, end); math.Abs(got-181.0/365.0) > 1e-12 {
		t.Fatalf("ACT/365F mismatch: got %.12f", got)
	}
}

func TestYearFraction_Thirty360(t *testing.T) {
	t.Parallel()

	// Regular semiannual period is exactly half a year.
	got := daycount.YearFraction(daycount.Thirty360Bond, date(2025, time.February, 15), date(2025, time.August, 15))
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("30/360 semiannual period: got %.12f want 0.5", got)
	}

	// Month-end 31st is treated as the 30th.
	got = daycount.YearFraction(daycount.Thirty360Bond, date(2025, time.January, 31), date(2025, time.July, 31))
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("30/360 EOM period: got %.12f want 0.5", got)
	}
}

func TestYearFraction_ActActISDA_LeapSplit(t *testing.T) {
	t.Parallel()

	// 2023-07-01 to 2024-07-01 spans 184 days of 2023 and 182 days of 2024 (leap).
	got := daycount.YearFraction(daycount.ActActISDA, date(2023, time.July, 1), date(2024, time.July, 1))
	want := 184.0/365.0 + 182.0/366.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("ACT/ACT-ISDA mismatch: got %.12f want %.12f", got, want)
	}
}

func TestPeriodFraction_Boundaries(t *testing.T) {
	t.Parallel()

	start := date(2025, time.February, 15)
	end := date(2025, time.August, 15)

	for _, c := range []daycount.Convention{
		daycount.ActActBond, daycount.ActActISDA, daycount.Thirty360Bond,
		daycount.Act360, daycount.Act365F,
	} {
		if got := daycount.PeriodFraction(c, start, start, end); got != 0 {
			t.Fatalf("%s: fraction at period start should be 0, got %.12f", c, got)
		}
		if got := daycount.PeriodFraction(c, start, end, end); got != 1 {
			t.Fatalf("%s: fraction at period end should be 1, got %.12f", c, got)
		}
	}
}

func TestPeriodFraction_ICMA(t *testing.T) {
	t.Parallel()

	start := date(2025, time.February, 15)
	settle := date(2025, time.June, 30)
	end := date(2025, time.August, 15)

	got := daycount.PeriodFraction(daycount.ActActBond, start, settle, end)
	want := 135.0 / 181.0
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("ICMA fraction mismatch: got %.12f want %.12f", got, want)
	}
}

func TestPeriodFraction_Monotone(t *testing.T) {
	t.Parallel()

	start := date(2025, time.February, 15)
	end := date(2025, time.August, 15)

	prev := -1.0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 7) {
		got := daycount.PeriodFraction(daycount.ActActBond, start, d, end)
		if got < prev {
			t.Fatalf("fraction decreased at %s: %.12f < %.12f", d.Format("2006-01-02"), got, prev)
		}
		prev = got
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]daycount.Convention{
		"ACT/ACT":      daycount.ActActISDA,
		"act/act-icma": daycount.ActActBond,
		"Bond Basis":   daycount.Thirty360Bond,
		"ACT/360":      daycount.Act360,
		"ACT/365":      daycount.Act365F,
	}
	for in, want := range cases {
		got, err := daycount.Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := daycount.Parse("NL/365"); err == nil {
		t.Fatal("expected error for unknown convention")
	}
}
