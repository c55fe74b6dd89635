package calendar

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cal  CalendarID
		date time.Time
		want bool
	}{
		{"weekday", US, d(2025, time.June, 30), true},
		{"saturday", US, d(2026, time.August, 15), false},
		{"sunday", NONE, d(2025, time.June, 29), false},
		{"good friday US", US, d(2025, time.April, 18), false},
		{"good friday UK", UK, d(2025, time.April, 18), false},
		{"good friday ignored by NONE", NONE, d(2025, time.April, 18), true},
		{"july fourth", US, d(2025, time.July, 4), false},
		{"uk summer bank holiday", UK, d(2025, time.August, 25), false},
		{"target labour day", TARGET, d(2025, time.May, 1), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsBusinessDay(tc.cal, tc.date); got != tc.want {
				t.Fatalf("IsBusinessDay(%s, %s) = %v, want %v",
					tc.cal, tc.date.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestAdjust(t *testing.T) {
	t.Parallel()

	// Saturday 2026-08-15.
	sat := d(2026, time.August, 15)

	if got := Adjust(US, Unadjusted, sat); !got.Equal(sat) {
		t.Fatalf("Unadjusted moved the date to %s", got.Format("2006-01-02"))
	}
	if got := Adjust(US, Following, sat); !got.Equal(d(2026, time.August, 17)) {
		t.Fatalf("Following: got %s, want 2026-08-17", got.Format("2006-01-02"))
	}
	if got := Adjust(US, Preceding, sat); !got.Equal(d(2026, time.August, 14)) {
		t.Fatalf("Preceding: got %s, want 2026-08-14", got.Format("2006-01-02"))
	}

	// Saturday 2025-05-31: Following crosses into June, so Modified
	// Following rolls back to Friday the 30th.
	eom := d(2025, time.May, 31)
	if got := Adjust(US, ModifiedFollowing, eom); !got.Equal(d(2025, time.May, 30)) {
		t.Fatalf("ModifiedFollowing: got %s, want 2025-05-30", got.Format("2006-01-02"))
	}
	if got := Adjust(US, Following, eom); !got.Equal(d(2025, time.June, 2)) {
		t.Fatalf("Following over month end: got %s, want 2025-06-02", got.Format("2006-01-02"))
	}
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	// Thursday 2025-04-17 + 1 skips Good Friday and the weekend.
	if got := AddBusinessDays(US, d(2025, time.April, 17), 1); !got.Equal(d(2025, time.April, 21)) {
		t.Fatalf("got %s, want 2025-04-21", got.Format("2006-01-02"))
	}
	if got := AddBusinessDays(US, d(2025, time.April, 21), -1); !got.Equal(d(2025, time.April, 17)) {
		t.Fatalf("got %s, want 2025-04-17", got.Format("2006-01-02"))
	}
}

func TestPriorMonthEnd(t *testing.T) {
	t.Parallel()

	// June 2025 ends on Monday the 30th.
	if got := PriorMonthEnd(US, d(2025, time.July, 15)); !got.Equal(d(2025, time.June, 30)) {
		t.Fatalf("got %s, want 2025-06-30", got.Format("2006-01-02"))
	}
	// August 2025 ends on Sunday the 31st; prior business day is Friday.
	if got := PriorMonthEnd(US, d(2025, time.September, 3)); !got.Equal(d(2025, time.August, 29)) {
		t.Fatalf("got %s, want 2025-08-29", got.Format("2006-01-02"))
	}
}

func TestIsCalendarMonthEnd(t *testing.T) {
	t.Parallel()

	if !IsCalendarMonthEnd(d(2024, time.February, 29)) {
		t.Fatal("2024-02-29 is a leap-year month end")
	}
	if IsCalendarMonthEnd(d(2025, time.February, 28).AddDate(0, 0, -1)) {
		t.Fatal("2025-02-27 is not a month end")
	}
	if !IsCalendarMonthEnd(d(2025, time.April, 30)) {
		t.Fatal("2025-04-30 is a month end")
	}
}
