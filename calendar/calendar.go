package calendar

import "time"

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	US     CalendarID = "US"
	UK     CalendarID = "UK"
	TARGET CalendarID = "TARGET"
	JP     CalendarID = "JP"
	NONE   CalendarID = "NONE" // weekends only
)

// Convention is the business-day adjustment rule applied to schedule dates.
type Convention string

const (
	Following         Convention = "FOLLOWING"
	ModifiedFollowing Convention = "MODIFIED_FOLLOWING"
	Preceding         Convention = "PRECEDING"
	Unadjusted        Convention = "UNADJUSTED"
)

var usHolidays = map[string]struct{}{}
var ukHolidays = map[string]struct{}{}
var targetHolidays = map[string]struct{}{}
var jpHolidays = map[string]struct{}{}

func init() {
	usHolidays = make(map[string]struct{}, len(usHolidayList))
	for _, h := range usHolidayList {
		usHolidays[h] = struct{}{}
	}
	ukHolidays = make(map[string]struct{}, len(ukHolidayList))
	for _, h := range ukHolidayList {
		ukHolidays[h] = struct{}{}
	}
	targetHolidays = make(map[string]struct{}, len(targetHolidayList))
	for _, h := range targetHolidayList {
		targetHolidays[h] = struct{}{}
	}
	jpHolidays = make(map[string]struct{}, len(jpHolidayList))
	for _, h := range jpHolidayList {
		jpHolidays[h] = struct{}{}
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case US:
		_, ok := usHolidays[key]
		return ok
	case UK:
		_, ok := ukHolidays[key]
		return ok
	case TARGET:
		_, ok := targetHolidays[key]
		return ok
	case JP:
		_, ok := jpHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust moves t to a business day under the given convention.
func Adjust(cal CalendarID, conv Convention, t time.Time) time.Time {
	switch conv {
	case Unadjusted:
		return t
	case Following:
		return adjustFollowing(cal, t)
	case Preceding:
		return adjustPreceding(cal, t)
	case ModifiedFollowing:
		fallthrough
	default:
		origMonth := t.Month()
		adj := adjustFollowing(cal, t)
		if adj.Month() != origMonth {
			return adjustPreceding(cal, t)
		}
		return adj
	}
}

func adjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func adjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}

// PriorMonthEnd returns the last business day of the month before t.
// Used as the default settlement date when the caller omits one.
func PriorMonthEnd(cal CalendarID, t time.Time) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, firstOfMonth, -1)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsCalendarMonthEnd reports whether t is the last calendar day of its month.
func IsCalendarMonthEnd(t time.Time) bool {
	return t.Day() == daysInMonth(t.Year(), t.Month())
}
