package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/daycount"
	"github.com/meenmo/bondlib/utils"
)

// ScheduleSpec carries the inputs for schedule generation.
type ScheduleSpec struct {
	Settlement  time.Time
	Maturity    time.Time // unadjusted
	Frequency   int       // coupons per year; 0 for zero-coupon
	Calendar    calendar.CalendarID
	BusinessDay calendar.Convention
	EndOfMonth  bool
	DayCount    daycount.Convention
}

// BuildSchedule rolls coupon dates backward from maturity in
// frequency-sized steps until the accrual window contains the settlement
// date with one extra period of lookback, then adjusts each payment date
// under the business-day rule. Accrual dates themselves stay unadjusted.
func BuildSchedule(spec ScheduleSpec) (Schedule, error) {
	if !spec.Maturity.After(spec.Settlement) {
		return Schedule{}, fmt.Errorf("maturity %s is not after settlement %s",
			spec.Maturity.Format("2006-01-02"), spec.Settlement.Format("2006-01-02"))
	}

	if spec.Frequency <= 0 {
		return Schedule{
			Periods: []Period{{
				AccrualStart: spec.Settlement,
				AccrualEnd:   spec.Maturity,
				PayDate:      calendar.Adjust(spec.Calendar, spec.BusinessDay, spec.Maturity),
			}},
			Maturity: spec.Maturity,
			DayCount: spec.DayCount,
		}, nil
	}

	months := 12 / spec.Frequency
	rollEOM := spec.EndOfMonth && calendar.IsCalendarMonthEnd(spec.Maturity)

	// Step back from maturity so repeated AddMonth calls cannot drift off
	// the roll day.
	var unadjusted []time.Time
	for i := 0; ; i++ {
		d := utils.AddMonth(spec.Maturity, -months*i)
		if rollEOM {
			d = lastCalendarDay(d)
		}
		unadjusted = append([]time.Time{d}, unadjusted...)
		if !d.After(spec.Settlement) {
			// One extra full period of lookback so the accrual period
			// containing settlement is always present.
			extra := utils.AddMonth(spec.Maturity, -months*(i+1))
			if rollEOM {
				extra = lastCalendarDay(extra)
			}
			unadjusted = append([]time.Time{extra}, unadjusted...)
			break
		}
	}

	periods := make([]Period, 0, len(unadjusted)-1)
	for i := 0; i < len(unadjusted)-1; i++ {
		start, end := unadjusted[i], unadjusted[i+1]
		if !end.After(start) {
			return Schedule{}, fmt.Errorf("schedule dates not strictly increasing at %s", end.Format("2006-01-02"))
		}
		periods = append(periods, Period{
			AccrualStart: start,
			AccrualEnd:   end,
			PayDate:      calendar.Adjust(spec.Calendar, spec.BusinessDay, end),
		})
	}

	return Schedule{
		Periods:   periods,
		Maturity:  spec.Maturity,
		Frequency: spec.Frequency,
		DayCount:  spec.DayCount,
	}, nil
}

func lastCalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
