package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/bondlib/daycount"
)

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are per 100 face (price terms), not currency units.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Period is one coupon accrual period. Accrual dates stay unadjusted: the
// business-day rule moves the payment date only, never the day-count span.
type Period struct {
	AccrualStart time.Time
	AccrualEnd   time.Time
	PayDate      time.Time
}

// Schedule is the full coupon schedule of a bond.
//
// Invariants: Periods are contiguous and strictly increasing, and the last
// AccrualEnd equals the (unadjusted) maturity exactly. Frequency 0 marks a
// zero-coupon schedule with a single redemption period.
type Schedule struct {
	Periods   []Period
	Maturity  time.Time
	Frequency int // coupons per year
	DayCount  daycount.Convention
}

// PeriodContaining returns the accrual period with
// AccrualStart <= settlement < AccrualEnd.
func (s Schedule) PeriodContaining(settlement time.Time) (Period, error) {
	for _, p := range s.Periods {
		if !settlement.Before(p.AccrualStart) && settlement.Before(p.AccrualEnd) {
			return p, nil
		}
	}
	return Period{}, fmt.Errorf("settlement %s outside schedule [%s, %s)",
		settlement.Format("2006-01-02"),
		s.Periods[0].AccrualStart.Format("2006-01-02"),
		s.Maturity.Format("2006-01-02"))
}

// Remaining lists the cash flows a buyer settling on the given date will
// receive: every coupon whose accrual period ends after settlement, plus
// the redemption at maturity. A coupon paying exactly on the settlement
// date belongs to the seller and is excluded.
func (s Schedule) Remaining(settlement time.Time, couponPct float64) []Cashflow {
	if s.Frequency <= 0 {
		return []Cashflow{{Date: s.Maturity, Principal: 100.0}}
	}

	cpn := couponPct / float64(s.Frequency)
	out := make([]Cashflow, 0, len(s.Periods))
	for i, p := range s.Periods {
		if !p.AccrualEnd.After(settlement) {
			continue
		}
		cf := Cashflow{Date: p.AccrualEnd, Coupon: cpn}
		if i == len(s.Periods)-1 {
			cf.Principal = 100.0
		}
		out = append(out, cf)
	}
	return out
}
