package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/bondlib/daycount"
)

const (
	priceTolerance = 1e-10
	yieldTolerance = 1e-12
	maxIterations  = 200
	// Yield domain bounds, annualized. Roots outside are non-physical.
	yieldFloor   = -0.50
	yieldCeiling = 1.00
)

// NonConvergenceError reports a yield solve that found no root.
type NonConvergenceError struct {
	Price      float64
	Iterations int
	Reason     string
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("yield solver did not converge for price %.6f after %d iterations: %s",
		e.Price, e.Iterations, e.Reason)
}

// Analytics is the full per-bond result of a yield solve.
type Analytics struct {
	Yield            float64 // annualized, decimal
	CleanPrice       float64 // per 100 face
	DirtyPrice       float64
	AccruedInterest  float64 // per 100 face
	ModifiedDuration float64 // years
	Convexity        float64
	PVBP             float64
	Iterations       int
}

// AccruedInterest computes interest earned since the last coupon date, per
// 100 face, using the schedule's day-count convention on the unadjusted
// accrual dates. It is exactly zero when settlement falls on a coupon date.
func AccruedInterest(s Schedule, couponPct float64, settlement time.Time) float64 {
	if s.Frequency <= 0 || couponPct == 0 {
		return 0
	}
	p, err := s.PeriodContaining(settlement)
	if err != nil {
		return 0
	}
	cpn := couponPct / float64(s.Frequency)
	return cpn * daycount.PeriodFraction(s.DayCount, p.AccrualStart, settlement, p.AccrualEnd)
}

// discountTimes returns the remaining cash flows and their discount
// exponents in coupon periods: n_1 is the fraction of the current period
// still to run (ICMA ratio on unadjusted dates), n_k = n_1 + (k-1).
func discountTimes(s Schedule, couponPct float64, settlement time.Time) ([]Cashflow, []float64) {
	cfs := s.Remaining(settlement, couponPct)
	times := make([]float64, len(cfs))

	if s.Frequency <= 0 {
		for i, cf := range cfs {
			times[i] = float64(daycount.Days(settlement, cf.Date)) / 365.0
		}
		return cfs, times
	}

	p, err := s.PeriodContaining(settlement)
	if err != nil {
		// Settlement on the first accrual boundary of the remaining run.
		p = s.Periods[0]
	}
	stub := float64(daycount.Days(settlement, p.AccrualEnd)) / float64(daycount.Days(p.AccrualStart, p.AccrualEnd))
	for i := range cfs {
		times[i] = stub + float64(i)
	}
	return cfs, times
}

// PriceFromYield returns the dirty price for an annualized yield under
// periodic compounding at the schedule frequency.
func PriceFromYield(s Schedule, couponPct float64, settlement time.Time, yield float64) float64 {
	price, _, _ := priceDerivs(s, couponPct, settlement, yield)
	return price
}

// priceDerivs returns (price, dPrice/dy, d2Price/dy2).
func priceDerivs(s Schedule, couponPct float64, settlement time.Time, yield float64) (float64, float64, float64) {
	f := float64(s.Frequency)
	if s.Frequency <= 0 {
		f = 1.0
	}
	per := 1.0 + yield/f
	if per <= 0 {
		// Degenerate discounting; treat as an extreme price so the
		// bracketing logic steers away.
		return math.Inf(1), math.Inf(-1), math.Inf(1)
	}

	cfs, times := discountTimes(s, couponPct, settlement)

	var price, dPdy, d2Pdy2 float64
	for i, cf := range cfs {
		n := times[i]
		amt := cf.Amount()
		disc := math.Pow(per, -n)
		price += amt * disc
		dPdy += -(n / f) * amt * math.Pow(per, -n-1)
		d2Pdy2 += (n * (n + 1) / (f * f)) * amt * math.Pow(per, -n-2)
	}
	return price, dPdy, d2Pdy2
}

// SolveYield finds the yield that reprices the bond at the given clean
// price, then derives the risk measures.
//
// The root-finder brackets first (price is strictly decreasing in yield,
// so a sign change over [yieldFloor, yieldCeiling] is required), then
// takes Newton steps whenever they stay inside the bracket and bisects
// otherwise.
func SolveYield(s Schedule, couponPct, cleanPrice float64, settlement time.Time) (Analytics, error) {
	accrued := AccruedInterest(s, couponPct, settlement)
	target := cleanPrice + accrued

	lo, hi := yieldFloor, yieldCeiling
	fLo := PriceFromYield(s, couponPct, settlement, lo) - target
	fHi := PriceFromYield(s, couponPct, settlement, hi) - target
	if fLo*fHi > 0 {
		return Analytics{}, &NonConvergenceError{
			Price:  cleanPrice,
			Reason: fmt.Sprintf("no sign change in [%.2f, %.2f]", yieldFloor, yieldCeiling),
		}
	}

	y := 0.05
	if y <= lo || y >= hi {
		y = 0.5 * (lo + hi)
	}

	var iterations int
	for iterations = 1; iterations <= maxIterations; iterations++ {
		price, dPdy, _ := priceDerivs(s, couponPct, settlement, y)
		f := price - target

		if math.Abs(f) < priceTolerance || hi-lo < yieldTolerance {
			return finish(s, couponPct, cleanPrice, accrued, settlement, y, iterations), nil
		}

		// Price decreases in yield: f > 0 means the root is above y.
		if f > 0 {
			lo = y
		} else {
			hi = y
		}

		next := y - f/dPdy
		if math.Abs(dPdy) < 1e-15 || next <= lo || next >= hi || math.IsNaN(next) {
			next = 0.5 * (lo + hi)
		}
		y = next
	}

	return Analytics{}, &NonConvergenceError{
		Price:      cleanPrice,
		Iterations: maxIterations,
		Reason:     "iteration cap exceeded",
	}
}

func finish(s Schedule, couponPct, cleanPrice, accrued float64, settlement time.Time, y float64, iterations int) Analytics {
	dirty, dPdy, d2Pdy2 := priceDerivs(s, couponPct, settlement, y)

	modDur := 0.0
	convexity := 0.0
	if dirty > 0 {
		modDur = -dPdy / dirty
		convexity = d2Pdy2 / dirty
	}

	return Analytics{
		Yield:            y,
		CleanPrice:       cleanPrice,
		DirtyPrice:       dirty,
		AccruedInterest:  accrued,
		ModifiedDuration: modDur,
		Convexity:        convexity,
		PVBP:             modDur * dirty / 10000.0,
		Iterations:       iterations,
	}
}
