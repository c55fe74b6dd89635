package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/daycount"
)

const (
	spreadTolerance = 1e-10
	spreadMaxIter   = 100
	spreadFloor     = -0.10
	spreadCeiling   = 0.20
)

// GSpreadBP is the bond yield minus the benchmark yield at the nearest
// quoted tenor, in basis points.
func (c *Curve) GSpreadBP(bondYield, maturityYears float64) float64 {
	bench := c.NearestPoint(maturityYears)
	return (bondYield*100.0 - bench.RatePct) * 100.0
}

// ZSpreadBP solves for the single parallel shift to the zero curve that
// reprices the bond's cash flows to its dirty price. Same bracketed
// Newton/bisection approach as the yield solver, over the shift amount.
func (c *Curve) ZSpreadBP(cfs []bond.Cashflow, settlement time.Time, dirtyPrice float64) (float64, error) {
	if len(cfs) == 0 {
		return 0, fmt.Errorf("z-spread: no cash flows")
	}
	if dirtyPrice <= 0 {
		return 0, fmt.Errorf("z-spread: dirty price must be positive")
	}

	times := make([]float64, len(cfs))
	for i, cf := range cfs {
		times[i] = daycount.YearFraction(daycount.Act365F, settlement, cf.Date)
	}

	pv := func(s float64) (float64, float64) {
		var v, dv float64
		for i, cf := range cfs {
			t := times[i]
			amt := cf.Amount() * c.DF(t) * math.Exp(-s*t)
			v += amt
			dv += -t * amt
		}
		return v, dv
	}

	lo, hi := spreadFloor, spreadCeiling
	vLo, _ := pv(lo)
	vHi, _ := pv(hi)
	// PV decreases in the shift.
	if (vLo-dirtyPrice)*(vHi-dirtyPrice) > 0 {
		return 0, &bond.NonConvergenceError{
			Price:  dirtyPrice,
			Reason: fmt.Sprintf("z-spread: no sign change in [%.2f, %.2f]", spreadFloor, spreadCeiling),
		}
	}

	s := 0.0
	for iter := 1; iter <= spreadMaxIter; iter++ {
		v, dv := pv(s)
		f := v - dirtyPrice
		if math.Abs(f) < spreadTolerance {
			return s * 1e4, nil
		}
		if f > 0 {
			lo = s
		} else {
			hi = s
		}
		next := s - f/dv
		if math.Abs(dv) < 1e-15 || next <= lo || next >= hi || math.IsNaN(next) {
			next = 0.5 * (lo + hi)
		}
		s = next
	}

	return 0, &bond.NonConvergenceError{
		Price:      dirtyPrice,
		Iterations: spreadMaxIter,
		Reason:     "z-spread: iteration cap exceeded",
	}
}
