// Package curve builds a benchmark zero curve from sparse (tenor, yield)
// points and computes spreads off it.
package curve

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/meenmo/bondlib/utils"
)

// ErrInsufficientData means fewer than two usable benchmark points were
// supplied. Spread fields become unavailable; nothing else fails.
var ErrInsufficientData = errors.New("curve: need at least two benchmark points")

// Quote is one benchmark input point, e.g. {"10Y", 4.25}.
type Quote struct {
	Tenor   string  `json:"tenor"`
	RatePct float64 `json:"rate_pct"`
}

// Point is a parsed benchmark node.
type Point struct {
	Years   float64
	RatePct float64
}

// Curve is an immutable bootstrapped discount/zero curve. Built once per
// batch and shared read-only across bonds.
type Curve struct {
	date   time.Time
	points []Point
	dfs    []float64

	cubic    *interp.FritschButland
	useCubic bool
}

// Option configures curve construction.
type Option func(*Curve)

// WithCubicZeros switches DF interpolation from log-linear discount
// factors to a monotone piecewise-cubic fit of the zero rates.
func WithCubicZeros() Option {
	return func(c *Curve) { c.useCubic = true }
}

// Build parses, deduplicates and sorts the benchmark quotes, then
// bootstraps discount factors pillar by pillar.
func Build(date time.Time, quotes []Quote, opts ...Option) (*Curve, error) {
	seen := make(map[float64]struct{}, len(quotes))
	points := make([]Point, 0, len(quotes))
	for _, q := range quotes {
		years := tenorToYears(q.Tenor)
		if years <= 0 {
			continue
		}
		if _, dup := seen[years]; dup {
			continue
		}
		seen[years] = struct{}{}
		points = append(points, Point{Years: years, RatePct: q.RatePct})
	}
	if len(points) < 2 {
		return nil, ErrInsufficientData
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Years < points[j].Years })

	c := &Curve{date: date, points: points}
	for _, opt := range opts {
		opt(c)
	}
	c.dfs = c.bootstrap()

	if c.useCubic {
		xs := make([]float64, len(c.points))
		ys := make([]float64, len(c.points))
		for i, p := range c.points {
			xs[i] = p.Years
			ys[i] = c.zeroAtPillar(i)
		}
		var fb interp.FritschButland
		if err := fb.Fit(xs, ys); err != nil {
			return nil, err
		}
		c.cubic = &fb
	}
	return c, nil
}

// bootstrap solves discount factors sequentially. Sub-annual pillars are
// money-market discounting; longer pillars are par bonds with annual
// coupons, the final DF solved by Newton-Raphson with log-linear
// interpolation of the intermediate coupon dates.
func (c *Curve) bootstrap() []float64 {
	dfs := make([]float64, len(c.points))

	for i, p := range c.points {
		rate := p.RatePct / 100.0
		if p.Years <= 1.0 {
			dfs[i] = 1.0 / (1.0 + rate*p.Years)
			continue
		}
		dfs[i] = c.solvePillarDF(i, rate, dfs)
	}
	return dfs
}

// solvePillarDF finds DF(T_i) such that a par bond with annual coupons at
// rate r prices to 1.
func (c *Curve) solvePillarDF(i int, rate float64, dfs []float64) float64 {
	maturity := c.points[i].Years

	couponTimes := make([]float64, 0, int(maturity))
	for t := 1.0; t < maturity-1e-9; t += 1.0 {
		couponTimes = append(couponTimes, t)
	}

	prevYears := 0.0
	prevDF := 1.0
	if i > 0 {
		prevYears = c.points[i-1].Years
		prevDF = dfs[i-1]
	}

	guess := prevDF
	const tolerance = 1e-12
	const maxIter = 100

	for iter := 0; iter < maxIter; iter++ {
		pv := 0.0
		deriv := 0.0 // d(pv)/d(DF_maturity)

		for _, t := range couponTimes {
			var d, dPrime float64
			if t <= prevYears+1e-9 {
				d = c.dfAtBootstrap(t, i, dfs)
			} else {
				d, dPrime = interpolateUnknown(t, prevYears, prevDF, maturity, guess)
			}
			pv += rate * d
			deriv += rate * dPrime
		}

		// Final coupon plus redemption at maturity.
		f := pv + (1.0+rate)*guess - 1.0
		fPrime := deriv + (1.0 + rate)

		if math.Abs(f) < tolerance {
			return guess
		}
		if math.Abs(fPrime) < 1e-15 {
			break
		}
		guess -= f / fPrime
		if guess <= 1e-9 {
			guess = 1e-9
		}
	}
	return guess
}

// dfAtBootstrap interpolates among already-solved pillars.
func (c *Curve) dfAtBootstrap(t float64, solved int, dfs []float64) float64 {
	return logLinearDF(t, c.points[:solved], dfs[:solved])
}

// interpolateUnknown log-linearly interpolates DF at t where the endpoint
// DF(end) = x is the unknown. Returns DF(t) and d(DF(t))/dx.
func interpolateUnknown(t, start, dfStart, end, x float64) (float64, float64) {
	if end == start {
		return dfStart, 0
	}
	ratio := (t - start) / (end - start)
	if x <= 1e-9 {
		x = 1e-9
	}
	dfT := math.Pow(dfStart, 1.0-ratio) * math.Pow(x, ratio)
	return dfT, ratio * dfT / x
}

func logLinearDF(t float64, points []Point, dfs []float64) float64 {
	if len(points) == 0 {
		return 1.0
	}
	if t <= points[0].Years {
		// Short extrapolation at the first pillar's zero rate.
		z := -math.Log(dfs[0]) / points[0].Years
		return math.Exp(-z * t)
	}
	last := len(points) - 1
	if t >= points[last].Years {
		if last == 0 {
			return dfs[0]
		}
		// Flat forward extrapolation beyond the last pillar.
		fwd := math.Log(dfs[last-1]/dfs[last]) / (points[last].Years - points[last-1].Years)
		return dfs[last] * math.Exp(-fwd*(t-points[last].Years))
	}

	hi := sort.Search(len(points), func(i int) bool { return points[i].Years >= t })
	lo := hi - 1
	t1, t2 := points[lo].Years, points[hi].Years
	fwd := math.Log(dfs[lo]/dfs[hi]) / (t2 - t1)
	return dfs[lo] * math.Exp(-fwd*(t-t1))
}

// DF returns the discount factor at t years from the curve date.
func (c *Curve) DF(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	if c.useCubic && c.cubic != nil {
		tt := t
		last := c.points[len(c.points)-1].Years
		if tt > last {
			tt = last // flat zero extrapolation
		}
		if tt < c.points[0].Years {
			tt = c.points[0].Years
		}
		return math.Exp(-c.cubic.Predict(tt) * t)
	}
	return utils.RoundTo(logLinearDF(t, c.points, c.dfs), 12)
}

// Zero returns the continuously compounded zero rate at t years, decimal.
func (c *Curve) Zero(t float64) float64 {
	if t <= 0 {
		return c.zeroAtPillar(0)
	}
	return -math.Log(c.DF(t)) / t
}

func (c *Curve) zeroAtPillar(i int) float64 {
	return -math.Log(c.dfs[i]) / c.points[i].Years
}

// NearestPoint returns the benchmark point closest to the given tenor.
func (c *Curve) NearestPoint(years float64) Point {
	best := c.points[0]
	bestDist := math.Abs(best.Years - years)
	for _, p := range c.points[1:] {
		if d := math.Abs(p.Years - years); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Date returns the curve's snapshot date.
func (c *Curve) Date() time.Time {
	return c.date
}

// Points returns the parsed benchmark nodes.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}
