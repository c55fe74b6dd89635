// Package engine sequences identifier resolution, convention resolution,
// schedule generation, yield solving and spread calculation into one
// CalculationResult per bond.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/meenmo/bondlib/bond"
	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/conventions"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/daycount"
	"github.com/meenmo/bondlib/parse"
	"github.com/meenmo/bondlib/refdata"
)

// Request is one bond calculation input.
type Request struct {
	// Identifier is a canonical code (looked up in the securities master)
	// or a free-text description.
	Identifier string
	// Price is the clean price per 100 face.
	Price float64
	// Settlement defaults to the prior month-end when zero.
	Settlement time.Time
	// Country optionally pins the issuing market (ISO code).
	Country string
	// Overrides replaces the whole convention hierarchy when set.
	Overrides *conventions.ConventionSet
}

// FailureKind classifies per-bond failures.
type FailureKind string

const (
	FailureParse          FailureKind = "parse-failure"
	FailureAmbiguousDate  FailureKind = "ambiguous-date"
	FailureUnknownCode    FailureKind = "unknown-code"
	FailureInvalidRequest FailureKind = "invalid-request"
	FailureSolver         FailureKind = "solver-non-convergence"
)

// Failure carries the identifier, the resolution path attempted and a
// human-readable reason.
type Failure struct {
	Kind       FailureKind
	Identifier string
	Path       string // "code" or "description"
	Reason     string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s [%s path] %s: %s", f.Identifier, f.Path, f.Kind, f.Reason)
}

// BondSpecification is the canonical resolved security, immutable once
// constructed for a single calculation.
type BondSpecification struct {
	Issuer     string
	Ticker     string
	CouponPct  float64
	Maturity   time.Time
	IssueDate  time.Time
	Currency   string
	Country    string
	Category   conventions.Category
	Source     string  // resolution path: "code" or "description"
	Confidence float64 // 1.0 for a master record, lower for parsed text
}

// Result is the full analytics record for one bond.
type Result struct {
	Identifier string
	Settlement time.Time
	Spec       BondSpecification
	Resolution conventions.Resolution
	Analytics  bond.Analytics
	// Spread fields stay nil when the benchmark curve cannot price them.
	GSpreadBP  *float64
	ZSpreadBP  *float64
	SpreadNote string
	Failure    *Failure
}

// OK reports whether the calculation succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Engine holds the immutable per-batch state: reference snapshot, resolver
// and bootstrapped benchmark curve. Safe for concurrent use.
type Engine struct {
	snap     *refdata.Snapshot
	resolver conventions.Resolver
	crv      *curve.Curve
	curveErr error
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithClock fixes the evaluation date used for settlement defaulting and
// two-digit-year expansion. Tests use this; production uses time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds the engine, bootstrapping the benchmark curve up front. A
// curve with insufficient data is not fatal: spreads are reported
// unavailable while everything else still computes.
func New(snap *refdata.Snapshot, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		snap:     snap,
		resolver: conventions.Resolver{Prefs: snap.Prefs},
		log:      logger.With().Str("component", "engine").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	crv, err := curve.Build(snap.CurveDate, snap.CurveQuotes)
	if err != nil {
		e.curveErr = err
		e.log.Warn().Err(err).Msg("benchmark curve unavailable, spreads disabled")
	} else {
		e.crv = crv
	}
	return e
}

// Calculate runs the full pipeline for one bond. It never panics and
// never returns a Go error: failures are part of the Result.
func (e *Engine) Calculate(req Request) Result {
	res := Result{Identifier: req.Identifier}

	spec, exact, fail := e.resolveIdentifier(req)
	if fail != nil {
		res.Failure = fail
		e.log.Warn().Str("identifier", req.Identifier).Str("path", fail.Path).
			Str("kind", string(fail.Kind)).Msg(fail.Reason)
		return res
	}
	res.Spec = spec

	cal := countryCalendar(spec.Country)
	settlement := req.Settlement
	if settlement.IsZero() {
		settlement = calendar.PriorMonthEnd(cal, e.now())
	}
	res.Settlement = settlement

	res.Resolution = e.resolver.Resolve(conventions.Query{
		Exact:    exact,
		Ticker:   spec.Ticker,
		Category: spec.Category,
		Country:  spec.Country,
		Override: req.Overrides,
	})

	freq := int(res.Resolution.Set.Frequency)
	if spec.Category == conventions.CategoryZero || spec.CouponPct == 0 {
		freq = 0
	}

	sched, err := bond.BuildSchedule(bond.ScheduleSpec{
		Settlement:  settlement,
		Maturity:    spec.Maturity,
		Frequency:   freq,
		Calendar:    cal,
		BusinessDay: res.Resolution.Set.BusinessDay,
		EndOfMonth:  res.Resolution.Set.EndOfMonth,
		DayCount:    res.Resolution.Set.DayCount,
	})
	if err != nil {
		res.Failure = &Failure{
			Kind:       FailureInvalidRequest,
			Identifier: req.Identifier,
			Path:       spec.Source,
			Reason:     err.Error(),
		}
		return res
	}

	analytics, err := bond.SolveYield(sched, spec.CouponPct, req.Price, settlement)
	if err != nil {
		res.Failure = &Failure{
			Kind:       FailureSolver,
			Identifier: req.Identifier,
			Path:       spec.Source,
			Reason:     err.Error(),
		}
		return res
	}
	res.Analytics = analytics

	e.attachSpreads(&res, sched, settlement)

	e.log.Info().
		Str("identifier", req.Identifier).
		Str("path", spec.Source).
		Str("convention_source", res.Resolution.Source).
		Str("confidence", string(res.Resolution.Tier)).
		Float64("yield", analytics.Yield).
		Float64("mod_duration", analytics.ModifiedDuration).
		Msg("bond calculated")
	return res
}

func (e *Engine) attachSpreads(res *Result, sched bond.Schedule, settlement time.Time) {
	if e.crv == nil {
		res.SpreadNote = fmt.Sprintf("spreads unavailable: %v", e.curveErr)
		return
	}

	maturityYears := daycount.YearFraction(daycount.Act365F, settlement, res.Spec.Maturity)
	g := e.crv.GSpreadBP(res.Analytics.Yield, maturityYears)
	res.GSpreadBP = &g

	cfs := sched.Remaining(settlement, res.Spec.CouponPct)
	z, err := e.crv.ZSpreadBP(cfs, settlement, res.Analytics.DirtyPrice)
	if err != nil {
		res.SpreadNote = fmt.Sprintf("z-spread unavailable: %v", err)
		return
	}
	res.ZSpreadBP = &z
}

// resolveIdentifier produces the canonical specification via the code path
// when the securities master knows the identifier, otherwise via the
// description path.
func (e *Engine) resolveIdentifier(req Request) (BondSpecification, *conventions.ConventionSet, *Failure) {
	id := strings.TrimSpace(req.Identifier)
	if id == "" {
		return BondSpecification{}, nil, &Failure{
			Kind: FailureParse, Identifier: req.Identifier, Path: "code",
			Reason: "empty identifier",
		}
	}

	if rec, ok := e.snap.Master.Lookup(id); ok {
		spec := BondSpecification{
			Issuer:     rec.Issuer,
			Ticker:     rec.Ticker,
			CouponPct:  rec.CouponPct,
			Maturity:   rec.Maturity,
			IssueDate:  rec.IssueDate,
			Currency:   rec.Currency,
			Country:    rec.Country,
			Category:   rec.Category,
			Source:     "code",
			Confidence: 1.0,
		}
		if spec.Country == "" {
			spec.Country = parse.ISINCountry(id)
		}
		return spec, rec.Conventions, nil
	}

	if parse.IsISIN(id) {
		return BondSpecification{}, nil, &Failure{
			Kind: FailureUnknownCode, Identifier: req.Identifier, Path: "code",
			Reason: "code not found in securities master",
		}
	}

	desc, err := parse.ParseDescription(id)
	if err != nil {
		return BondSpecification{}, nil, &Failure{
			Kind: FailureParse, Identifier: req.Identifier, Path: "description",
			Reason: err.Error(),
		}
	}

	country := req.Country
	if country == "" {
		country = desc.CountryHint
	}
	resolved, err := parse.ResolveMaturity(desc.Maturity, parse.Hints{
		Country:    country,
		IssuerText: desc.Issuer,
	}, e.now())
	if err != nil {
		var aerr *parse.AmbiguousDateError
		kind := FailureParse
		if errors.As(err, &aerr) {
			kind = FailureAmbiguousDate
		}
		return BondSpecification{}, nil, &Failure{
			Kind: kind, Identifier: req.Identifier, Path: "description",
			Reason: err.Error(),
		}
	}
	if country == "" {
		country = "US"
	}

	return BondSpecification{
		Issuer:     desc.Issuer,
		Ticker:     desc.Ticker,
		CouponPct:  desc.CouponPct,
		Maturity:   resolved.Date,
		Country:    country,
		Category:   conventions.FromBondType(desc.Type),
		Source:     "description",
		Confidence: resolved.Confidence,
	}, nil, nil
}

func countryCalendar(country string) calendar.CalendarID {
	switch country {
	case "US", "CA", "":
		return calendar.US
	case "GB":
		return calendar.UK
	case "JP":
		return calendar.JP
	case "DE", "FR", "IT", "ES", "NL", "BE", "AT":
		return calendar.TARGET
	default:
		return calendar.US
	}
}
