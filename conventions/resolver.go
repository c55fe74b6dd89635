package conventions

// PreferenceSource exposes the aggregated convention-preference table keyed
// by issuer ticker (or a generic category ticker).
type PreferenceSource interface {
	TickerMajority(ticker string) (ConventionSet, bool)
}

// Resolver walks the fallback hierarchy. The zero value works with no
// preference data and resolves everything to category defaults.
type Resolver struct {
	Prefs PreferenceSource
}

// Query carries the inputs of one resolution.
type Query struct {
	// Exact is the convention record from the securities master, when the
	// code lookup found one.
	Exact *ConventionSet
	// Ticker is the issuer ticker for the preference-table lookup.
	Ticker string
	// Category classifies the security for defaults and the override step.
	Category Category
	// Country is the issuing market (ISO code).
	Country string
	// Override is an explicit caller-supplied convention set. It wins over
	// the whole hierarchy, including the sovereign override.
	Override *ConventionSet
}

// stage is one level of the hierarchy: a pure lookup that either produces a
// convention set or passes to the next stage.
type stage struct {
	source string
	tier   Tier
	fn     func() (ConventionSet, bool)
}

// Resolve produces a ConventionSet with the highest available confidence.
// It cannot fail; the final stage always answers.
//
// For domestic sovereign benchmarks a mandatory override replaces day count,
// business-day rule and frequency with the canonical benchmark values after
// the hierarchy has run, regardless of which stage answered. This keeps
// code-path and description-path resolutions bit-for-bit identical.
func (r Resolver) Resolve(q Query) Resolution {
	if q.Override != nil {
		return Resolution{Set: *q.Override, Source: "user-override", Tier: TierVeryHigh}
	}

	stages := []stage{
		{"reference-store", TierVeryHigh, func() (ConventionSet, bool) {
			if q.Exact == nil {
				return ConventionSet{}, false
			}
			return *q.Exact, true
		}},
		{"ticker-majority", TierHigh, func() (ConventionSet, bool) {
			if r.Prefs == nil || q.Ticker == "" {
				return ConventionSet{}, false
			}
			return r.Prefs.TickerMajority(q.Ticker)
		}},
		{"category-majority", TierMedium, func() (ConventionSet, bool) {
			if r.Prefs == nil {
				return ConventionSet{}, false
			}
			return r.Prefs.TickerMajority(categoryTicker(q.Category))
		}},
		{"category-default", TierLow, func() (ConventionSet, bool) {
			return categoryDefault(q.Category, q.Country), true
		}},
	}

	var res Resolution
	for _, s := range stages {
		if set, ok := s.fn(); ok {
			res = Resolution{Set: set, Source: s.source, Tier: s.tier}
			break
		}
	}

	if q.Category == CategorySovereign {
		bench := Benchmark(q.Country)
		res.Set.DayCount = bench.DayCount
		res.Set.BusinessDay = bench.BusinessDay
		res.Set.Frequency = bench.Frequency
		res.Source += "+sovereign-override"
		res.Tier = TierVeryHigh
	}

	return res
}
