// Package conventions resolves the market convention set for a bond through
// an ordered fallback hierarchy. Resolution never fails: the bottom of the
// hierarchy is a category default table.
package conventions

import (
	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/daycount"
	"github.com/meenmo/bondlib/parse"
)

// Frequency is coupons per year.
type Frequency int

const (
	Annual     Frequency = 1
	Semiannual Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
)

// Months returns the coupon period length in months.
func (f Frequency) Months() int {
	if f <= 0 {
		return 0
	}
	return 12 / int(f)
}

// ConventionSet is the canonical convention bundle for one bond.
type ConventionSet struct {
	DayCount    daycount.Convention
	BusinessDay calendar.Convention
	Frequency   Frequency
	EndOfMonth  bool
}

// Category buckets securities for default-convention purposes.
type Category string

const (
	CategorySovereign     Category = "SOVEREIGN"
	CategoryCorporate     Category = "CORPORATE"
	CategoryGovernment    Category = "GOVERNMENT"
	CategoryInternational Category = "INTERNATIONAL"
	CategoryZero          Category = "ZERO"
)

// FromBondType maps a parser classification hint onto a category.
func FromBondType(t parse.BondType) Category {
	switch t {
	case parse.TypeSovereign:
		return CategorySovereign
	case parse.TypeGovernment:
		return CategoryGovernment
	case parse.TypeInternational:
		return CategoryInternational
	case parse.TypeZero:
		return CategoryZero
	default:
		return CategoryCorporate
	}
}

// Tier grades how trustworthy a resolution is.
type Tier string

const (
	TierVeryHigh Tier = "very-high"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// Resolution is a ConventionSet plus its provenance.
type Resolution struct {
	Set    ConventionSet
	Source string
	Tier   Tier
}

// Benchmark returns the canonical convention set for a domestic sovereign
// benchmark in the given market. These values are forced onto every
// sovereign resolution so that the code path and the description path can
// never disagree.
func Benchmark(country string) ConventionSet {
	switch country {
	case "DE", "FR", "ES", "NL", "BE", "AT", "IT":
		freq := Annual
		if country == "IT" {
			freq = Semiannual
		}
		return ConventionSet{
			DayCount:    daycount.ActActBond,
			BusinessDay: calendar.Following,
			Frequency:   freq,
		}
	case "JP":
		return ConventionSet{
			DayCount:    daycount.Act365F,
			BusinessDay: calendar.Following,
			Frequency:   Semiannual,
		}
	case "GB":
		return ConventionSet{
			DayCount:    daycount.ActActBond,
			BusinessDay: calendar.Following,
			Frequency:   Semiannual,
		}
	default: // US and unrecognized markets
		return ConventionSet{
			DayCount:    daycount.ActActBond,
			BusinessDay: calendar.Following,
			Frequency:   Semiannual,
		}
	}
}

// categoryDefaults is the bottom of the hierarchy.
func categoryDefault(cat Category, country string) ConventionSet {
	switch cat {
	case CategorySovereign:
		return Benchmark(country)
	case CategoryGovernment:
		return ConventionSet{
			DayCount:    daycount.Thirty360Bond,
			BusinessDay: calendar.Following,
			Frequency:   Semiannual,
		}
	case CategoryInternational:
		// Euromarket: annual 30/360, unadjusted accrual.
		return ConventionSet{
			DayCount:    daycount.Thirty360Bond,
			BusinessDay: calendar.Following,
			Frequency:   Annual,
		}
	case CategoryZero:
		return ConventionSet{
			DayCount:    daycount.Act365F,
			BusinessDay: calendar.Unadjusted,
			Frequency:   Annual,
		}
	default:
		return ConventionSet{
			DayCount:    daycount.Thirty360Bond,
			BusinessDay: calendar.Following,
			Frequency:   Semiannual,
		}
	}
}

// categoryTicker is the generic preference-table key consulted when the
// specific issuer ticker has no aggregated data.
func categoryTicker(cat Category) string {
	switch cat {
	case CategorySovereign:
		return "government"
	case CategoryGovernment:
		return "government"
	case CategoryInternational:
		return "international"
	case CategoryZero:
		return "zero"
	default:
		return "corporate"
	}
}
