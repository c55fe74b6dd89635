// Package refdata supplies the reference data the engine consumes:
// the securities master, the ticker convention-preference aggregates and
// the benchmark curve quotes. Everything is loaded once per batch into an
// immutable Snapshot and shared read-only across calculations.
package refdata

import (
	"time"

	"github.com/meenmo/bondlib/conventions"
	"github.com/meenmo/bondlib/curve"
)

// SecurityRecord is one securities-master row keyed by canonical code.
type SecurityRecord struct {
	Code      string
	Issuer    string
	Ticker    string
	CouponPct float64
	Maturity  time.Time
	IssueDate time.Time
	Currency  string
	Country   string
	Category  conventions.Category
	// Conventions is nil when the store has no convention columns for the
	// security; the resolver then falls through to the preference table.
	Conventions *conventions.ConventionSet
}

// SecurityMaster looks up a security by its canonical code.
type SecurityMaster interface {
	Lookup(code string) (SecurityRecord, bool)
}

// MapSecurityMaster is a static map-backed master for development/testing.
type MapSecurityMaster struct {
	records map[string]SecurityRecord
}

func NewMapSecurityMaster(records []SecurityRecord) *MapSecurityMaster {
	m := make(map[string]SecurityRecord, len(records))
	for _, r := range records {
		m[r.Code] = r
	}
	return &MapSecurityMaster{records: m}
}

func (m *MapSecurityMaster) Lookup(code string) (SecurityRecord, bool) {
	rec, ok := m.records[code]
	return rec, ok
}

// PreferenceRow is the aggregated majority convention for one ticker.
type PreferenceRow struct {
	Ticker       string
	Set          conventions.ConventionSet
	Observations int
}

// MapPreferenceTable is a static map-backed aggregate implementing
// conventions.PreferenceSource.
type MapPreferenceTable struct {
	rows map[string]PreferenceRow
}

func NewMapPreferenceTable(rows []PreferenceRow) *MapPreferenceTable {
	m := make(map[string]PreferenceRow, len(rows))
	for _, r := range rows {
		m[r.Ticker] = r
	}
	return &MapPreferenceTable{rows: m}
}

func (m *MapPreferenceTable) TickerMajority(ticker string) (conventions.ConventionSet, bool) {
	row, ok := m.rows[ticker]
	if !ok || row.Observations <= 0 {
		return conventions.ConventionSet{}, false
	}
	return row.Set, true
}

// Snapshot is the immutable per-batch bundle of reference data. Construct
// it fully before submitting any bond; never mutate it afterwards.
type Snapshot struct {
	Master      SecurityMaster
	Prefs       conventions.PreferenceSource
	CurveDate   time.Time
	CurveQuotes []curve.Quote
}

// NewSnapshot copies the curve quotes so later changes to the caller's
// slice cannot leak into a running batch.
func NewSnapshot(master SecurityMaster, prefs conventions.PreferenceSource, curveDate time.Time, quotes []curve.Quote) *Snapshot {
	copied := make([]curve.Quote, len(quotes))
	copy(copied, quotes)
	return &Snapshot{
		Master:      master,
		Prefs:       prefs,
		CurveDate:   curveDate,
		CurveQuotes: copied,
	}
}
