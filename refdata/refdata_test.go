package refdata_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/conventions"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/daycount"
	"github.com/meenmo/bondlib/refdata"
)

func TestMapSecurityMaster_Lookup(t *testing.T) {
	t.Parallel()

	m := refdata.NewMapSecurityMaster([]refdata.SecurityRecord{
		{Code: "US912810RN00", Ticker: "T", CouponPct: 3.0},
		{Code: "XS1234567890", Ticker: "ACME", CouponPct: 5.25},
	})

	rec, ok := m.Lookup("US912810RN00")
	require.True(t, ok)
	assert.Equal(t, "T", rec.Ticker)
	assert.Nil(t, rec.Conventions)

	_, ok = m.Lookup("US0000000000")
	assert.False(t, ok)
}

func TestMapPreferenceTable_IgnoresEmptyAggregates(t *testing.T) {
	t.Parallel()

	set := conventions.ConventionSet{
		DayCount:    daycount.Thirty360Bond,
		BusinessDay: calendar.ModifiedFollowing,
		Frequency:   conventions.Semiannual,
	}
	p := refdata.NewMapPreferenceTable([]refdata.PreferenceRow{
		{Ticker: "ACME", Set: set, Observations: 12},
		{Ticker: "STALE", Set: set, Observations: 0},
	})

	got, ok := p.TickerMajority("ACME")
	require.True(t, ok)
	assert.Equal(t, set, got)

	// Zero observations means no aggregate, not a default.
	_, ok = p.TickerMajority("STALE")
	assert.False(t, ok)

	_, ok = p.TickerMajority("UNKNOWN")
	assert.False(t, ok)
}

func TestNewSnapshot_CopiesQuotes(t *testing.T) {
	t.Parallel()

	quotes := []curve.Quote{{Tenor: "10Y", RatePct: 4.3}}
	snap := refdata.NewSnapshot(
		refdata.NewMapSecurityMaster(nil),
		refdata.NewMapPreferenceTable(nil),
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		quotes,
	)

	quotes[0].RatePct = 9.9
	assert.Equal(t, 4.3, snap.CurveQuotes[0].RatePct)
}
