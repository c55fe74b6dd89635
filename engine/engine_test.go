package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/conventions"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/daycount"
	"github.com/meenmo/bondlib/engine"
	"github.com/meenmo/bondlib/refdata"
)

var (
	curveDate  = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	settlement = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func treasuryMaster() *refdata.MapSecurityMaster {
	return refdata.NewMapSecurityMaster([]refdata.SecurityRecord{
		{
			Code:      "US912810RN00",
			Issuer:    "US TREASURY",
			Ticker:    "T",
			CouponPct: 3.0,
			Maturity:  time.Date(2052, time.August, 15, 0, 0, 0, 0, time.UTC),
			Currency:  "USD",
			Country:   "US",
			Category:  conventions.CategorySovereign,
		},
	})
}

func benchmarkQuotes() []curve.Quote {
	return []curve.Quote{
		{Tenor: "6M", RatePct: 4.2},
		{Tenor: "2Y", RatePct: 4.0},
		{Tenor: "5Y", RatePct: 4.1},
		{Tenor: "10Y", RatePct: 4.3},
		{Tenor: "30Y", RatePct: 4.6},
	}
}

func newEngine(t *testing.T, quotes []curve.Quote) *engine.Engine {
	t.Helper()
	snap := refdata.NewSnapshot(treasuryMaster(), refdata.NewMapPreferenceTable(nil), curveDate, quotes)
	return engine.New(snap, zerolog.Nop(), engine.WithClock(fixedClock(curveDate.AddDate(0, 0, 15))))
}

func TestCalculate_CodeAndDescriptionPathsAgree(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	byCode := e.Calculate(engine.Request{
		Identifier: "US912810RN00",
		Price:      71.66,
		Settlement: settlement,
	})
	require.True(t, byCode.OK(), "code path failed: %v", byCode.Failure)

	byDesc := e.Calculate(engine.Request{
		Identifier: "TREASURY, 3%, 15-Aug-2052",
		Price:      71.66,
		Settlement: settlement,
	})
	require.True(t, byDesc.OK(), "description path failed: %v", byDesc.Failure)

	assert.Equal(t, "code", byCode.Spec.Source)
	assert.Equal(t, "description", byDesc.Spec.Source)
	assert.Equal(t, byCode.Spec.Maturity, byDesc.Spec.Maturity)

	// Sovereign override pins both paths to the same convention set.
	assert.Equal(t, byCode.Resolution.Set, byDesc.Resolution.Set)
	assert.Equal(t, daycount.ActActBond, byCode.Resolution.Set.DayCount)
	assert.Equal(t, conventions.Semiannual, byCode.Resolution.Set.Frequency)

	assert.InDelta(t, byCode.Analytics.Yield, byDesc.Analytics.Yield, 1e-6)
	assert.InDelta(t, byCode.Analytics.ModifiedDuration, byDesc.Analytics.ModifiedDuration, 1e-6)
	assert.InDelta(t, byCode.Analytics.AccruedInterest, byDesc.Analytics.AccruedInterest, 1e-9)
}

func TestCalculate_BenchmarkScenario(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	res := e.Calculate(engine.Request{
		Identifier: "US912810RN00",
		Price:      71.66,
		Settlement: settlement,
	})
	require.True(t, res.OK(), "failure: %v", res.Failure)

	assert.InDelta(t, 0.0490, res.Analytics.Yield, 1e-3)
	assert.Greater(t, res.Analytics.ModifiedDuration, 16.0)
	assert.Less(t, res.Analytics.ModifiedDuration, 16.8)

	require.NotNil(t, res.GSpreadBP)
	require.NotNil(t, res.ZSpreadBP)
	// ~27.1y maturity matches the 30Y point at 4.60%.
	assert.InDelta(t, (res.Analytics.Yield*100-4.60)*100, *res.GSpreadBP, 1e-9)
	assert.Empty(t, res.SpreadNote)
}

func TestCalculate_NoCurveStillProducesAnalytics(t *testing.T) {
	t.Parallel()
	e := newEngine(t, nil)

	res := e.Calculate(engine.Request{
		Identifier: "US912810RN00",
		Price:      71.66,
		Settlement: settlement,
	})
	require.True(t, res.OK(), "failure: %v", res.Failure)

	assert.InDelta(t, 0.0490, res.Analytics.Yield, 1e-3)
	assert.Nil(t, res.GSpreadBP)
	assert.Nil(t, res.ZSpreadBP)
	assert.NotEmpty(t, res.SpreadNote)
}

func TestCalculate_SettlementDefaultsToPriorMonthEnd(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	// Clock fixed mid-July 2025; prior month-end is Monday June 30.
	res := e.Calculate(engine.Request{
		Identifier: "US912810RN00",
		Price:      71.66,
	})
	require.True(t, res.OK(), "failure: %v", res.Failure)
	assert.Equal(t, settlement, res.Settlement)
}

func TestCalculate_UserOverrideWins(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	override := &conventions.ConventionSet{
		DayCount:    daycount.Thirty360Bond,
		BusinessDay: calendar.ModifiedFollowing,
		Frequency:   conventions.Annual,
	}
	res := e.Calculate(engine.Request{
		Identifier: "US912810RN00",
		Price:      71.66,
		Settlement: settlement,
		Overrides:  override,
	})
	require.True(t, res.OK(), "failure: %v", res.Failure)
	assert.Equal(t, "user-override", res.Resolution.Source)
	assert.Equal(t, *override, res.Resolution.Set)
}

func TestCalculate_Failures(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	cases := []struct {
		name string
		req  engine.Request
		kind engine.FailureKind
		path string
	}{
		{
			name: "unknown code",
			req:  engine.Request{Identifier: "XS0000000009", Price: 100},
			kind: engine.FailureUnknownCode,
			path: "code",
		},
		{
			name: "unparseable description",
			req:  engine.Request{Identifier: "???", Price: 100},
			kind: engine.FailureParse,
			path: "description",
		},
		{
			name: "empty identifier",
			req:  engine.Request{Identifier: "  ", Price: 100},
			kind: engine.FailureParse,
			path: "code",
		},
		{
			name: "maturity before settlement",
			req: engine.Request{
				Identifier: "TREASURY, 3%, 15-Aug-2020",
				Price:      100,
				Settlement: settlement,
			},
			kind: engine.FailureInvalidRequest,
			path: "description",
		},
		{
			name: "absurd price never converges",
			req: engine.Request{
				Identifier: "US912810RN00",
				Price:      1e9,
				Settlement: settlement,
			},
			kind: engine.FailureSolver,
			path: "code",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := e.Calculate(tc.req)
			require.False(t, res.OK())
			assert.Equal(t, tc.kind, res.Failure.Kind)
			assert.Equal(t, tc.path, res.Failure.Path)
			assert.NotEmpty(t, res.Failure.Reason)
		})
	}
}

func TestBatch_OrderPreservedAndFailuresIsolated(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	reqs := []engine.Request{
		{Identifier: "US912810RN00", Price: 71.66, Settlement: settlement},
		{Identifier: "XS0000000009", Price: 100},
		{Identifier: "TREASURY, 3%, 15-Aug-2052", Price: 71.66, Settlement: settlement},
	}

	out := e.Batch(context.Background(), reqs)
	require.Len(t, out, 3)

	assert.Equal(t, "US912810RN00", out[0].Identifier)
	assert.Equal(t, "XS0000000009", out[1].Identifier)
	assert.Equal(t, "TREASURY, 3%, 15-Aug-2052", out[2].Identifier)

	assert.True(t, out[0].OK())
	assert.False(t, out[1].OK())
	assert.True(t, out[2].OK())
	assert.InDelta(t, out[0].Analytics.Yield, out[2].Analytics.Yield, 1e-6)
}

func TestBatch_CancelledContext(t *testing.T) {
	t.Parallel()
	e := newEngine(t, benchmarkQuotes())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := e.Batch(ctx, []engine.Request{
		{Identifier: "US912810RN00", Price: 71.66, Settlement: settlement},
	})
	require.Len(t, out, 1)
	require.False(t, out[0].OK())
	assert.Equal(t, engine.FailureInvalidRequest, out[0].Failure.Kind)
}
