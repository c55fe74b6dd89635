package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescription_Rules(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantRule   string
		wantIssuer string
		wantCoupon float64
		wantType   BondType
		wantDate   RawDate
	}{
		{
			name:       "institutional sovereign",
			input:      "TREASURY, 3%, 15-Aug-2052",
			wantRule:   "institutional",
			wantIssuer: "TREASURY",
			wantCoupon: 3.0,
			wantType:   TypeSovereign,
			wantDate:   RawDate{"15", "Aug", "2052"},
		},
		{
			name:       "institutional corporate without percent sign",
			input:      "ACME HOLDINGS, 4.25, 05/15/30",
			wantRule:   "institutional",
			wantIssuer: "ACME HOLDINGS",
			wantCoupon: 4.25,
			wantType:   TypeCorporate,
			wantDate:   RawDate{"05", "15", "30"},
		},
		{
			name:       "treasury prefixed with street fraction",
			input:      "T 4 1/4 11/15/40",
			wantRule:   "treasury",
			wantIssuer: "T",
			wantCoupon: 4.25,
			wantType:   TypeSovereign,
			wantDate:   RawDate{"11", "15", "40"},
		},
		{
			name:       "bund ticker",
			input:      "DBR 2.5 15.08.46",
			wantRule:   "treasury",
			wantIssuer: "DBR",
			wantCoupon: 2.5,
			wantType:   TypeSovereign,
			wantDate:   RawDate{"15", "08", "46"},
		},
		{
			name:       "corporate ticker coupon date",
			input:      "IBM 4.25 05/15/30",
			wantRule:   "ticker",
			wantIssuer: "IBM",
			wantCoupon: 4.25,
			wantType:   TypeCorporate,
			wantDate:   RawDate{"05", "15", "30"},
		},
		{
			name:       "full name with due",
			input:      "International Business Machines 4.25% due 05/15/2030",
			wantRule:   "fullname",
			wantIssuer: "International Business Machines",
			wantCoupon: 4.25,
			wantType:   TypeCorporate,
			wantDate:   RawDate{"05", "15", "2030"},
		},
		{
			name:       "zero coupon strip",
			input:      "KFW STRIP 06/15/30",
			wantRule:   "zerocoupon",
			wantIssuer: "KFW",
			wantCoupon: 0,
			wantType:   TypeZero,
			wantDate:   RawDate{"06", "15", "30"},
		},
		{
			name:       "generic fallback",
			input:      "Bond issued by Acme paying 5.75% and maturing 2031-06-01",
			wantRule:   "generic",
			wantCoupon: 5.75,
			wantType:   TypeCorporate,
			wantDate:   RawDate{"2031", "06", "01"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDescription(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRule, got.Rule)
			assert.InDelta(t, tc.wantCoupon, got.CouponPct, 1e-12)
			assert.Equal(t, tc.wantType, got.Type)
			assert.Equal(t, tc.wantDate, got.Maturity)
			if tc.wantIssuer != "" {
				assert.Equal(t, tc.wantIssuer, got.Issuer)
			}
		})
	}
}

// Overlapping rules must resolve by list order: a comma-separated sovereign
// string matches "institutional" before anything else, and a bare treasury
// ticker must not be swallowed by the generic corporate ticker rule.
func TestParseDescription_Precedence(t *testing.T) {
	d, err := ParseDescription("TREASURY, 3%, 15-Aug-2052")
	require.NoError(t, err)
	assert.Equal(t, "institutional", d.Rule)

	d, err = ParseDescription("UKT 1.625 10/22/54")
	require.NoError(t, err)
	assert.Equal(t, "treasury", d.Rule)
	assert.Equal(t, "GB", d.CountryHint)

	d, err = ParseDescription("MSFT 3.5 02/12/35")
	require.NoError(t, err)
	assert.Equal(t, "ticker", d.Rule)
	assert.Equal(t, TypeCorporate, d.Type)
}

func TestParseDescription_Failures(t *testing.T) {
	for _, input := range []string{
		"",
		"no numbers here at all",
		"coupon only 4.25%",
		"maturity only 05/15/2030",
	} {
		_, err := ParseDescription(input)
		var perr *ParseError
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.As(err, &perr), "input %q should yield ParseError, got %v", input, err)
	}
}

func TestParseCoupon_Fractions(t *testing.T) {
	cases := map[string]float64{
		"4":      4.0,
		"4.25":   4.25,
		"4 1/4":  4.25,
		"4-1/4":  4.25,
		"0.125":  0.125,
		"2 3/8":  2.375,
		"10 1/2": 10.5,
	}
	for in, want := range cases {
		got, ok := parseCoupon(in)
		require.True(t, ok, "parseCoupon(%q)", in)
		assert.InDelta(t, want, got, 1e-12, "parseCoupon(%q)", in)
	}

	_, ok := parseCoupon("4 1/0")
	assert.False(t, ok)
}

func TestIsISIN(t *testing.T) {
	assert.True(t, IsISIN("US912810RN00"))
	assert.True(t, IsISIN(" de0001102333 "))
	assert.False(t, IsISIN("T 4 1/4 11/15/40"))
	assert.False(t, IsISIN("US91281"))
	assert.Equal(t, "US", ISINCountry("US912810RN00"))
	assert.Equal(t, "", ISINCountry("not-an-isin"))
}
