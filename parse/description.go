// Package parse turns free-text bond descriptions and ambiguous date tokens
// into structured fields for downstream resolution.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BondType is the classification hint extracted from a description.
type BondType string

const (
	TypeSovereign     BondType = "SOVEREIGN"
	TypeCorporate     BondType = "CORPORATE"
	TypeGovernment    BondType = "GOVERNMENT"
	TypeInternational BondType = "INTERNATIONAL"
	TypeZero          BondType = "ZERO"
	TypeUnknown       BondType = "UNKNOWN"
)

// RawDate holds the positional maturity tokens exactly as written.
// Order resolution happens in ResolveMaturity, not here.
type RawDate [3]string

// Description is the structured output of ParseDescription.
type Description struct {
	Issuer      string
	Ticker      string
	CouponPct   float64 // percent, e.g. 4.25
	Maturity    RawDate
	Type        BondType
	CountryHint string // ISO country inferred from a sovereign ticker, if any
	Rule        string // name of the pattern rule that matched
}

// ParseError reports that no description pattern matched.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

// sovereignTickers maps benchmark government tickers to their market.
var sovereignTickers = map[string]string{
	"T":    "US",
	"UST":  "US",
	"B":    "US",
	"UKT":  "GB",
	"DBR":  "DE",
	"BKO":  "DE",
	"OBL":  "DE",
	"OAT":  "FR",
	"FRTR": "FR",
	"BTPS": "IT",
	"JGB":  "JP",
}

// sovereignKeywords are issuer words that classify a bond as a domestic
// sovereign benchmark.
var sovereignKeywords = []string{
	"TREASURY", "GILT", "BUND", "BOBL", "SCHATZ", "GOVT", "GOVERNMENT OF",
}

const (
	couponPattern = `\d+(?:\.\d+)?(?:[ -]\d+/\d+)?`
	datePattern   = `(?:\d{1,4}[-/. ]\d{1,2}[-/. ]\d{1,4}|\d{1,2}[-/. ]?[A-Za-z]{3,9}[-/. ]?\d{2,4}|[A-Za-z]{3,9}[-/. ]\d{1,2}[-/. ,]+\d{2,4})`
)

// rule is one typed description pattern. Rules are tried in the order they
// appear in descriptionRules; the first structural match wins.
type rule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) (Description, bool)
}

var descriptionRules = []rule{
	{
		// "TREASURY, 3%, 15-Aug-2052" / "ACME CORP, 4.25, 05/15/30"
		name: "institutional",
		re:   regexp.MustCompile(`^\s*([^,]+?)\s*,\s*(` + couponPattern + `)\s*%?\s*,\s*(` + datePattern + `)\s*$`),
		build: func(m []string) (Description, bool) {
			cpn, ok := parseCoupon(m[2])
			if !ok {
				return Description{}, false
			}
			d := Description{Issuer: m[1], CouponPct: cpn, Type: classifyIssuer(m[1])}
			d.Maturity, ok = splitDateToken(m[3])
			d.Ticker = tickerFromIssuer(m[1])
			if c, sovereign := sovereignTickers[strings.ToUpper(d.Ticker)]; sovereign {
				d.Type = TypeSovereign
				d.CountryHint = c
			} else if d.Type == TypeSovereign {
				d.CountryHint = sovereignCountry(m[1])
			}
			return d, ok
		},
	},
	{
		// "T 4 1/4 11/15/40" / "DBR 2.5 15.08.46"
		name: "treasury",
		re:   regexp.MustCompile(`^\s*(T|UST|UKT|DBR|BKO|OBL|OAT|FRTR|BTPS|JGB|B)\s+(` + couponPattern + `)\s*%?\s+(` + datePattern + `)\s*$`),
		build: func(m []string) (Description, bool) {
			cpn, ok := parseCoupon(m[2])
			if !ok {
				return Description{}, false
			}
			ticker := strings.ToUpper(m[1])
			d := Description{
				Issuer:      ticker,
				Ticker:      ticker,
				CouponPct:   cpn,
				Type:        TypeSovereign,
				CountryHint: sovereignTickers[ticker],
			}
			d.Maturity, ok = splitDateToken(m[3])
			return d, ok
		},
	},
	{
		// "IBM 4.25 05/15/30"
		name: "ticker",
		re:   regexp.MustCompile(`^\s*([A-Z][A-Z0-9]{1,7})\s+(` + couponPattern + `)\s*%?\s+(` + datePattern + `)\s*$`),
		build: func(m []string) (Description, bool) {
			cpn, ok := parseCoupon(m[2])
			if !ok {
				return Description{}, false
			}
			d := Description{Issuer: m[1], Ticker: m[1], CouponPct: cpn, Type: TypeCorporate}
			d.Maturity, ok = splitDateToken(m[3])
			return d, ok
		},
	},
	{
		// "International Business Machines 4.25% due 05/15/2030"
		name: "fullname",
		re:   regexp.MustCompile(`^\s*(.{3,}?)\s+(` + couponPattern + `)\s*%\s+(?:due|maturing|mat\.?)?\s*(` + datePattern + `)\s*$`),
		build: func(m []string) (Description, bool) {
			cpn, ok := parseCoupon(m[2])
			if !ok {
				return Description{}, false
			}
			d := Description{Issuer: m[1], CouponPct: cpn, Type: classifyIssuer(m[1])}
			d.Maturity, ok = splitDateToken(m[3])
			d.Ticker = tickerFromIssuer(m[1])
			if d.Type == TypeSovereign {
				d.CountryHint = sovereignCountry(m[1])
			}
			return d, ok
		},
	},
	{
		// "ACME STRIP 05/15/30" / "KFW 0% 2030-06-15"
		name: "zerocoupon",
		re:   regexp.MustCompile(`(?i)^\s*(.{1,}?)\s+(?:0\s*%|ZCP|ZERO|STRIP)\s+(` + datePattern + `)\s*$`),
		build: func(m []string) (Description, bool) {
			d := Description{Issuer: m[1], CouponPct: 0, Type: TypeZero}
			var ok bool
			d.Maturity, ok = splitDateToken(m[2])
			d.Ticker = tickerFromIssuer(m[1])
			return d, ok
		},
	},
}

// ParseDescription applies the ordered pattern rules and falls back to a
// generic coupon/date extraction if none match structurally.
func ParseDescription(input string) (Description, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return Description{}, &ParseError{Input: input, Reason: "empty description"}
	}

	for _, r := range descriptionRules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, ok := r.build(m)
		if !ok {
			continue
		}
		d.Rule = r.name
		d.Issuer = strings.TrimSpace(d.Issuer)
		return d, nil
	}

	return genericExtract(input, text)
}

var (
	genericCouponRe = regexp.MustCompile(`(` + couponPattern + `)\s*%`)
	genericDateRe   = regexp.MustCompile(datePattern)
)

// genericExtract locates a percentage-like coupon and a date-like token
// anywhere in the string. Last resort before ParseError.
func genericExtract(input, text string) (Description, error) {
	cm := genericCouponRe.FindStringSubmatch(text)
	if cm == nil {
		return Description{}, &ParseError{Input: input, Reason: "no coupon found"}
	}
	cpn, ok := parseCoupon(cm[1])
	if !ok {
		return Description{}, &ParseError{Input: input, Reason: "unparseable coupon"}
	}

	// Strip the coupon before looking for a date so "4.25%" cannot be
	// mistaken for a date fragment.
	remainder := strings.Replace(text, cm[0], " ", 1)
	dm := genericDateRe.FindString(remainder)
	if dm == "" {
		return Description{}, &ParseError{Input: input, Reason: "no maturity date found"}
	}
	raw, ok := splitDateToken(dm)
	if !ok {
		return Description{}, &ParseError{Input: input, Reason: "unparseable maturity date"}
	}

	issuer := strings.TrimSpace(strings.Replace(remainder, dm, " ", 1))
	issuer = strings.Trim(issuer, " ,.-")
	d := Description{
		Issuer:    issuer,
		Ticker:    tickerFromIssuer(issuer),
		CouponPct: cpn,
		Maturity:  raw,
		Type:      classifyIssuer(issuer),
		Rule:      "generic",
	}
	if d.Type == TypeSovereign {
		d.CountryHint = sovereignCountry(issuer)
	}
	return d, nil
}

// parseCoupon handles decimal and street fractional notations: "4.25",
// "4 1/4", "4-1/4".
func parseCoupon(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	m := regexp.MustCompile(`^(\d+(?:\.\d+)?)(?:[ -](\d+)/(\d+))?$`).FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	whole, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den == 0 {
			return 0, false
		}
		whole += num / den
	}
	return whole, true
}

var dateSplitRe = regexp.MustCompile(`[-/. ,]+`)

// splitDateToken breaks a date-like token into its positional parts.
func splitDateToken(s string) (RawDate, bool) {
	parts := dateSplitRe.Split(strings.TrimSpace(s), -1)
	fields := make([]string, 0, 3)
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	if len(fields) == 2 {
		// "Aug 2052" style: assume mid-month maturity is not allowed;
		// treat as month + year with day 15 only for named months.
		if monthNumber(fields[0]) > 0 {
			return RawDate{"15", fields[0], fields[1]}, true
		}
		return RawDate{}, false
	}
	if len(fields) != 3 {
		return RawDate{}, false
	}
	return RawDate{fields[0], fields[1], fields[2]}, true
}

func classifyIssuer(issuer string) BondType {
	up := strings.ToUpper(issuer)
	for _, kw := range sovereignKeywords {
		if strings.Contains(up, kw) {
			return TypeSovereign
		}
	}
	if strings.Contains(up, "INTL") || strings.Contains(up, "INTERNATIONAL BANK") ||
		strings.Contains(up, "EUROBOND") {
		return TypeInternational
	}
	if strings.Contains(up, "AGENCY") || strings.Contains(up, "MUNICIPAL") ||
		strings.Contains(up, "PROVINCE") || strings.Contains(up, "STATE OF") {
		return TypeGovernment
	}
	return TypeCorporate
}

// sovereignCountry guesses the market of a sovereign issuer from keywords.
func sovereignCountry(issuer string) string {
	up := strings.ToUpper(issuer)
	switch {
	case strings.Contains(up, "GILT") || strings.Contains(up, "UK ") || strings.Contains(up, "UNITED KINGDOM"):
		return "GB"
	case strings.Contains(up, "BUND") || strings.Contains(up, "BOBL") || strings.Contains(up, "SCHATZ") || strings.Contains(up, "GERMANY"):
		return "DE"
	case strings.Contains(up, "OAT") || strings.Contains(up, "FRANCE"):
		return "FR"
	case strings.Contains(up, "JGB") || strings.Contains(up, "JAPAN"):
		return "JP"
	default:
		return "US"
	}
}

func tickerFromIssuer(issuer string) string {
	fields := strings.Fields(strings.ToUpper(issuer))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ",.")
}
