package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hints provides context for disambiguating numeric date tokens.
type Hints struct {
	Country    string // explicit ISO country, highest priority
	CodePrefix string // leading letters of the security code (e.g. ISIN prefix)
	IssuerText string // issuer words, used for sovereign keyword heuristics
}

// ResolvedDate is a disambiguated maturity date with its confidence score.
type ResolvedDate struct {
	Date       time.Time
	Confidence float64
	MonthFirst bool
	Swapped    bool // the preferred token order was invalid and got swapped
}

// AmbiguousDateError reports that no token ordering produced a valid date.
type AmbiguousDateError struct {
	Raw        RawDate
	Candidates []string // orderings attempted, for diagnostics
}

func (e *AmbiguousDateError) Error() string {
	return fmt.Sprintf("ambiguous date %v: no valid ordering (tried %s)",
		[3]string(e.Raw), strings.Join(e.Candidates, ", "))
}

// monthFirstCountries lists markets that quote dates month-first.
var monthFirstCountries = map[string]bool{
	"US": true, "CA": true, "PH": true,
	"GB": false, "DE": false, "FR": false, "IT": false, "ES": false,
	"NL": false, "BE": false, "AT": false, "JP": false, "AU": false,
	"KR": false, "CH": false,
}

var monthNames = map[string]int{
	"JAN": 1, "JANUARY": 1, "FEB": 2, "FEBRUARY": 2, "MAR": 3, "MARCH": 3,
	"APR": 4, "APRIL": 4, "MAY": 5, "JUN": 6, "JUNE": 6, "JUL": 7, "JULY": 7,
	"AUG": 8, "AUGUST": 8, "SEP": 9, "SEPT": 9, "SEPTEMBER": 9, "OCT": 10,
	"OCTOBER": 10, "NOV": 11, "NOVEMBER": 11, "DEC": 12, "DECEMBER": 12,
}

func monthNumber(tok string) int {
	return monthNames[strings.ToUpper(strings.TrimSpace(tok))]
}

// ResolveMaturity turns raw positional date tokens into a concrete date.
//
// Ordering is decided by, in priority: explicit country hint, code-prefix
// country, sovereign issuer keywords, then the default (month-first).
// Two-digit years expand to the nearest century at or after today, since a
// still-outstanding security cannot mature in the past.
func ResolveMaturity(raw RawDate, hints Hints, today time.Time) (ResolvedDate, error) {
	confidence := 1.0

	// ISO layout: 4-digit year leads.
	if len(raw[0]) == 4 && isNumeric(raw[0]) {
		y, _ := strconv.Atoi(raw[0])
		m, okM := numToken(raw[1])
		d, okD := numToken(raw[2])
		if okM && okD && validDate(y, m, d) {
			return ResolvedDate{Date: date(y, m, d), Confidence: 1.0, MonthFirst: false}, nil
		}
		return ResolvedDate{}, &AmbiguousDateError{Raw: raw, Candidates: []string{"iso"}}
	}

	// Named month anywhere removes the ordering question entirely.
	if m := monthNumber(raw[1]); m > 0 {
		return resolveNamed(raw[0], m, raw[2], raw, today)
	}
	if m := monthNumber(raw[0]); m > 0 {
		return resolveNamed(raw[1], m, raw[2], raw, today)
	}

	a, okA := numToken(raw[0])
	b, okB := numToken(raw[1])
	if !okA || !okB {
		return ResolvedDate{}, &AmbiguousDateError{Raw: raw, Candidates: []string{"non-numeric tokens"}}
	}
	year, yConf, err := expandYear(raw[2], today)
	if err != nil {
		return ResolvedDate{}, err
	}
	confidence = yConf

	monthFirst, hinted := orderFromHints(hints)
	if !hinted {
		monthFirst = true // default order
		confidence -= 0.1
		if a <= 12 && b <= 12 && a != b {
			// Both orderings are plausible; surface the default-order
			// result at reduced confidence instead of failing.
			confidence -= 0.2
		}
	}

	day, month := a, b
	if monthFirst {
		day, month = b, a
	}

	if validDate(year, month, day) {
		return ResolvedDate{Date: date(year, month, day), Confidence: confidence, MonthFirst: monthFirst}, nil
	}

	// Retry once with the alternate order.
	if validDate(year, day, month) {
		return ResolvedDate{
			Date:       date(year, day, month),
			Confidence: confidence - 0.2,
			MonthFirst: !monthFirst,
			Swapped:    true,
		}, nil
	}

	return ResolvedDate{}, &AmbiguousDateError{
		Raw: raw,
		Candidates: []string{
			fmt.Sprintf("%04d-%02d-%02d", year, month, day),
			fmt.Sprintf("%04d-%02d-%02d", year, day, month),
		},
	}
}

func resolveNamed(dayTok string, month int, yearTok string, raw RawDate, today time.Time) (ResolvedDate, error) {
	day, ok := numToken(dayTok)
	if !ok {
		return ResolvedDate{}, &AmbiguousDateError{Raw: raw, Candidates: []string{"named-month"}}
	}
	year, conf, err := expandYear(yearTok, today)
	if err != nil {
		return ResolvedDate{}, err
	}
	if !validDate(year, month, day) {
		return ResolvedDate{}, &AmbiguousDateError{
			Raw:        raw,
			Candidates: []string{fmt.Sprintf("%04d-%02d-%02d", year, month, day)},
		}
	}
	return ResolvedDate{Date: date(year, month, day), Confidence: conf}, nil
}

// orderFromHints walks the hint hierarchy and reports whether any level
// produced an answer.
func orderFromHints(hints Hints) (monthFirst, ok bool) {
	if c := strings.ToUpper(strings.TrimSpace(hints.Country)); c != "" {
		if mf, known := monthFirstCountries[c]; known {
			return mf, true
		}
	}
	if p := strings.ToUpper(strings.TrimSpace(hints.CodePrefix)); len(p) >= 2 {
		if mf, known := monthFirstCountries[p[:2]]; known {
			return mf, true
		}
	}
	if hints.IssuerText != "" {
		up := strings.ToUpper(hints.IssuerText)
		for ticker, country := range sovereignTickers {
			if up == ticker {
				return monthFirstCountries[country], true
			}
		}
		for _, kw := range sovereignKeywords {
			if strings.Contains(up, kw) {
				// Sovereign keyword implies the domestic quoting order.
				return monthFirstCountries[sovereignCountry(up)], true
			}
		}
	}
	return false, false
}

// expandYear resolves 2-digit years to the candidate century that puts the
// maturity at or after today. Returns the confidence for the year component.
func expandYear(tok string, today time.Time) (int, float64, error) {
	y, ok := numToken(tok)
	if !ok {
		return 0, 0, &AmbiguousDateError{Raw: RawDate{"", "", tok}, Candidates: []string{"year"}}
	}
	if len(strings.TrimSpace(tok)) == 4 {
		return y, 1.0, nil
	}
	if y < 0 || y > 99 {
		return 0, 0, &AmbiguousDateError{Raw: RawDate{"", "", tok}, Candidates: []string{"year"}}
	}
	for _, century := range []int{1900, 2000, 2100} {
		candidate := century + y
		if candidate >= today.Year() {
			return candidate, 0.85, nil
		}
	}
	return 0, 0, &AmbiguousDateError{Raw: RawDate{"", "", tok}, Candidates: []string{"year"}}
}

func numToken(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !isNumeric(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= last
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
