package parse

import (
	"regexp"
	"strings"
)

var isinRe = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// IsISIN reports whether the identifier is syntactically an ISIN.
func IsISIN(identifier string) bool {
	return isinRe.MatchString(strings.ToUpper(strings.TrimSpace(identifier)))
}

// ISINCountry returns the two-letter country prefix of an ISIN, or "" when
// the identifier is not an ISIN.
func ISINCountry(identifier string) string {
	id := strings.ToUpper(strings.TrimSpace(identifier))
	if !isinRe.MatchString(id) {
		return ""
	}
	return id[:2]
}
