package collector

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidPeriods lists the accepted history lengths, shortest first.
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// InvalidPeriodError reports a rejected period token.
type InvalidPeriodError struct {
	Period string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period %q: must be one of [%s]", e.Period, strings.Join(ValidPeriods, ", "))
}

// NoDataError reports a symbol for which the provider returned no bars.
type NoDataError struct {
	Symbol string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data found for %s: check the stock symbol", e.Symbol)
}

// CheckPeriod applies the quick shape check used before any fetch: the token
// must not be empty, a single character, all digits or all letters. It is
// looser than IsValidPeriod ("xx9" passes) and rejects "ytd" and "max".
func CheckPeriod(period string) error {
	if period == "" || utf8.RuneCountInString(period) == 1 || allRunes(period, unicode.IsDigit) || allRunes(period, unicode.IsLetter) {
		return &InvalidPeriodError{Period: period}
	}
	return nil
}

// IsValidPeriod reports exact membership in ValidPeriods.
func IsValidPeriod(period string) bool {
	for _, p := range ValidPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// ValidatePeriod runs CheckPeriod, or exact membership in ValidPeriods when
// strict is set.
func ValidatePeriod(period string, strict bool) error {
	if strict {
		if !IsValidPeriod(period) {
			return &InvalidPeriodError{Period: period}
		}
		return nil
	}
	return CheckPeriod(period)
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return s != ""
}
