package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Token grammar for statement lines. Dates and money amounts are the two
// token classes every parser variant shares; keeping them as named functions
// makes the separator heuristics testable in isolation.

var (
	// DD/MM/YY or DD/MM/YYYY
	dateToken = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{2,4})\b`)

	// Money amounts with optional sign, currency symbol, and either comma or
	// dot as thousands/decimal separators: "1.234,56", "1,234.56", "250,00",
	// "1250,00", "-$ 1.000,00".
	moneyToken = regexp.MustCompile(`-?\$?\s?(?:\d{1,3}(?:[.,]\d{3})+|\d+)[.,]\d{2}\b`)
)

var dateFormats = []string{"02/01/2006", "02/01/06"}

// ParseDate parses a date token in day-first order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTokens returns every date token in s.
func DateTokens(s string) []string {
	return dateToken.FindAllString(s, -1)
}

// StartsWithDate reports whether a trimmed line begins with a date token.
func StartsWithDate(line string) bool {
	loc := dateToken.FindStringIndex(strings.TrimSpace(line))
	return loc != nil && loc[0] == 0
}

// LeadingDate returns the date token at the start of the line, or "".
func LeadingDate(line string) string {
	line = strings.TrimSpace(line)
	if m := dateToken.FindStringIndex(line); m != nil && m[0] == 0 {
		return line[m[0]:m[1]]
	}
	return ""
}

// MoneyTokens returns every money-like token in a line.
func MoneyTokens(line string) []string {
	return moneyToken.FindAllString(line, -1)
}

// ParseAmount converts a money token to a float rounded to two decimals.
//
// Separator disambiguation: when both "." and "," are present, the rightmost
// one is the decimal point; a token with only commas treats the last comma
// as decimal; a token with only dots treats the final dot as decimal when
// exactly two digits follow it, otherwise as a thousands separator. These
// rules come from observed es-AR statement layouts and do not necessarily
// generalize to other locales.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s[:lastComma], ",", "") + "." + s[lastComma+1:]
	case lastDot >= 0:
		if len(s)-lastDot-1 == 2 {
			s = strings.ReplaceAll(s[:lastDot], ".", "") + s[lastDot:]
		} else {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.Round(2).InexactFloat64(), true
}

// StripTokens removes date and money tokens from a line, leaving the
// description text.
func StripTokens(line string) string {
	line = dateToken.ReplaceAllString(line, "")
	line = moneyToken.ReplaceAllString(line, "")
	line = strings.Trim(line, " -\t")
	return collapseSpaces(line)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
