// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matchers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/textnorm"
)

// DateConfig tunes the issuance-date search.
type DateConfig struct {
	Keywords       []string // issuance keywords anchoring the search window
	Before         int      // characters of context before the keyword
	After          int      // characters of context after the keyword
	PhrasePatterns []string // regex fallbacks when no keyword window yields a date
	LastDateInText bool     // final fallback: newest parseable date anywhere
	FreshnessDays  int      // maximum age in days to count as fresh
}

// DefaultDateConfig carries the shared issuance keyword set and the
// 30-day freshness window.
func DefaultDateConfig() DateConfig {
	return DateConfig{
		Keywords: []string{
			"expedicion", "expedida", "expedido", "expide",
			"generacion", "generado", "generada",
			"emision", "emitido", "emitida",
		},
		Before:        50,
		After:         100,
		FreshnessDays: 30,
	}
}

var monthsByName = map[string]int{
	"enero": 1, "ene": 1,
	"febrero": 2, "feb": 2,
	"marzo": 3, "mar": 3,
	"abril": 4, "abr": 4,
	"mayo": 5, "may": 5,
	"junio": 6, "jun": 6,
	"julio": 7, "jul": 7,
	"agosto": 8, "ago": 8,
	"septiembre": 9, "setiembre": 9, "sep": 9, "set": 9,
	"octubre": 10, "oct": 10,
	"noviembre": 11, "nov": 11,
	"diciembre": 12, "dic": 12,
	"01": 1, "02": 2, "03": 3, "04": 4, "05": 5, "06": 6,
	"07": 7, "08": 8, "09": 9, "10": 10, "11": 11, "12": 12,
}

var (
	// "a los 27 dias del mes de agosto del ano 2025", with the count
	// sometimes spelled out and clarified in parentheses.
	reSpelledDate = regexp.MustCompile(`(\d{1,2}) dias? del mes de ([a-z0-9]+) (?:del? )?(?:ano )?(\d{2,4})`)

	// "27 de agosto de 2025"
	reMonthNameDate = regexp.MustCompile(`(\d{1,2}) de ([a-z]+) (?:del? )?(?:ano )?(\d{2,4})`)

	// 27/08/2025, 27-08-2025
	reNumericDate = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

	// "veintisiete (27)" style clarifications: keep the digits.
	reParenNumber = regexp.MustCompile(`[a-z]*\s*\((\d{1,4})\)`)

	// dots or spaces splitting a number, "2.025" -> "2025"
	reSplitDigits = regexp.MustCompile(`(\d)[.\s](\d)`)
)

// ExtractIssuanceDate finds the document issuance date and evaluates
// its freshness against now. The search anchors on each configured
// keyword in order and scans a window around its first occurrence, so
// the earliest keyword with a parseable date wins. When no keyword or
// phrase context yields a date, the whole text is scanned. Impossible
// calendar dates are rejected, two-digit years are read as 20yy, and
// a future-dated document is reported but never fresh.
func ExtractIssuanceDate(text string, cfg DateConfig, now time.Time) detector.DateResult {
	flatWithSymbols := prepareDateText(text)

	for _, kw := range cfg.Keywords {
		idx := strings.Index(flatWithSymbols, kw)
		if idx < 0 {
			continue
		}
		start := idx - cfg.Before
		if start < 0 {
			start = 0
		}
		end := idx + len(kw) + cfg.After
		if end > len(flatWithSymbols) {
			end = len(flatWithSymbols)
		}
		if d, evidence, ok := parseFirstDate(flatWithSymbols[start:end]); ok {
			return freshness(d, evidence, cfg.FreshnessDays, now)
		}
	}

	for _, pat := range cfg.PhrasePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			continue
		}
		if loc := re.FindStringIndex(flatWithSymbols); loc != nil {
			end := loc[1] + cfg.After
			if end > len(flatWithSymbols) {
				end = len(flatWithSymbols)
			}
			if d, evidence, ok := parseFirstDate(flatWithSymbols[loc[0]:end]); ok {
				return freshness(d, evidence, cfg.FreshnessDays, now)
			}
		}
	}

	if cfg.LastDateInText {
		if d, evidence, ok := parseLastDate(flatWithSymbols); ok {
			return freshness(d, evidence, cfg.FreshnessDays, now)
		}
	}

	// Certificates often print the issuance date with no keyword
	// nearby; scan the whole text before giving up.
	if d, evidence, ok := parseFirstDate(flatWithSymbols); ok {
		return freshness(d, evidence, cfg.FreshnessDays, now)
	}

	return detector.DateResult{}
}

// prepareDateText normalizes for date scanning: lowercase, folded
// diacritics, digit clarifications resolved, split numbers rejoined.
// Slashes and hyphens are preserved for the numeric formats.
func prepareDateText(text string) string {
	t := textnorm.Plain(text)
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "dia(s)", "dias")
	t = reParenNumber.ReplaceAllString(t, "$1")
	t = reSplitDigits.ReplaceAllString(t, "$1$2")
	// A second pass catches overlapping splits ("2 0 2 5").
	t = reSplitDigits.ReplaceAllString(t, "$1$2")

	// Keep slashes and hyphens for the numeric formats, drop the rest
	// of the punctuation and collapse runs of spaces.
	var b strings.Builder
	b.Grow(len(t))
	lastSpace := true
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '/', r == '-':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// parseFirstDate tries the date grammars in specificity order on the
// given window and returns the first calendar-valid date.
func parseFirstDate(window string) (time.Time, string, bool) {
	for _, re := range []*regexp.Regexp{reSpelledDate, reMonthNameDate, reNumericDate} {
		for _, m := range re.FindAllStringSubmatch(window, -1) {
			if d, ok := assembleDate(m[1], m[2], m[3]); ok {
				return d, m[0], true
			}
		}
	}
	return time.Time{}, "", false
}

// parseLastDate returns the latest calendar-valid date anywhere in the
// text. Used as a final fallback by documents that print their
// issuance date without any keyword nearby.
func parseLastDate(text string) (time.Time, string, bool) {
	var best time.Time
	var evidence string
	found := false
	for _, re := range []*regexp.Regexp{reSpelledDate, reMonthNameDate, reNumericDate} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d, ok := assembleDate(m[1], m[2], m[3]); ok {
				if !found || d.After(best) {
					best, evidence, found = d, m[0], true
				}
			}
		}
	}
	return best, evidence, found
}

// assembleDate builds a calendar-validated date from day, month (name
// or number) and year strings.
func assembleDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}

	month, ok := monthsByName[monthStr]
	if !ok {
		n, err := strconv.Atoi(monthStr)
		if err != nil || n < 1 || n > 12 {
			return time.Time{}, false
		}
		month = n
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// freshness computes the midnight-to-midnight age of the date.
func freshness(d time.Time, evidence string, windowDays int, now time.Time) detector.DateResult {
	nowMid := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	age := int(nowMid.Sub(d).Hours() / 24)
	return detector.DateResult{
		Found:     true,
		Date:      &d,
		AgeInDays: age,
		IsFresh:   age >= 0 && age <= windowDays,
		Evidence:  evidence,
	}
}
