// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package textnorm canonicalizes noisy OCR text for matching.
//
// Two modes are provided. Plain normalization lowercases and folds
// diacritics while keeping line structure, so line-oriented scans
// (license category tables, status lines) still work. Flat
// normalization additionally strips everything outside [a-z0-9 ] and
// collapses whitespace, which is what the fuzzy matchers operate on.
// Diacritic folding always happens before symbol stripping so that
// accented letters survive as their base letters instead of vanishing.
package textnorm

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Plain lowercases and folds diacritics ("JOSÉ Pérez" -> "jose perez")
// while preserving line breaks and punctuation.
func Plain(text string) string {
	return unidecode.Unidecode(strings.ToLower(text))
}

// Flat applies Plain and then reduces the text to lowercase
// alphanumerics and single spaces. Line breaks become spaces.
func Flat(text string) string {
	plain := Plain(text)

	var b strings.Builder
	b.Grow(len(plain))
	lastSpace := true
	for _, r := range plain {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
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

// FlatWords returns the whitespace-separated tokens of Flat(text).
func FlatWords(text string) []string {
	flat := Flat(text)
	if flat == "" {
		return nil
	}
	return strings.Fields(flat)
}

// Lines splits plain-normalized text into trimmed, non-empty lines.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(Plain(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// StripDigitSeparators removes dots, spaces, commas, apostrophes and
// hyphens that appear between digits, so "12.345.678" and "12 345 678"
// both collapse to "12345678". Characters that do not sit between two
// digits are left alone.
func StripDigitSeparators(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes))
	for i, r := range runes {
		if isDigitSeparator(r) && i > 0 && i < len(runes)-1 &&
			isDigit(runes[i-1]) && nextDigit(runes, i) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigitSeparator(r rune) bool {
	switch r {
	case '.', ',', ' ', '\'', '-':
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// nextDigit reports whether the next non-separator rune after i is a digit.
func nextDigit(runes []rune, i int) bool {
	for j := i + 1; j < len(runes); j++ {
		if isDigitSeparator(runes[j]) {
			continue
		}
		return isDigit(runes[j])
	}
	return false
}

// DigitRuns extracts every maximal run of digits in s, after stripping
// interior separators, that has at least minLen digits.
func DigitRuns(s string, minLen int) []string {
	joined := StripDigitSeparators(s)
	var runs []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= minLen {
			runs = append(runs, cur.String())
		}
		cur.Reset()
	}
	for _, r := range joined {
		if isDigit(r) {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return runs
}
