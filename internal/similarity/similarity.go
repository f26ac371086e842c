// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package similarity provides the fuzzy string scores the field
// matchers cascade over.
package similarity

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Dice computes the Sorensen-Dice coefficient over character bigrams,
// in [0, 1]. Whitespace is ignored so that token boundaries do not
// dilute the score. The matching thresholds used across the validators
// (0.5 to 0.7) are tuned against this coefficient.
func Dice(a, b string) float64 {
	a = strings.ReplaceAll(a, " ", "")
	b = strings.ReplaceAll(b, " ", "")
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := string(rb[i : i+2])
		if bigrams[bg] > 0 {
			bigrams[bg]--
			intersection++
		}
	}

	return 2.0 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

// Levenshtein returns the normalized edit-distance similarity in
// [0, 1], 1 meaning equal strings.
func Levenshtein(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

// EditDistance returns the raw Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// WordCoverage reports what fraction of the words of expected appear
// as substrings of text. Words shorter than minWordLen are skipped;
// when every word is shorter than that the result is 0.
func WordCoverage(expected, text string, minWordLen int) float64 {
	words := strings.Fields(expected)
	considered, hits := 0, 0
	for _, w := range words {
		if len(w) < minWordLen {
			continue
		}
		considered++
		if strings.Contains(text, w) {
			hits++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(hits) / float64(considered)
}

// Window is a candidate span produced by BestWindow.
type Window struct {
	Text  string
	Score float64
	Start int // token offset into the scanned text
	Size  int // tokens in the window
}

// BestWindow slides windows of minSize..maxSize tokens over tokens and
// returns the span with the highest Dice similarity to target. The
// scan is left to right and a later window must strictly beat the
// current best, so the first of equally scored candidates wins.
func BestWindow(tokens []string, target string, minSize, maxSize int) Window {
	best := Window{Score: -1}
	for size := minSize; size <= maxSize; size++ {
		for start := 0; start+size <= len(tokens); start++ {
			candidate := strings.Join(tokens[start:start+size], " ")
			score := Dice(candidate, target)
			if score > best.Score {
				best = Window{Text: candidate, Score: score, Start: start, Size: size}
			}
		}
	}
	if best.Score < 0 {
		best.Score = 0
	}
	return best
}
