// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matchers implements the field-level search engines the
// document validators are assembled from: identifier, personal name,
// issuance date, keyword and risk-class extraction. Every matcher
// takes normalized text plus a config struct and returns a verdict
// with the strategy that produced it.
package matchers

import (
	"fmt"
	"strings"

	"veridoc/internal/detector"
	"veridoc/internal/similarity"
	"veridoc/internal/textnorm"
)

// IdentifierConfig tunes the identifier cascade.
type IdentifierConfig struct {
	MinDigits      int     // minimum digits for a candidate run
	FuzzyThreshold float64 // minimum normalized edit similarity
	MaxLengthDiff  int     // tolerated length difference for the weakest rung
	PrefixLen      int     // shared prefix required by the weakest rung
}

// DefaultIdentifierConfig mirrors the cedula cascade tuning.
func DefaultIdentifierConfig() IdentifierConfig {
	return IdentifierConfig{
		MinDigits:      6,
		FuzzyThreshold: 0.65,
		MaxLengthDiff:  2,
		PrefixLen:      4,
	}
}

// MatchIdentifier searches text for the expected identifier through an
// ordered cascade: exact digit-run match, containment, fuzzy edit
// similarity, and finally a close-length shared-prefix comparison.
// The first rung that accepts a candidate wins; candidates are scanned
// left to right so the earliest satisfying run is reported.
func MatchIdentifier(text, expected string, cfg IdentifierConfig) detector.FieldMatch {
	want := textnorm.StripDigitSeparators(strings.TrimSpace(expected))
	if want == "" {
		return detector.FieldMatch{}
	}

	runs := textnorm.DigitRuns(textnorm.Flat(text), cfg.MinDigits)
	if len(runs) == 0 {
		return detector.FieldMatch{}
	}

	for _, run := range runs {
		if run == want {
			return detector.FieldMatch{
				Found:      true,
				Confidence: 1.0,
				Strategy:   detector.StrategyExact,
				Evidence:   run,
			}
		}
	}

	for _, run := range runs {
		if strings.Contains(run, want) || strings.Contains(want, run) {
			return detector.FieldMatch{
				Found:      true,
				Confidence: 0.9,
				Strategy:   detector.StrategyContained,
				Evidence:   run,
			}
		}
	}

	for _, run := range runs {
		if score := similarity.Levenshtein(run, want); score > cfg.FuzzyThreshold {
			return detector.FieldMatch{
				Found:      true,
				Confidence: score,
				Strategy:   detector.StrategyFuzzy,
				Evidence:   run,
			}
		}
	}

	for _, run := range runs {
		diff := len(run) - len(want)
		if diff < 0 {
			diff = -diff
		}
		if diff <= cfg.MaxLengthDiff &&
			len(run) >= cfg.PrefixLen && len(want) >= cfg.PrefixLen &&
			run[:cfg.PrefixLen] == want[:cfg.PrefixLen] {
			return detector.FieldMatch{
				Found:      true,
				Confidence: 0.6,
				Strategy:   detector.StrategyLengthMatch,
				Evidence:   run,
			}
		}
	}

	return detector.FieldMatch{}
}

// MatchIdentifierStrict accepts only an exact run or a run of equal
// length differing in at most one position. Used where a looser
// cascade would overreach, e.g. EPS certificates that always print the
// holder identifier verbatim.
func MatchIdentifierStrict(text, expected string, minDigits int) detector.FieldMatch {
	want := textnorm.StripDigitSeparators(strings.TrimSpace(expected))
	if want == "" {
		return detector.FieldMatch{}
	}

	runs := textnorm.DigitRuns(textnorm.Flat(text), minDigits)
	for _, run := range runs {
		if run == want {
			return detector.FieldMatch{
				Found:      true,
				Confidence: 1.0,
				Strategy:   detector.StrategyExact,
				Evidence:   run,
			}
		}
	}
	for _, run := range runs {
		if len(run) == len(want) && differingPositions(run, want) <= 1 {
			return detector.FieldMatch{
				Found:      true,
				Confidence: 0.85,
				Strategy:   detector.StrategyFuzzy,
				Evidence:   fmt.Sprintf("%s (una posicion distinta)", run),
			}
		}
	}
	return detector.FieldMatch{}
}

func differingPositions(a, b string) int {
	n := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
