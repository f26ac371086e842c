// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matchers

import (
	"regexp"
	"strings"

	"veridoc/internal/detector"
	"veridoc/internal/textnorm"
)

// RiskConfig tunes the occupational risk-class cascade.
type RiskConfig struct {
	Threshold     int            // class required to meet the transport threshold
	ConfusionMap  map[string]int // OCR glyph corrections, token -> class
	TableHeaders  []string       // column words marking tabular layout
	StatusMarkers []string       // affiliation status words inside table rows
}

// DefaultRiskConfig carries the ARL certificate tuning, including the
// glyph corrections seen when tesseract misreads the class digit.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		Threshold: 4,
		ConfusionMap: map[string]int{
			"a": 4, "h": 4, "y": 4, "n": 4, "u": 4,
			"s": 5,
			"uno": 1, "dos": 2, "tres": 3, "cuatro": 4, "cinco": 5,
		},
		TableHeaders: []string{
			"documento", "empleador", "vinculacion", "fecha", "clase", "riesgo", "estado",
		},
		StatusMarkers: []string{
			"dependiente", "independiente", "activo", "inactivo",
		},
	}
}

// ExtractRiskClass locates the occupational risk class (1-5) in ARL
// certificate text. Four strategies run in order of decreasing
// evidence quality, each assigning its own fixed confidence: a
// tabular header-plus-status context (0.9), "clase ... riesgo"
// proximity (0.8), a per-line scan of affiliation status rows (0.75)
// and an exhaustive token scan of every substantial line (0.4).
func ExtractRiskClass(text string, cfg RiskConfig) detector.RiskClassResult {
	flat := textnorm.Flat(text)

	if res, ok := riskFromTable(flat, cfg); ok {
		return res
	}
	if res, ok := riskFromProximity(flat, cfg); ok {
		return res
	}
	if res, ok := riskFromStatusLines(text, cfg); ok {
		return res
	}
	if res, ok := riskExhaustive(text, cfg); ok {
		return res
	}
	return detector.RiskClassResult{}
}

var reClaseRiesgo = regexp.MustCompile(`clase[a-z ]{0,50}riesgo`)

// riskFromTable accepts a class token that appears shortly after a
// table header word followed by an affiliation status word.
func riskFromTable(flat string, cfg RiskConfig) (detector.RiskClassResult, bool) {
	tokens := strings.Fields(flat)
	headers := toSet(cfg.TableHeaders)
	statuses := toSet(cfg.StatusMarkers)

	sawHeader := false
	for i, tok := range tokens {
		if headers[tok] {
			sawHeader = true
			continue
		}
		if !sawHeader || !statuses[tok] {
			continue
		}
		// Status word inside a table row: the class sits in the next
		// few cells.
		for j := i + 1; j < len(tokens) && j <= i+4; j++ {
			if class, ok := resolveClassToken(tokens[j], cfg.ConfusionMap); ok {
				return result(class, 0.9, "table_context", tokens[i]+" "+tokens[j], cfg), true
			}
		}
	}
	return detector.RiskClassResult{}, false
}

// riskFromProximity accepts a class token following a "clase ...
// riesgo" phrase with at most ~50 characters between the words.
func riskFromProximity(flat string, cfg RiskConfig) (detector.RiskClassResult, bool) {
	loc := reClaseRiesgo.FindStringIndex(flat)
	if loc == nil {
		return detector.RiskClassResult{}, false
	}
	tail := flat[loc[1]:]
	if len(tail) > 30 {
		tail = tail[:30]
	}
	for _, tok := range strings.Fields(tail) {
		if class, ok := resolveClassToken(tok, cfg.ConfusionMap); ok {
			return result(class, 0.8, "proximity", flat[loc[0]:loc[1]]+" "+tok, cfg), true
		}
	}
	return detector.RiskClassResult{}, false
}

// riskFromStatusLines scans each line carrying an affiliation status
// marker for a trailing class token.
func riskFromStatusLines(text string, cfg RiskConfig) (detector.RiskClassResult, bool) {
	statuses := toSet(cfg.StatusMarkers)
	for _, line := range textnorm.Lines(text) {
		tokens := strings.Fields(textnorm.Flat(line))
		statusAt := -1
		for i, tok := range tokens {
			if statuses[tok] {
				statusAt = i
				break
			}
		}
		if statusAt < 0 {
			continue
		}
		// Table rows print the class after the status cell.
		for _, tok := range tokens[statusAt+1:] {
			if statuses[tok] {
				continue
			}
			if class, ok := resolveClassToken(tok, cfg.ConfusionMap); ok {
				return result(class, 0.75, "status_line", line, cfg), true
			}
		}
	}
	return detector.RiskClassResult{}, false
}

var reRiskSegment = regexp.MustCompile(`[\n,.;|]`)

// riskExhaustive is the last resort: every substantial segment of the
// text, scanned token by token for anything resolving to a class.
func riskExhaustive(text string, cfg RiskConfig) (detector.RiskClassResult, bool) {
	for _, segment := range reRiskSegment.Split(textnorm.Plain(text), -1) {
		line := textnorm.Flat(segment)
		if len(line) <= 10 {
			continue
		}
		for _, tok := range strings.Fields(line) {
			if class, ok := resolveClassToken(tok, cfg.ConfusionMap); ok {
				if len(line) > 50 {
					line = line[:50]
				}
				return result(class, 0.4, "exhaustive", line, cfg), true
			}
		}
	}
	return detector.RiskClassResult{}, false
}

var reClassDigit = regexp.MustCompile(`[1-5]`)

// resolveClassToken maps a token to a risk class: a literal digit 1-5,
// a class digit smeared into a longer token ("riesgo4"), a glyph from
// the confusion map, or an OCR smear containing "emo" (a frequent
// misread of the class-4 table cell).
func resolveClassToken(tok string, confusion map[string]int) (int, bool) {
	if len(tok) == 1 && tok[0] >= '1' && tok[0] <= '5' {
		return int(tok[0] - '0'), true
	}
	// Pure digit runs stay untouched so years and identifiers never
	// read as classes; only mixed tokens give up an embedded digit.
	if !isNumeric(tok) {
		if m := reClassDigit.FindString(tok); m != "" {
			return int(m[0] - '0'), true
		}
	}
	if class, ok := confusion[tok]; ok {
		return class, true
	}
	// Short OCR smears of the class-4 cell read as "emo" sequences.
	// The length cap keeps ordinary words ("hacemos") out.
	if len(tok) <= 6 && strings.Contains(tok, "emo") {
		return 4, true
	}
	return 0, false
}

func result(class int, confidence float64, strategy, evidence string, cfg RiskConfig) detector.RiskClassResult {
	return detector.RiskClassResult{
		Found:          true,
		RiskClass:      class,
		MeetsThreshold: class >= cfg.Threshold,
		Confidence:     confidence,
		Strategy:       strategy,
		Evidence:       evidence,
	}
}
