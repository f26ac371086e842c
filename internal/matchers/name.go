// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matchers

import (
	"strings"

	"veridoc/internal/detector"
	"veridoc/internal/similarity"
	"veridoc/internal/textnorm"
)

// NameWordsConfig tunes the per-word name search used on identity
// documents, where the holder name appears split across card fields
// rather than as one phrase.
type NameWordsConfig struct {
	PrefixLen    int     // prefix length accepted when the full word is not present
	TokenFuzzy   float64 // per-token similarity threshold
	MinWordShare float64 // fraction of expected words required
	MinWordLen   int     // expected words shorter than this are ignored
}

// DefaultNameWordsConfig mirrors the identity-card tuning.
func DefaultNameWordsConfig() NameWordsConfig {
	return NameWordsConfig{
		PrefixLen:    4,
		TokenFuzzy:   0.6,
		MinWordShare: 0.25,
		MinWordLen:   3,
	}
}

// MatchNameWords checks each word of the expected name independently:
// direct substring, then a prefix hit, then fuzzy similarity against
// every token of the text. The name counts as found when more than
// MinWordShare of the expected words hit, or at least one does.
// Confidence is the fraction of expected words found.
func MatchNameWords(text, expected string, cfg NameWordsConfig) detector.FieldMatch {
	flat := textnorm.Flat(text)
	tokens := strings.Fields(flat)
	words := wordsOfMinLen(textnorm.Flat(expected), cfg.MinWordLen)
	if len(words) == 0 {
		return detector.FieldMatch{}
	}

	var hits []string
	for _, w := range words {
		if strings.Contains(flat, w) {
			hits = append(hits, w)
			continue
		}
		if len(w) >= cfg.PrefixLen && strings.Contains(flat, w[:cfg.PrefixLen]) {
			hits = append(hits, w)
			continue
		}
		for _, tok := range tokens {
			if similarity.Dice(tok, w) > cfg.TokenFuzzy {
				hits = append(hits, w)
				break
			}
		}
	}

	share := float64(len(hits)) / float64(len(words))
	if share > cfg.MinWordShare || len(hits) >= 1 {
		return detector.FieldMatch{
			Found:      len(hits) > 0,
			Confidence: share,
			Strategy:   detector.StrategyTokens,
			Evidence:   strings.Join(hits, " "),
		}
	}
	return detector.FieldMatch{Confidence: share}
}

// NameCascadeConfig tunes the certificate name cascade: anchor
// extraction, sliding windows, token containment.
type NameCascadeConfig struct {
	Anchors         []string // honorifics preceding the holder name
	StopWords       []string // words that terminate the span after an anchor
	SkipWords       []string // connective words skipped inside the span
	AnchorThreshold float64  // similarity accepted for an anchored span
	WindowThreshold float64  // similarity accepted for a window candidate
	MinWindow       int      // smallest window in tokens
	MaxWindow       int      // largest window in tokens
	MinTokenLen     int      // expected tokens shorter than this are skipped in containment
}

// DefaultNameCascadeConfig mirrors the certificate tuning shared by
// the affiliation-style documents.
func DefaultNameCascadeConfig() NameCascadeConfig {
	return NameCascadeConfig{
		Anchors: []string{"senora", "senor", "sra", "sr"},
		StopWords: []string{
			"identificado", "identificada", "identificad", "identificacion",
			"con", "cc", "cedula", "numero", "c", "documento",
		},
		SkipWords: []string{
			"el", "la", "del", "de", "los", "las", "y", "en", "por", "a", "al",
		},
		AnchorThreshold: 0.5,
		WindowThreshold: 0.55,
		MinWindow:       2,
		MaxWindow:       5,
		MinTokenLen:     3,
	}
}

// MatchNameCascade locates the expected holder name in certificate
// text. Strategy order: the span following an honorific anchor, then
// the best sliding window over the whole text, then containment of
// every expected token. Early exit on the first accepting strategy.
func MatchNameCascade(text, expected string, cfg NameCascadeConfig) detector.FieldMatch {
	flat := textnorm.Flat(text)
	target := textnorm.Flat(expected)
	if target == "" || flat == "" {
		return detector.FieldMatch{}
	}
	tokens := strings.Fields(flat)

	if span := anchoredSpan(tokens, cfg); span != "" {
		if score := similarity.Dice(span, target); score > cfg.AnchorThreshold {
			return detector.FieldMatch{
				Found:      true,
				Confidence: score,
				Strategy:   detector.StrategyAnchor,
				Evidence:   span,
			}
		}
	}

	if best := similarity.BestWindow(tokens, target, cfg.MinWindow, cfg.MaxWindow); best.Score > cfg.WindowThreshold {
		return detector.FieldMatch{
			Found:      true,
			Confidence: best.Score,
			Strategy:   detector.StrategyWindow,
			Evidence:   best.Text,
		}
	}

	expectedTokens := wordsOfMinLen(target, cfg.MinTokenLen)
	if len(expectedTokens) > 0 && allContained(flat, expectedTokens) {
		return detector.FieldMatch{
			Found:      true,
			Confidence: 0.6,
			Strategy:   detector.StrategyTokens,
			Evidence:   strings.Join(expectedTokens, " "),
		}
	}

	return detector.FieldMatch{}
}

// anchoredSpan returns the name-like span following the first
// honorific anchor: up to MaxWindow tokens, ending at the first stop
// word, with connective skip words dropped.
func anchoredSpan(tokens []string, cfg NameCascadeConfig) string {
	stop := toSet(cfg.StopWords)
	skip := toSet(cfg.SkipWords)

	for i, tok := range tokens {
		if !inList(cfg.Anchors, tok) {
			continue
		}
		var span []string
		for j := i + 1; j < len(tokens) && len(span) < cfg.MaxWindow; j++ {
			t := tokens[j]
			if stop[t] || isNumeric(t) {
				break
			}
			if skip[t] {
				continue
			}
			span = append(span, t)
		}
		if len(span) > 0 {
			return strings.Join(span, " ")
		}
	}
	return ""
}

func wordsOfMinLen(s string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

func allContained(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func inList(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
