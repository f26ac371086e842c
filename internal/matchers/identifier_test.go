// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matchers

import (
	"testing"

	"veridoc/internal/detector"
)

func TestMatchIdentifierExactWithDots(t *testing.T) {
	text := "certifica que el conductor identificado con cc 12.345.678 se encuentra afiliado"

	got := MatchIdentifier(text, "12345678", DefaultIdentifierConfig())

	if !got.Found {
		t.Fatal("expected identifier to be found")
	}
	if got.Strategy != detector.StrategyExact {
		t.Errorf("strategy = %q, want %q", got.Strategy, detector.StrategyExact)
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", got.Confidence)
	}
}

func TestMatchIdentifierCascade(t *testing.T) {
	cfg := DefaultIdentifierConfig()

	tests := []struct {
		name         string
		text         string
		expected     string
		wantFound    bool
		wantStrategy string
	}{
		{
			name:         "exact plain",
			text:         "cedula 1030567890 bogota",
			expected:     "1030567890",
			wantFound:    true,
			wantStrategy: detector.StrategyExact,
		},
		{
			name:         "contained in longer run",
			text:         "radicado 00123456780 del dia",
			expected:     "12345678",
			wantFound:    true,
			wantStrategy: detector.StrategyContained,
		},
		{
			name:         "fuzzy single digit misread",
			text:         "identificado con cc 12345677",
			expected:     "12345678",
			wantFound:    true,
			wantStrategy: detector.StrategyFuzzy,
		},
		{
			name:         "length and prefix",
			text:         "documento numero 1234599999",
			expected:     "123456789",
			wantFound:    true,
			wantStrategy: detector.StrategyLengthMatch,
		},
		{
			name:      "absent",
			text:      "sin numeros de documento en este texto",
			expected:  "12345678",
			wantFound: false,
		},
		{
			name:      "empty expected",
			text:      "cc 12345678",
			expected:  "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchIdentifier(tt.text, tt.expected, cfg)
			if got.Found != tt.wantFound {
				t.Fatalf("found = %v, want %v (match %+v)", got.Found, tt.wantFound, got)
			}
			if tt.wantFound && got.Strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", got.Strategy, tt.wantStrategy)
			}
		})
	}
}

func TestMatchIdentifierFirstCandidateWins(t *testing.T) {
	// Two exact occurrences: evidence must come from the first.
	text := "cc 12345678 y de nuevo 12345678"
	got := MatchIdentifier(text, "12345678", DefaultIdentifierConfig())
	if !got.Found || got.Evidence != "12345678" {
		t.Fatalf("unexpected match %+v", got)
	}
}

func TestMatchIdentifierStrict(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		expected  string
		wantFound bool
		wantConf  float64
	}{
		{"exact", "documento 52987654 de la afiliada", "52987654", true, 1.0},
		{"one substitution same length", "documento 52987653", "52987654", true, 0.85},
		{"two substitutions rejected", "documento 52987633", "52987654", false, 0},
		{"different length rejected", "documento 529876541", "52987654", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchIdentifierStrict(tt.text, tt.expected, 6)
			if got.Found != tt.wantFound {
				t.Fatalf("found = %v, want %v", got.Found, tt.wantFound)
			}
			if tt.wantFound && got.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
		})
	}
}
