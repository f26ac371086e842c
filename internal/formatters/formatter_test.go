// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/formatters"

	_ "veridoc/internal/formatters/json"
	_ "veridoc/internal/formatters/text"
	_ "veridoc/internal/formatters/yaml"
)

func sampleRecords() []detector.ValidationRecord {
	issued := time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)
	return []detector.ValidationRecord{
		{
			Kind:       detector.KindIdentity,
			Status:     detector.StatusOK,
			Name:       &detector.FieldMatch{Found: true, Confidence: 0.9, Strategy: detector.StrategyAnchor},
			Identifier: &detector.FieldMatch{Found: true, Confidence: 1.0, Strategy: detector.StrategyExact},
			Valid:      true,
		},
		{
			Kind:       detector.KindAffiliation,
			Status:     detector.StatusOK,
			Name:       &detector.FieldMatch{Found: true, Confidence: 0.7, Strategy: detector.StrategyWindow},
			Identifier: &detector.FieldMatch{Found: false},
			IssuedOn:   &detector.DateResult{Found: true, Date: &issued, AgeInDays: 4, IsFresh: true},
			DocStatus:  "activa",
			Valid:      false,
		},
		detector.ErrorRecord(detector.KindRisk, errFake("pdf conversion failed")),
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestRegisteredFormatters(t *testing.T) {
	for _, name := range []string{"json", "text", "yaml"} {
		if _, ok := formatters.Get(name); !ok {
			t.Errorf("formatter %q not registered", name)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := formatters.Export("xml", nil, formatters.FormatterOptions{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJSONOutput(t *testing.T) {
	out, err := formatters.Export("json", sampleRecords(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		Summary struct {
			Documents int  `json:"documents"`
			Valid     int  `json:"valid"`
			Errors    int  `json:"errors"`
			AllValid  bool `json:"all_valid"`
		} `json:"summary"`
		Results []detector.ValidationRecord `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Summary.Documents != 3 || parsed.Summary.Valid != 1 || parsed.Summary.Errors != 1 {
		t.Errorf("summary = %+v, want 3 documents / 1 valid / 1 error", parsed.Summary)
	}
	if parsed.Summary.AllValid {
		t.Error("all_valid should be false with an invalid record present")
	}
	if len(parsed.Results) != 3 {
		t.Errorf("results = %d, want 3", len(parsed.Results))
	}
}

func TestJSONEmptyRecords(t *testing.T) {
	out, err := formatters.Export("json", nil, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"results": []`) {
		t.Errorf("expected empty results array, got %s", out)
	}
}

func TestTextOutput(t *testing.T) {
	out, err := formatters.Export("text", sampleRecords(), formatters.FormatterOptions{NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"VALID", "INVALID", "ERROR", "identity", "affiliation", "activa"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTextVerboseOutput(t *testing.T) {
	out, err := formatters.Export("text", sampleRecords(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"=== identity ===", "Verdict:", "Issued: 2025-08-27", "pdf conversion failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}

func TestYAMLOutput(t *testing.T) {
	out, err := formatters.Export("yaml", sampleRecords(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "results:") || !strings.Contains(out, "kind: identity") {
		t.Errorf("yaml output missing expected keys:\n%s", out)
	}
}

func TestExportForWeb(t *testing.T) {
	_, mime, filename, err := formatters.ExportForWeb("json", sampleRecords(), formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime != "application/json" {
		t.Errorf("mime = %q, want application/json", mime)
	}
	if filename != "veridoc-results.json" {
		t.Errorf("filename = %q, want veridoc-results.json", filename)
	}
}
