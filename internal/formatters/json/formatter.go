// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"veridoc/internal/detector"
	"veridoc/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// response is the envelope around the record list.
type response struct {
	Summary summary                      `json:"summary"`
	Results []detector.ValidationRecord `json:"results"`
}

type summary struct {
	Documents int  `json:"documents"`
	Valid     int  `json:"valid"`
	Errors    int  `json:"errors"`
	AllValid  bool `json:"all_valid"`
}

func (f *Formatter) Format(records []detector.ValidationRecord, options formatters.FormatterOptions) (string, error) {
	out := response{
		Summary: summarize(records),
		Results: records,
	}
	if out.Results == nil {
		out.Results = []detector.ValidationRecord{}
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(jsonData), nil
}

func summarize(records []detector.ValidationRecord) summary {
	s := summary{Documents: len(records), AllValid: len(records) > 0}
	for _, rec := range records {
		if rec.Status == detector.StatusError {
			s.Errors++
			s.AllValid = false
			continue
		}
		if rec.Valid {
			s.Valid++
		} else {
			s.AllValid = false
		}
	}
	return s
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
