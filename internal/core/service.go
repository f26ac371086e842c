// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core orchestrates document validation requests: intake of
// each upload, fan-out to the per-type validators and assembly of the
// combined verdict. It is shared by the CLI and the web server.
package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/observability"
	"veridoc/internal/validators"
)

// DocumentInput is one uploaded document awaiting validation.
type DocumentInput struct {
	Kind     string // document kind, see detector kind constants
	Filename string // original upload name, informational
	Data     []byte
}

// Service validates sets of documents against a reference profile.
type Service struct {
	validators map[string]detector.DocumentValidator
	extractor  TextExtractor
	observer   *observability.StandardObserver
}

// NewService builds a validation service over the full validator set.
// Pass nil for now to use the wall clock, nil for observer to disable
// observability.
func NewService(extractor TextExtractor, observer *observability.StandardObserver, tun validators.Tuning, now func() time.Time) *Service {
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
	return &Service{
		validators: BuildValidatorSet(ParseKindsToRun(nil), tun, now),
		extractor:  extractor,
		observer:   observer,
	}
}

// ValidateText runs the validator for kind over already recognized
// text. Unknown kinds yield an error-status record.
func (s *Service) ValidateText(kind, text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	validator, ok := s.validators[kind]
	if !ok {
		return detector.ErrorRecord(kind, fmt.Errorf("unknown document kind %q", kind))
	}
	return validator.Validate(text, ref)
}

// ValidateDocument extracts text from one upload and validates it.
// Extraction failures become error-status records, never panics or
// dropped documents.
func (s *Service) ValidateDocument(ctx context.Context, input DocumentInput, ref detector.ReferenceProfile) detector.ValidationRecord {
	done := s.observer.StartTiming("core", "validate_document", input.Kind)
	dbg := s.observer.DebugObserver

	var endStep func(success bool, details string)
	if dbg != nil {
		endStep = dbg.StartStep("core", "extract_text", input.Kind)
	}
	text, diags, err := s.extractor.ExtractText(ctx, input.Data)
	if err != nil {
		if endStep != nil {
			endStep(false, err.Error())
		}
		done(false, map[string]interface{}{"error": err.Error()})
		rec := detector.ErrorRecord(input.Kind, err)
		rec.Diagnostics = diags
		return rec
	}
	if endStep != nil {
		endStep(true, fmt.Sprintf("%d chars", len(text)))
	}
	if dbg != nil {
		dbg.LogMetric("core", "text_length", len(text))
	}

	rec := s.ValidateText(input.Kind, text, ref)
	rec.Diagnostics = append(diags, rec.Diagnostics...)
	done(rec.Status == detector.StatusOK, map[string]interface{}{"valid": rec.Valid})
	return rec
}

// ValidateRequest validates a document set concurrently and returns
// records in report order. The identity document is mandatory: its
// processing failure fails the whole request. Every other document
// degrades independently to an error-status record.
func (s *Service) ValidateRequest(ctx context.Context, inputs []DocumentInput, ref detector.ReferenceProfile) ([]detector.ValidationRecord, error) {
	records := make([]detector.ValidationRecord, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input DocumentInput) {
			defer wg.Done()
			records[i] = s.ValidateDocument(ctx, input, ref)
		}(i, input)
	}
	wg.Wait()

	sortByReportOrder(records)

	for _, rec := range records {
		if rec.Kind == detector.KindIdentity && rec.Status == detector.StatusError {
			return records, fmt.Errorf("identity document could not be processed: %s", rec.Error)
		}
	}
	return records, nil
}

// sortByReportOrder sorts records into the fixed kind order, keeping
// the relative order of records of the same kind.
func sortByReportOrder(records []detector.ValidationRecord) {
	rank := make(map[string]int, len(AllKinds()))
	for i, kind := range AllKinds() {
		rank[kind] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		ri, iok := rank[records[i].Kind]
		rj, jok := rank[records[j].Kind]
		if iok != jok {
			return iok // known kinds before unknown ones
		}
		return ri < rj
	})
}
