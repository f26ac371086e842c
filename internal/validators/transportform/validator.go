// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package transportform validates the transporter creation form: the
// filled-in form that registers a driver under a transporter company.
package transportform

import (
	"strings"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/similarity"
	"veridoc/internal/textnorm"
	"veridoc/internal/validators"
)

// WindowThreshold is the fuzzy similarity both party names must reach.
const WindowThreshold = 0.65

// Validator checks the creation form: transporter code (exact digit
// run), transporter name (fuzzy window), driver identifier and driver
// name.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates a creation form validator.
func NewValidator() *Validator {
	return NewValidatorWithClock(time.Now)
}

// NewValidatorWithClock creates a validator with an injectable clock.
func NewValidatorWithClock(now func() time.Time) *Validator {
	return NewValidatorWithTuning(validators.DefaultTuning(), now)
}

// NewValidatorWithTuning creates a validator with configured
// thresholds and an injectable clock. The form's own 0.65 window
// floor stays fixed; only the identifier cascade is tunable here.
func NewValidatorWithTuning(tun validators.Tuning, now func() time.Time) *Validator {
	cascade := matchers.DefaultNameCascadeConfig()
	cascade.WindowThreshold = WindowThreshold

	id := matchers.DefaultIdentifierConfig()
	id.FuzzyThreshold = tun.FuzzyIdentifier

	return &Validator{
		engine: validators.NewEngineWithClock(validators.Profile{
			Kind:        detector.KindTransportForm,
			NameMode:    validators.NameModeCascade,
			NameCascade: cascade,
			Identifier:  id,
			Extend:      extend,
		}, now),
	}
}

func extend(rec *detector.ValidationRecord, text string, ref detector.ReferenceProfile, _ time.Time) {
	diag := func(msg string) { rec.Diagnostics = append(rec.Diagnostics, msg) }

	code := matchCarrierCode(text, ref.TransporterCode)
	if code.Found {
		diag("codigo transportador: " + code.Evidence)
	}

	carrier := matchCarrierName(text, ref.TransporterName)
	if carrier.Found {
		diag("transportador: " + carrier.Evidence)
	}

	// Fold the transporter-side checks into the record: DocStatus
	// carries the carrier code verdict, Attorney-style detail is not
	// needed here.
	rec.DocStatus = carrierStatus(code, carrier)
	rec.Valid = rec.Name.Found && rec.Identifier.Found && code.Found && carrier.Found
}

// matchCarrierCode looks for the transporter registration code as an
// exact 5-10 digit run.
func matchCarrierCode(text, expected string) detector.FieldMatch {
	want := textnorm.StripDigitSeparators(strings.TrimSpace(expected))
	if want == "" {
		return detector.FieldMatch{}
	}
	for _, run := range textnorm.DigitRuns(textnorm.Flat(text), 5) {
		if len(run) > 10 {
			continue
		}
		if run == want {
			return detector.FieldMatch{
				Found:      true,
				Confidence: 1.0,
				Strategy:   detector.StrategyExact,
				Evidence:   run,
			}
		}
	}
	return detector.FieldMatch{}
}

// matchCarrierName finds the transporter company by fuzzy window.
func matchCarrierName(text, expected string) detector.FieldMatch {
	target := textnorm.Flat(expected)
	if target == "" {
		return detector.FieldMatch{}
	}
	tokens := textnorm.FlatWords(text)
	best := similarity.BestWindow(tokens, target, 1, 6)
	if best.Score < WindowThreshold {
		return detector.FieldMatch{}
	}
	return detector.FieldMatch{
		Found:      true,
		Confidence: best.Score,
		Strategy:   detector.StrategyWindow,
		Evidence:   best.Text,
	}
}

func carrierStatus(code, carrier detector.FieldMatch) string {
	switch {
	case code.Found && carrier.Found:
		return "transportador_verificado"
	case code.Found || carrier.Found:
		return "transportador_parcial"
	}
	return ""
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates creation form text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
