// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package identity validates the national identity card (cedula de
// ciudadania) against the reference profile.
package identity

import (
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/validators"
)

// Validator checks the holder name and identification number on an
// identity card. The card scatters the name across label fields, so
// the per-word name search is used rather than the prose cascade.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates an identity card validator.
func NewValidator() *Validator {
	return NewValidatorWithClock(time.Now)
}

// NewValidatorWithClock creates a validator with an injectable clock.
func NewValidatorWithClock(now func() time.Time) *Validator {
	return NewValidatorWithTuning(validators.DefaultTuning(), now)
}

// NewValidatorWithTuning creates a validator with configured
// thresholds and an injectable clock.
func NewValidatorWithTuning(tun validators.Tuning, now func() time.Time) *Validator {
	id := matchers.DefaultIdentifierConfig()
	id.FuzzyThreshold = tun.FuzzyIdentifier

	return &Validator{
		engine: validators.NewEngineWithClock(validators.Profile{
			Kind:       detector.KindIdentity,
			NameMode:   validators.NameModeWords,
			NameWords:  matchers.DefaultNameWordsConfig(),
			Identifier: id,
		}, now),
	}
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates identity card text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
