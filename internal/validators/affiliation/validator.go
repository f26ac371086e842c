// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package affiliation validates EPS health-affiliation certificates.
package affiliation

import (
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/validators"
)

// Validator checks an EPS certificate: holder name, identifier,
// issuance date freshness, affiliation keywords and the literal
// affiliation status when the certificate prints one.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates an EPS certificate validator.
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
	date := matchers.DateConfig{
		Keywords: []string{
			"expedicion", "expedida", "expedido", "expide", "expedio",
			"generacion", "generado", "generada", "genera",
			"emision", "emitido", "emitida", "emite",
			"presente", "certificacion", "valida", "validez",
		},
		Before: 50,
		After:  300,
		PhrasePatterns: []string{
			`presente certificacion (?:se )?expide`,
			`certificacion (?:es )?valida`,
		},
		FreshnessDays: tun.FreshnessDays,
	}

	cascade := matchers.DefaultNameCascadeConfig()
	cascade.WindowThreshold = tun.NameWindow

	return &Validator{
		engine: validators.NewEngineWithClock(validators.Profile{
			Kind:             detector.KindAffiliation,
			NameMode:         validators.NameModeCascade,
			NameCascade:      cascade,
			Identifier:       matchers.DefaultIdentifierConfig(),
			StrictIdentifier: true,
			Date:             &date,
			Keywords: tun.KeywordsFor(detector.KindAffiliation, []string{
				"afiliado", "activo", "vinculado", "habilitado", "vigente",
			}),
			RequireFresh: true,
			Extend: func(rec *detector.ValidationRecord, text string, _ detector.ReferenceProfile, _ time.Time) {
				rec.DocStatus = matchers.AffiliationStatus(text)
			},
		}, now),
	}
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates EPS certificate text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
