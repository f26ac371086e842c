// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package risk validates ARL occupational-risk certificates, including
// the noisy risk-class extraction.
package risk

import (
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/validators"
)

// Validator checks an ARL certificate: holder name, identifier,
// issuance date freshness, affiliation keywords and the occupational
// risk class. Transport drivers must carry class 4 or 5.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates an ARL certificate validator.
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
	date := matchers.DefaultDateConfig()
	date.FreshnessDays = tun.FreshnessDays

	riskCfg := matchers.DefaultRiskConfig()
	riskCfg.Threshold = tun.RiskThreshold
	for glyph, class := range tun.ConfusionMap {
		riskCfg.ConfusionMap[glyph] = class
	}

	cascade := matchers.DefaultNameCascadeConfig()
	cascade.WindowThreshold = tun.NameWindow

	id := matchers.DefaultIdentifierConfig()
	id.FuzzyThreshold = tun.FuzzyIdentifier

	return &Validator{
		engine: validators.NewEngineWithClock(validators.Profile{
			Kind:        detector.KindRisk,
			NameMode:    validators.NameModeCascade,
			NameCascade: cascade,
			Identifier:  id,
			Date:        &date,
			Keywords: tun.KeywordsFor(detector.KindRisk, []string{
				"afiliado", "vinculado", "habilitado", "activo", "vigente", "registra",
			}),
			RequireFresh: true,
			Extend: func(rec *detector.ValidationRecord, text string, _ detector.ReferenceProfile, _ time.Time) {
				rc := matchers.ExtractRiskClass(text, riskCfg)
				rec.RiskClass = &rc
				rec.Valid = rec.Valid && rc.MeetsThreshold
			},
		}, now),
	}
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates ARL certificate text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
