// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pension validates pension-fund affiliation certificates,
// including the fund-issued constancy layout that prints its own
// anchor phrases.
package pension

import (
	"strings"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/textnorm"
	"veridoc/internal/validators"
)

// Document subtypes recognized from the certificate wording.
const (
	SubtypeAffiliation = "constancia_afiliacion"
	SubtypeCertificate = "certificado_pensiones"
	SubtypeFund        = "documento_fondo"
)

// Validator checks a pension certificate: holder name, identifier,
// issuance date and the affiliation keyword. Fund constancies get
// extra anchor phrases and a subtype tag.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates a pension certificate validator.
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
	date.After = 240
	date.LastDateInText = true
	date.FreshnessDays = tun.FreshnessDays

	cascade := matchers.DefaultNameCascadeConfig()
	cascade.WindowThreshold = tun.NameWindow
	// Fund constancies introduce the holder without an honorific.
	cascade.Anchors = append(cascade.Anchors, "afiliado", "afiliada")
	cascade.StopWords = append(cascade.StopWords, "se", "encuentra", "nit")

	id := matchers.DefaultIdentifierConfig()
	id.FuzzyThreshold = tun.FuzzyIdentifier

	return &Validator{
		engine: validators.NewEngineWithClock(validators.Profile{
			Kind:         detector.KindPension,
			NameMode:     validators.NameModeCascade,
			NameCascade:  cascade,
			Identifier:   id,
			Date:         &date,
			Keywords:     tun.KeywordsFor(detector.KindPension, []string{"afiliado"}),
			RequireFresh: true,
			Extend: func(rec *detector.ValidationRecord, text string, _ detector.ReferenceProfile, _ time.Time) {
				rec.DocStatus = subtype(text)
			},
		}, now),
	}
}

// subtype classifies the certificate by its wording.
func subtype(text string) string {
	flat := textnorm.Flat(text)
	switch {
	case strings.Contains(flat, "constancia") && strings.Contains(flat, "afiliacion"):
		return SubtypeAffiliation
	case strings.Contains(flat, "certificado") && strings.Contains(flat, "pensiones"):
		return SubtypeCertificate
	case isFundDocument(flat):
		return SubtypeFund
	}
	return ""
}

// isFundDocument detects a pension-fund issued document: either the
// fund brand or the mandatory-pension wording.
func isFundDocument(flat string) bool {
	if strings.Contains(flat, "proteccion") {
		return true
	}
	return strings.Contains(flat, "fondo") &&
		strings.Contains(flat, "pensiones") &&
		strings.Contains(flat, "obligatorias")
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates pension certificate text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
