// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validators holds the generic cascade engine the per-type
// validator packages configure. Each document type contributes a
// Profile (thresholds, keyword sets, anchor phrases) instead of its
// own copy of the matching code; type-specific extractions (risk
// class, license categories, attorney clauses) hook in through
// Extend.
package validators

import (
	"fmt"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
)

// NameMode selects which name search a profile uses.
type NameMode int

const (
	// NameModeWords searches each expected word independently, the way
	// identity cards scatter the holder name across fields.
	NameModeWords NameMode = iota
	// NameModeCascade runs the anchor/window/containment cascade used
	// on prose certificates.
	NameModeCascade
)

// Profile is the per-document-type configuration of the engine.
type Profile struct {
	Kind string

	NameMode    NameMode
	NameWords   matchers.NameWordsConfig
	NameCascade matchers.NameCascadeConfig

	Identifier       matchers.IdentifierConfig
	StrictIdentifier bool // exact or one-substitution only

	Date     *matchers.DateConfig // nil skips date extraction
	Keywords []string

	// RequireFresh folds date freshness into the record verdict.
	RequireFresh bool

	// Extend runs after the shared fields are evaluated, for
	// type-specific extractions. It may adjust rec.Valid.
	Extend func(rec *detector.ValidationRecord, text string, ref detector.ReferenceProfile, now time.Time)
}

// Engine evaluates one document type. Safe for concurrent use; the
// clock is injectable for deterministic freshness tests.
type Engine struct {
	profile Profile
	now     func() time.Time
}

// NewEngine builds an engine over a profile with the wall clock.
func NewEngine(profile Profile) *Engine {
	return &Engine{profile: profile, now: time.Now}
}

// NewEngineWithClock builds an engine with a caller-supplied clock.
func NewEngineWithClock(profile Profile, now func() time.Time) *Engine {
	return &Engine{profile: profile, now: now}
}

// Kind returns the document kind this engine validates.
func (e *Engine) Kind() string {
	return e.profile.Kind
}

// Validate runs the profile's field matchers over the text. It never
// returns an error and never panics: any internal failure degrades to
// an error-status record.
func (e *Engine) Validate(text string, ref detector.ReferenceProfile) (rec detector.ValidationRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = detector.ErrorRecord(e.profile.Kind, fmt.Errorf("validation panic: %v", r))
		}
	}()

	p := e.profile
	rec = detector.ValidationRecord{Kind: p.Kind, Status: detector.StatusOK}

	var name detector.FieldMatch
	switch p.NameMode {
	case NameModeWords:
		name = matchers.MatchNameWords(text, ref.Name, p.NameWords)
	default:
		name = matchers.MatchNameCascade(text, ref.Name, p.NameCascade)
	}
	rec.Name = &name

	var id detector.FieldMatch
	if p.StrictIdentifier {
		id = matchers.MatchIdentifierStrict(text, ref.Identifier, p.Identifier.MinDigits)
	} else {
		id = matchers.MatchIdentifier(text, ref.Identifier, p.Identifier)
	}
	rec.Identifier = &id

	now := e.now()
	if p.Date != nil {
		issued := matchers.ExtractIssuanceDate(text, *p.Date, now)
		rec.IssuedOn = &issued
	}

	if len(p.Keywords) > 0 {
		rec.Keywords = matchers.FindKeywords(text, p.Keywords)
	}

	rec.Valid = name.Found && id.Found
	if p.RequireFresh && rec.IssuedOn != nil {
		rec.Valid = rec.Valid && rec.IssuedOn.IsFresh
	}

	if p.Extend != nil {
		p.Extend(&rec, text, ref, now)
	}

	return rec
}
