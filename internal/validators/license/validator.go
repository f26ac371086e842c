// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package license validates driving-license certificates: the
// transit-authority report listing license categories with their
// expedition and validity dates.
package license

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/similarity"
	"veridoc/internal/textnorm"
	"veridoc/internal/validators"
)

// MinSeniorityYears is the default driving seniority a transport
// driver must accredit on the cargo category. Configurable through
// the validator tuning.
const MinSeniorityYears = 3.0

const daysPerYear = 365.25

// Validator checks a driving-license certificate: holder name by token
// coverage, identifier, and a per-line category scan that establishes
// the active cargo category, its seniority and its validity horizon.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates a license certificate validator.
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
			Kind:       detector.KindLicense,
			NameMode:   validators.NameModeWords,
			NameWords:  matchers.DefaultNameWordsConfig(),
			Identifier: id,
			Extend: func(rec *detector.ValidationRecord, text string, ref detector.ReferenceProfile, now time.Time) {
				extend(rec, text, ref, now, tun.MinSeniorityYears)
			},
		}, now),
	}
}

// extend replaces the engine's name verdict with the certificate's
// 60% token-coverage rule and runs the category line scan.
func extend(rec *detector.ValidationRecord, text string, ref detector.ReferenceProfile, now time.Time, minSeniority float64) {
	coverage := similarity.WordCoverage(textnorm.Flat(ref.Name), textnorm.Flat(text), 3)
	rec.Name = &detector.FieldMatch{
		Found:      coverage >= 0.6,
		Confidence: coverage,
		Strategy:   detector.StrategyTokens,
	}

	det := scanCategories(text, now, minSeniority)
	rec.License = &det

	rec.Valid = rec.Name.Found && rec.Identifier.Found &&
		det.Active && det.MeetsSeniority && det.CurrentlyValid
}

// categoryLine is one parsed row of the license category table.
type categoryLine struct {
	category string
	issued   time.Time
	validTo  time.Time
	active   bool
}

var (
	reCategory = regexp.MustCompile(`\bc([23])\b`)
	reLineDate = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)
)

// scanCategories reads the certificate line by line. Each category row
// carries the category code, the expedition date, the validity date
// and the status. The resulting detail reports the category whose
// validity reaches furthest, with seniority measured from the oldest
// expedition of that same category.
func scanCategories(text string, now time.Time, minSeniority float64) detector.LicenseDetail {
	var lines []categoryLine
	seen := map[string]bool{}

	for _, line := range textnorm.Lines(text) {
		cat := categoryOnLine(line)
		if cat == "" {
			continue
		}
		seen[cat] = true

		dates := datesOnLine(line)
		if len(dates) == 0 {
			continue
		}
		entry := categoryLine{
			category: cat,
			issued:   dates[0],
			validTo:  dates[len(dates)-1],
			active:   strings.Contains(line, "activa") && !strings.Contains(line, "inactiva"),
		}
		lines = append(lines, entry)
	}

	det := detector.LicenseDetail{}
	for cat := range seen {
		det.CategoriesOnFile = append(det.CategoriesOnFile, cat)
	}
	sort.Strings(det.CategoriesOnFile)

	// Newest validity among active cargo rows decides the category.
	var current *categoryLine
	for i := range lines {
		l := &lines[i]
		if !l.active {
			continue
		}
		if current == nil || l.validTo.After(current.validTo) {
			current = l
		}
	}
	if current == nil {
		return det
	}

	det.Category = current.category
	det.Active = true
	det.ValidUntil = &current.validTo

	// Seniority runs from the oldest expedition of the same category.
	first := current.issued
	for _, l := range lines {
		if l.category == current.category && l.issued.Before(first) {
			first = l.issued
		}
	}
	det.FirstIssued = &first

	det.SeniorityYears = now.Sub(first).Hours() / 24 / daysPerYear
	det.MeetsSeniority = det.SeniorityYears >= minSeniority
	det.CurrentlyValid = current.validTo.After(now)
	det.DaysToExpiry = int(current.validTo.Sub(now).Hours() / 24)

	return det
}

// categoryOnLine finds a cargo category code on the line, tolerating
// the OCR digit misreads of the category glyphs: a standalone "83" is
// a smeared C3 and a standalone "02" a smeared C2.
func categoryOnLine(line string) string {
	if m := reCategory.FindStringSubmatch(line); m != nil {
		return "c" + m[1]
	}
	for _, tok := range strings.Fields(line) {
		switch tok {
		case "83":
			return "c3"
		case "02":
			return "c2"
		}
	}
	return ""
}

// datesOnLine parses every calendar-valid dd/mm/yyyy date on the line.
// Two-digit years below 50 read as 20yy, the rest as 19yy.
func datesOnLine(line string) []time.Time {
	var out []time.Time
	for _, m := range reLineDate.FindAllStringSubmatch(line, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		switch {
		case year < 50:
			year += 2000
		case year < 100:
			year += 1900
		}
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates license certificate text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
