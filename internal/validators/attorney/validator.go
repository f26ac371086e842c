// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package attorney validates power-of-attorney documents: the letter
// in which a transporter company authorizes a driver to file the
// creation paperwork on its behalf.
package attorney

import (
	"regexp"
	"strings"
	"time"

	"veridoc/internal/detector"
	"veridoc/internal/matchers"
	"veridoc/internal/similarity"
	"veridoc/internal/textnorm"
	"veridoc/internal/validators"
)

// NameAcceptThreshold is the similarity an extracted party name must
// reach against the reference value.
const NameAcceptThreshold = 0.65

// Validator checks a power of attorney: the granting transporter, the
// authorized proxy holder, the holder's identifier and the forms
// clause that makes the letter actionable.
type Validator struct {
	engine *validators.Engine
}

// NewValidator creates a power-of-attorney validator.
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
	cascade := matchers.DefaultNameCascadeConfig()
	cascade.WindowThreshold = tun.NameWindow

	id := matchers.DefaultIdentifierConfig()
	id.FuzzyThreshold = tun.FuzzyIdentifier

	return &Validator{
		engine: validators.NewEngineWithClock(validators.Profile{
			Kind:        detector.KindAttorney,
			NameMode:    validators.NameModeCascade,
			NameCascade: cascade,
			Identifier:  id,
			Extend:      extend,
		}, now),
	}
}

func extend(rec *detector.ValidationRecord, text string, ref detector.ReferenceProfile, _ time.Time) {
	det := detector.AttorneyDetail{}

	transporter := extractTransporter(text)
	if transporter != "" {
		det.TransporterText = transporter
		if ref.TransporterName == "" {
			det.TransporterFound = true
		} else {
			det.TransporterFound = companyMatches(transporter, ref.TransporterName)
		}
	}

	proxy := extractProxyHolder(text)
	if proxy != "" {
		det.ProxyHolderText = proxy
		score := personScore(proxy, ref.Name)
		det.ProxyHolderFound = score >= NameAcceptThreshold || mutualContainment(proxy, ref.Name)
		if det.ProxyHolderFound {
			rec.Name = &detector.FieldMatch{
				Found:      true,
				Confidence: score,
				Strategy:   detector.StrategyAnchor,
				Evidence:   proxy,
			}
		}
	}

	det.FormsClause = hasFormsClause(text)
	det.Complete = det.TransporterFound && det.ProxyHolderFound &&
		det.FormsClause && rec.Identifier.Found

	rec.Attorney = &det
	rec.Valid = det.Complete
}

var (
	reLegalRep = regexp.MustCompile(`representante legal de (?:la (?:empresa|sociedad) )?([a-z0-9 .&-]{3,60}?)(?:\s+identificad|\s+con nit|[,\n]|$)`)
	reNitLine  = regexp.MustCompile(`([a-z0-9 .&-]{3,60}?)\s+(?:con )?nit\.?\s*[0-9]`)

	// "confiero poder amplio y suficiente a JUAN PEREZ identificado
	// con cedula ..." with an optional "No." before the number.
	reGrant = regexp.MustCompile(`confiero poder(?:[a-z, ]{0,80})? a ([a-z ]{5,60}?) identificad[oa] (?:con )?(?:la )?cedula`)
	reYo    = regexp.MustCompile(`yo[, ]+([a-z ]{5,60}?)[, ]+identificad[oa]`)
)

var companySuffixes = []string{"s.a.s", "s.a.s.", "s.a.", "s.a", "sas", "ltda", "ltda."}
var companyFillers = []string{
	"transportadores", "transportes", "transporte", "logistica",
	"unidos", "empresa", "colombia",
}

// extractTransporter locates the granting company. Pattern order:
// the legal-representative phrase, the "señores" address block, a
// NIT-prefixed company line, and finally any line carrying a corporate
// suffix.
func extractTransporter(text string) string {
	plain := textnorm.Plain(text)

	if m := reLegalRep.FindStringSubmatch(plain); m != nil {
		return strings.TrimSpace(m[1])
	}

	lines := textnorm.Lines(text)
	for i, line := range lines {
		if !strings.Contains(line, "senores") {
			continue
		}
		if rest := strings.TrimSpace(strings.TrimPrefix(line, "senores")); rest != "" && !strings.Contains(rest, "ciudad") {
			return rest
		}
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			if strings.Contains(lines[j], "ciudad") {
				continue
			}
			return lines[j]
		}
	}

	if m := reNitLine.FindStringSubmatch(plain); m != nil {
		return strings.TrimSpace(m[1])
	}

	for _, line := range lines {
		for _, tok := range strings.Fields(line) {
			if inStrings(companySuffixes, tok) {
				return line
			}
		}
		if strings.Contains(line, "transportes") {
			return line
		}
	}
	return ""
}

// extractProxyHolder locates the authorized driver: the grant clause,
// falling back to the first-person opening.
func extractProxyHolder(text string) string {
	flatLines := textnorm.Plain(text)
	flatLines = strings.ReplaceAll(flatLines, "\n", " ")

	if m := reGrant.FindStringSubmatch(flatLines); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := reYo.FindStringSubmatch(flatLines); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// normalizeCompany strips corporate suffixes and generic transport
// words so "TRANSPORTES ANDINOS S.A.S" compares as "andinos".
func normalizeCompany(name string) string {
	flat := textnorm.Flat(name)
	words := strings.Fields(flat)
	var kept []string
	for _, w := range words {
		// Corporate suffixes flatten into one- and two-letter
		// fragments ("s a s"); drop those along with the generic
		// transport words.
		if len(w) <= 2 || w == "sas" || w == "ltda" || w == "limitada" {
			continue
		}
		if inStrings(companyFillers, w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// companyMatches compares an extracted company against the expected
// one: highest of normalized similarity, raw similarity and word
// coverage, or mutual containment.
func companyMatches(got, want string) bool {
	score := similarity.Dice(normalizeCompany(got), normalizeCompany(want))
	if s := similarity.Dice(textnorm.Flat(got), textnorm.Flat(want)); s > score {
		score = s
	}
	if s := similarity.WordCoverage(textnorm.Flat(want), textnorm.Flat(got), 3); s > score {
		score = s
	}
	return score >= NameAcceptThreshold || mutualContainment(got, want)
}

// personScore compares an extracted person name with the reference.
func personScore(got, want string) float64 {
	a, b := textnorm.Flat(got), textnorm.Flat(want)
	score := similarity.Dice(a, b)
	if s := similarity.WordCoverage(b, a, 3); s > score {
		score = s
	}
	return score
}

func mutualContainment(a, b string) bool {
	fa, fb := textnorm.Flat(a), textnorm.Flat(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// hasFormsClause checks for the statement that the driver filled in
// the required creation forms.
func hasFormsClause(text string) bool {
	flat := textnorm.Flat(text)
	return strings.Contains(flat, "diligencio los formatos requeridos") ||
		(strings.Contains(flat, "diligencio") && strings.Contains(flat, "formatos"))
}

func inStrings(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Kind returns the document kind.
func (v *Validator) Kind() string { return v.engine.Kind() }

// Validate evaluates power-of-attorney text.
func (v *Validator) Validate(text string, ref detector.ReferenceProfile) detector.ValidationRecord {
	return v.engine.Validate(text, ref)
}
