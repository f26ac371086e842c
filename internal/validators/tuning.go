// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validators

// Tuning carries the configurable thresholds shared by the validator
// profiles. The configuration layer produces one and the factory
// threads it into every per-type constructor.
type Tuning struct {
	FreshnessDays     int     // issuance-date acceptance window
	FuzzyIdentifier   float64 // identifier similarity floor
	NameWindow        float64 // sliding-window name score floor
	RiskThreshold     int     // minimum acceptable risk class
	MinSeniorityYears float64 // license seniority requirement

	// Keywords overrides the per-kind keyword sets, keyed by document
	// kind. Kinds without an entry keep their built-in list.
	Keywords map[string][]string

	// ConfusionMap adds OCR glyph corrections to the risk-class scan
	// on top of the built-in table.
	ConfusionMap map[string]int
}

// DefaultTuning returns the built-in thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		FreshnessDays:     30,
		FuzzyIdentifier:   0.65,
		NameWindow:        0.55,
		RiskThreshold:     4,
		MinSeniorityYears: 3.0,
	}
}

// KeywordsFor returns the configured keyword list for kind, falling
// back to the built-in set.
func (t Tuning) KeywordsFor(kind string, builtin []string) []string {
	if kw := t.Keywords[kind]; len(kw) > 0 {
		return kw
	}
	return builtin
}
