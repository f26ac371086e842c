// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"
	"time"

	"veridoc/internal/config"
	"veridoc/internal/detector"
	"veridoc/internal/validators"
	"veridoc/internal/validators/affiliation"
	"veridoc/internal/validators/attorney"
	"veridoc/internal/validators/identity"
	"veridoc/internal/validators/license"
	"veridoc/internal/validators/pension"
	"veridoc/internal/validators/risk"
	"veridoc/internal/validators/transportform"
)

// BuildValidatorSet constructs the standard set of validators filtered by the
// enabled kinds map, with the tuned thresholds threaded into every
// constructor. Pass nil for now to use the wall clock.
func BuildValidatorSet(enabledKinds map[string]bool, tun validators.Tuning, now func() time.Time) map[string]detector.DocumentValidator {
	if now == nil {
		now = time.Now
	}
	result := make(map[string]detector.DocumentValidator)

	if enabledKinds[detector.KindIdentity] {
		result[detector.KindIdentity] = identity.NewValidatorWithTuning(tun, now)
	}
	if enabledKinds[detector.KindAffiliation] {
		result[detector.KindAffiliation] = affiliation.NewValidatorWithTuning(tun, now)
	}
	if enabledKinds[detector.KindRisk] {
		result[detector.KindRisk] = risk.NewValidatorWithTuning(tun, now)
	}
	if enabledKinds[detector.KindPension] {
		result[detector.KindPension] = pension.NewValidatorWithTuning(tun, now)
	}
	if enabledKinds[detector.KindLicense] {
		result[detector.KindLicense] = license.NewValidatorWithTuning(tun, now)
	}
	if enabledKinds[detector.KindAttorney] {
		result[detector.KindAttorney] = attorney.NewValidatorWithTuning(tun, now)
	}
	if enabledKinds[detector.KindTransportForm] {
		result[detector.KindTransportForm] = transportform.NewValidatorWithTuning(tun, now)
	}

	return result
}

// TuningFromConfig maps the configuration's validation section onto
// the validator tuning.
func TuningFromConfig(cfg *config.Config) validators.Tuning {
	tun := validators.DefaultTuning()
	if cfg == nil {
		return tun
	}
	tun.FreshnessDays = cfg.Validation.FreshnessDays
	tun.FuzzyIdentifier = cfg.Validation.FuzzyIdentifier
	tun.NameWindow = cfg.Validation.NameWindow
	tun.RiskThreshold = cfg.Validation.RiskThreshold
	tun.MinSeniorityYears = cfg.Validation.MinSeniorityYears
	tun.Keywords = cfg.Validation.Keywords
	tun.ConfusionMap = cfg.Validation.ConfusionMap
	return tun
}

// AllKinds lists every document kind the engine knows, in report order.
func AllKinds() []string {
	return []string{
		detector.KindIdentity,
		detector.KindAffiliation,
		detector.KindRisk,
		detector.KindPension,
		detector.KindLicense,
		detector.KindAttorney,
		detector.KindTransportForm,
	}
}

// ParseKindsToRun converts a slice of kind names into an enabled-kinds map.
// An empty slice or ["all"] enables every kind.
func ParseKindsToRun(kinds []string) map[string]bool {
	result := make(map[string]bool, len(AllKinds()))
	for _, kind := range AllKinds() {
		result[kind] = false
	}

	if len(kinds) == 0 || (len(kinds) == 1 && kinds[0] == "all") {
		for key := range result {
			result[key] = true
		}
		return result
	}

	for _, kind := range kinds {
		if kindStr := strings.TrimSpace(kind); kindStr != "" {
			if _, exists := result[kindStr]; exists {
				result[kindStr] = true
			}
		}
	}

	return result
}
