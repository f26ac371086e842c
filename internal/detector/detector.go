// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector defines the result model shared by every document
// validator and the interfaces the orchestration layer consumes.
package detector

import "time"

// Document kinds accepted by the engine.
const (
	KindIdentity      = "identity"       // cedula de ciudadania
	KindAffiliation   = "affiliation"    // EPS health affiliation certificate
	KindRisk          = "risk"           // ARL occupational risk certificate
	KindPension       = "pension"        // pension fund certificate
	KindLicense       = "license"        // driving license certificate
	KindAttorney      = "attorney"       // power of attorney
	KindTransportForm = "transport_form" // transporter creation form
)

// Match strategies, ordered from strongest to weakest evidence. The
// strategy names travel in results so a consumer can see which rung of
// the cascade produced a hit.
const (
	StrategyExact       = "exact"
	StrategyContained   = "contained"
	StrategyFuzzy       = "fuzzy"
	StrategyLengthMatch = "length_prefix"
	StrategyAnchor      = "anchor"
	StrategyWindow      = "window"
	StrategyTokens      = "token_containment"
	StrategyLineScan    = "line_scan"
)

// ReferenceProfile is the ground truth a document is validated
// against: the person the documents are supposed to belong to.
type ReferenceProfile struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`

	// Optional fields used by the transporter creation form and the
	// power of attorney.
	TransporterName string `json:"transporter_name,omitempty"`
	TransporterCode string `json:"transporter_code,omitempty"`
}

// FieldMatch is the outcome of searching one expected field in the
// document text. Confidence is comparable within one field's cascade,
// not across fields.
type FieldMatch struct {
	Found      bool    `json:"found"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy,omitempty"`
	Evidence   string  `json:"evidence,omitempty"`
}

// DateResult is the outcome of issuance-date extraction. AgeInDays is
// measured at midnight granularity against the validation clock; a
// future-dated document has a negative age and is never fresh.
type DateResult struct {
	Found     bool       `json:"found"`
	Date      *time.Time `json:"date,omitempty"`
	AgeInDays int        `json:"age_in_days"`
	IsFresh   bool       `json:"is_fresh"`
	Evidence  string     `json:"evidence,omitempty"`
}

// RiskClassResult is the occupational risk classification extracted
// from an ARL certificate.
type RiskClassResult struct {
	Found          bool    `json:"found"`
	RiskClass      int     `json:"risk_class"`
	MeetsThreshold bool    `json:"meets_threshold"`
	Confidence     float64 `json:"confidence"`
	Strategy       string  `json:"strategy,omitempty"`
	Evidence       string  `json:"evidence,omitempty"`
}

// LicenseDetail carries the per-category findings of a driving license
// certificate scan.
type LicenseDetail struct {
	Category         string     `json:"category,omitempty"` // highest active category, e.g. "c2"
	FirstIssued      *time.Time `json:"first_issued,omitempty"`
	ValidUntil       *time.Time `json:"valid_until,omitempty"`
	Active           bool       `json:"active"`
	SeniorityYears   float64    `json:"seniority_years"`
	MeetsSeniority   bool       `json:"meets_seniority"`
	DaysToExpiry     int        `json:"days_to_expiry"`
	CurrentlyValid   bool       `json:"currently_valid"`
	CategoriesOnFile []string   `json:"categories_on_file,omitempty"`
}

// AttorneyDetail carries power-of-attorney specific findings.
type AttorneyDetail struct {
	TransporterFound bool   `json:"transporter_found"`
	TransporterText  string `json:"transporter_text,omitempty"`
	ProxyHolderFound bool   `json:"proxy_holder_found"`
	ProxyHolderText  string `json:"proxy_holder_text,omitempty"`
	FormsClause      bool   `json:"forms_clause"`
	Complete         bool   `json:"complete"`
}

// Statuses for a ValidationRecord.
const (
	StatusOK    = "ok"    // document processed, fields evaluated
	StatusError = "error" // document could not be processed
)

// ValidationRecord is the per-document verdict the engine emits. A
// record with Status "error" has Error set and no field results; field
// absence in a processed document is expressed through the individual
// results, never through an error.
type ValidationRecord struct {
	Kind       string           `json:"kind"`
	Status     string           `json:"status"`
	Name       *FieldMatch      `json:"name,omitempty"`
	Identifier *FieldMatch      `json:"identifier,omitempty"`
	IssuedOn   *DateResult      `json:"issued_on,omitempty"`
	Keywords   []string         `json:"keywords,omitempty"`
	DocStatus  string           `json:"doc_status,omitempty"` // e.g. "activo" from an EPS certificate
	RiskClass  *RiskClassResult `json:"risk_class,omitempty"`
	License    *LicenseDetail   `json:"license,omitempty"`
	Attorney   *AttorneyDetail  `json:"attorney,omitempty"`
	Valid      bool             `json:"valid"`
	Error      string           `json:"error,omitempty"`

	// Diagnostics accumulated while matching, returned instead of
	// being printed anywhere.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// ErrorRecord builds the degraded record for a document that failed
// before validation could run.
func ErrorRecord(kind string, err error) ValidationRecord {
	rec := ValidationRecord{Kind: kind, Status: StatusError}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// DocumentValidator is implemented by each per-type validator package.
// Validators are side effect free and safe for concurrent use.
type DocumentValidator interface {
	// Kind returns the document kind this validator handles.
	Kind() string

	// Validate evaluates recognized document text against the
	// reference profile. It never returns an error: failures are
	// expressed as error-status records.
	Validate(text string, ref ReferenceProfile) ValidationRecord
}
