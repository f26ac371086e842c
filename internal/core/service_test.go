// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/config"
	"veridoc/internal/detector"
	"veridoc/internal/preprocessors"
	"veridoc/internal/validators"
)

// fakeExtractor maps the upload bytes to canned text or an error.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) ExtractText(_ context.Context, data []byte) (string, []string, error) {
	key := string(data)
	if err, ok := f.errs[key]; ok {
		return "", nil, err
	}
	return f.texts[key], []string{"texto de prueba"}, nil
}

const identityText = `Republica de Colombia
Cedula de Ciudadania
PEREZ GOMEZ
JUAN CARLOS
Numero 12.345.678`

var testRef = detector.ReferenceProfile{
	Name:       "JUAN CARLOS PEREZ GOMEZ",
	Identifier: "12345678",
}

func testClock() time.Time {
	return time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
}

func newTestService(extractor TextExtractor) *Service {
	return NewService(extractor, nil, validators.DefaultTuning(), testClock)
}

func TestValidateText_UnknownKind(t *testing.T) {
	s := newTestService(&fakeExtractor{})
	rec := s.ValidateText("pasaporte", "algo", testRef)
	assert.Equal(t, detector.StatusError, rec.Status)
	assert.Contains(t, rec.Error, "unknown document kind")
}

func TestValidateDocument_Success(t *testing.T) {
	s := newTestService(&fakeExtractor{texts: map[string]string{"doc": identityText}})

	rec := s.ValidateDocument(context.Background(), DocumentInput{
		Kind: detector.KindIdentity,
		Data: []byte("doc"),
	}, testRef)

	require.Equal(t, detector.StatusOK, rec.Status)
	assert.True(t, rec.Valid)
	assert.True(t, rec.Name.Found)
	assert.True(t, rec.Identifier.Found)
	assert.Contains(t, rec.Diagnostics, "texto de prueba")
}

func TestValidateDocument_ExtractionFailure(t *testing.T) {
	wrapped := fmt.Errorf("%w: pdftoppm exited 1", preprocessors.ErrPDFConversion)
	s := newTestService(&fakeExtractor{errs: map[string]error{"bad": wrapped}})

	rec := s.ValidateDocument(context.Background(), DocumentInput{
		Kind: detector.KindRisk,
		Data: []byte("bad"),
	}, testRef)

	assert.Equal(t, detector.StatusError, rec.Status)
	assert.Contains(t, rec.Error, "pdftoppm")
}

func TestValidateRequest_NonIdentityFailureDegrades(t *testing.T) {
	s := newTestService(&fakeExtractor{
		texts: map[string]string{"id": identityText},
		errs:  map[string]error{"eps": errors.New("ocr produced nothing")},
	})

	records, err := s.ValidateRequest(context.Background(), []DocumentInput{
		{Kind: detector.KindAffiliation, Data: []byte("eps")},
		{Kind: detector.KindIdentity, Data: []byte("id")},
	}, testRef)

	require.NoError(t, err)
	require.Len(t, records, 2)
	// Report order puts identity first regardless of input order
	assert.Equal(t, detector.KindIdentity, records[0].Kind)
	assert.Equal(t, detector.StatusOK, records[0].Status)
	assert.Equal(t, detector.KindAffiliation, records[1].Kind)
	assert.Equal(t, detector.StatusError, records[1].Status)
}

func TestValidateRequest_IdentityFailureIsFatal(t *testing.T) {
	s := newTestService(&fakeExtractor{
		errs: map[string]error{"id": errors.New("unreadable upload")},
	})

	records, err := s.ValidateRequest(context.Background(), []DocumentInput{
		{Kind: detector.KindIdentity, Data: []byte("id")},
	}, testRef)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity document")
	require.Len(t, records, 1)
	assert.Equal(t, detector.StatusError, records[0].Status)
}

func TestValidateRequest_Empty(t *testing.T) {
	s := newTestService(&fakeExtractor{})
	records, err := s.ValidateRequest(context.Background(), nil, testRef)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseKindsToRun_All(t *testing.T) {
	for _, input := range [][]string{nil, {}, {"all"}} {
		result := ParseKindsToRun(input)
		for kind, enabled := range result {
			assert.True(t, enabled, "kind %s should be enabled for input %v", kind, input)
		}
	}
}

func TestParseKindsToRun_Specific(t *testing.T) {
	result := ParseKindsToRun([]string{"identity", " risk ", "desconocido"})
	assert.True(t, result[detector.KindIdentity])
	assert.True(t, result[detector.KindRisk])
	assert.False(t, result[detector.KindAffiliation])
	assert.False(t, result["desconocido"])
}

func TestBuildValidatorSet_Filtered(t *testing.T) {
	set := BuildValidatorSet(map[string]bool{detector.KindLicense: true}, validators.DefaultTuning(), nil)
	require.Len(t, set, 1)
	v, ok := set[detector.KindLicense]
	require.True(t, ok)
	assert.Equal(t, detector.KindLicense, v.Kind())
}

func TestBuildValidatorSet_AllKindsCovered(t *testing.T) {
	set := BuildValidatorSet(ParseKindsToRun(nil), validators.DefaultTuning(), testClock)
	for _, kind := range AllKinds() {
		v, ok := set[kind]
		require.True(t, ok, "missing validator for %s", kind)
		assert.Equal(t, kind, v.Kind())
	}
}

func TestTuningFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Validation.FreshnessDays = 60
	cfg.Validation.FuzzyIdentifier = 0.8
	cfg.Validation.NameWindow = 0.7
	cfg.Validation.RiskThreshold = 5
	cfg.Validation.MinSeniorityYears = 5
	cfg.Validation.Keywords = map[string][]string{detector.KindRisk: {"cubierto"}}
	cfg.Validation.ConfusionMap = map[string]int{"q": 4}

	tun := TuningFromConfig(cfg)

	assert.Equal(t, 60, tun.FreshnessDays)
	assert.Equal(t, 0.8, tun.FuzzyIdentifier)
	assert.Equal(t, 0.7, tun.NameWindow)
	assert.Equal(t, 5, tun.RiskThreshold)
	assert.Equal(t, 5.0, tun.MinSeniorityYears)
	assert.Equal(t, []string{"cubierto"}, tun.KeywordsFor(detector.KindRisk, nil))
	assert.Equal(t, []string{"afiliado"}, tun.KeywordsFor(detector.KindPension, []string{"afiliado"}))
	assert.Equal(t, 4, tun.ConfusionMap["q"])

	assert.Equal(t, validators.DefaultTuning(), TuningFromConfig(nil))
}

func TestBuildValidatorSet_TunedRiskThreshold(t *testing.T) {
	text := `señor JUAN CARLOS PEREZ GOMEZ cedula 12.345.678 AFILIADO
clase de riesgo 4 expedido el 05/09/2025`

	tuned := validators.DefaultTuning()
	tuned.RiskThreshold = 5

	for _, tc := range []struct {
		name  string
		tun   validators.Tuning
		meets bool
	}{
		{"default threshold accepts class 4", validators.DefaultTuning(), true},
		{"raised threshold rejects class 4", tuned, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			set := BuildValidatorSet(ParseKindsToRun([]string{"risk"}), tc.tun, testClock)
			rec := set[detector.KindRisk].Validate(text, testRef)
			require.NotNil(t, rec.RiskClass)
			require.True(t, rec.RiskClass.Found)
			assert.Equal(t, 4, rec.RiskClass.RiskClass)
			assert.Equal(t, tc.meets, rec.RiskClass.MeetsThreshold)
		})
	}
}
