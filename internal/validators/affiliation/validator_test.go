// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package affiliation

import (
	"testing"
	"time"

	"veridoc/internal/detector"
)

func clock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 8, 30, 0, 0, time.UTC) }
}

const epsText = `EPS SALUD TOTAL S.A.
CERTIFICADO DE AFILIACION

Certifica que el señor JUAN CARLOS PEREZ GOMEZ identificado con
cedula de ciudadania numero 12.345.678 se encuentra AFILIADO y ACTIVO
al plan de beneficios en salud.

Estado de la afiliación: ACTIVA

La presente certificación se expide a los 05 dias del mes de
septiembre del año 2025.`

func TestValidateEPSCertificate(t *testing.T) {
	v := NewValidatorWithClock(clock(2025, time.September, 10))

	rec := v.Validate(epsText, detector.ReferenceProfile{
		Name:       "JUAN CARLOS PEREZ GOMEZ",
		Identifier: "12345678",
	})

	if rec.Status != detector.StatusOK {
		t.Fatalf("status = %q", rec.Status)
	}
	if !rec.Name.Found {
		t.Errorf("name = %+v", rec.Name)
	}
	if !rec.Identifier.Found || rec.Identifier.Confidence != 1.0 {
		t.Errorf("identifier = %+v", rec.Identifier)
	}
	if rec.IssuedOn == nil || !rec.IssuedOn.Found {
		t.Fatal("expected issuance date")
	}
	if rec.IssuedOn.AgeInDays != 5 || !rec.IssuedOn.IsFresh {
		t.Errorf("issued = %+v, want age 5 fresh", rec.IssuedOn)
	}
	if rec.DocStatus != "activa" {
		t.Errorf("doc status = %q, want activa", rec.DocStatus)
	}
	if len(rec.Keywords) == 0 {
		t.Error("expected affiliation keywords")
	}
	if !rec.Valid {
		t.Error("record should be valid")
	}
}

func TestValidateEPSIdentifierOneMisread(t *testing.T) {
	v := NewValidatorWithClock(clock(2025, time.September, 10))

	// OCR misread one digit; same length is tolerated with one
	// substitution.
	text := "señor JUAN CARLOS PEREZ GOMEZ cedula 12345679 AFILIADO expedido el 05/09/2025"
	rec := v.Validate(text, detector.ReferenceProfile{
		Name:       "JUAN CARLOS PEREZ GOMEZ",
		Identifier: "12345678",
	})

	if !rec.Identifier.Found || rec.Identifier.Strategy != detector.StrategyFuzzy {
		t.Errorf("identifier = %+v, want fuzzy hit", rec.Identifier)
	}
}

func TestValidateEPSStaleCertificate(t *testing.T) {
	v := NewValidatorWithClock(clock(2026, time.January, 15))

	rec := v.Validate(epsText, detector.ReferenceProfile{
		Name:       "JUAN CARLOS PEREZ GOMEZ",
		Identifier: "12345678",
	})

	if rec.IssuedOn.IsFresh {
		t.Error("certificate should be stale")
	}
	if rec.Valid {
		t.Error("stale certificate must not validate")
	}
}
