// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package attorney

import (
	"testing"

	"veridoc/internal/detector"
)

const poderText = `Señores
TRANSPORTES ANDINOS S.A.S
Ciudad

Yo, PEDRO ANTONIO MARTINEZ RUIZ, identificado con cedula de ciudadania,
actuando como representante legal de TRANSPORTES ANDINOS S.A.S con NIT 900.123.456,
confiero poder amplio y suficiente a JUAN CARLOS PEREZ GOMEZ identificado
con cedula No. 12.345.678 para que en mi nombre diligencio los formatos
requeridos para la creacion del transportador.`

var poderRef = detector.ReferenceProfile{
	Name:            "JUAN CARLOS PEREZ GOMEZ",
	Identifier:      "12345678",
	TransporterName: "TRANSPORTES ANDINOS SAS",
}

func TestValidatePowerOfAttorney(t *testing.T) {
	v := NewValidator()

	rec := v.Validate(poderText, poderRef)

	if rec.Status != detector.StatusOK {
		t.Fatalf("status = %q", rec.Status)
	}
	det := rec.Attorney
	if det == nil {
		t.Fatal("expected attorney detail")
	}
	if !det.TransporterFound {
		t.Errorf("transporter not matched: %+v", det)
	}
	if !det.ProxyHolderFound {
		t.Errorf("proxy holder not matched: %+v", det)
	}
	if !det.FormsClause {
		t.Error("forms clause not detected")
	}
	if !rec.Identifier.Found {
		t.Errorf("identifier = %+v", rec.Identifier)
	}
	if !det.Complete || !rec.Valid {
		t.Errorf("expected a complete power of attorney: %+v", det)
	}
}

func TestValidateMissingFormsClause(t *testing.T) {
	v := NewValidator()

	text := `representante legal de TRANSPORTES ANDINOS S.A.S
confiero poder a JUAN CARLOS PEREZ GOMEZ identificado con cedula 12.345.678`
	rec := v.Validate(text, poderRef)

	if rec.Attorney.FormsClause {
		t.Error("forms clause should be absent")
	}
	if rec.Valid {
		t.Error("incomplete power must not validate")
	}
}

func TestValidateWrongProxyHolder(t *testing.T) {
	v := NewValidator()

	rec := v.Validate(poderText, detector.ReferenceProfile{
		Name:            "MARIA FERNANDA RODRIGUEZ LOPEZ",
		Identifier:      "99999999",
		TransporterName: "TRANSPORTES ANDINOS SAS",
	})

	if rec.Attorney.ProxyHolderFound {
		t.Errorf("wrong holder accepted: %+v", rec.Attorney)
	}
	if rec.Valid {
		t.Error("record must not validate")
	}
}

func TestExtractTransporterPatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "legal representative phrase",
			text: "actuando como representante legal de transportes andinos s.a.s con nit 900123456",
			want: "transportes andinos s.a.s",
		},
		{
			name: "senores block skips ciudad",
			text: "Señores\nCiudad\nTRANSPORTES ANDINOS S.A.S",
			want: "transportes andinos s.a.s",
		},
		{
			name: "company suffix line",
			text: "documento de LOGISTICA UNIDOS LTDA\notro contenido",
			want: "documento de logistica unidos ltda",
		},
		{
			name: "transport word line",
			text: "autoriza a transportes del caribe\npara el tramite",
			want: "autoriza a transportes del caribe",
		},
		{
			name: "bare company name without suffix",
			text: "cemex colombia\notro contenido",
			want: "",
		},
		{
			name: "nothing",
			text: "texto sin empresa",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTransporter(tt.text); got != tt.want {
				t.Errorf("extractTransporter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeCompany(t *testing.T) {
	got := normalizeCompany("TRANSPORTES ANDINOS S.A.S")
	if got != "andinos" {
		t.Errorf("normalizeCompany = %q, want %q", got, "andinos")
	}
}
