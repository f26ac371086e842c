// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", []byte("%PDF-1.7 rest"), FormatPDF},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, FormatJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}, FormatPNG},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00, 0x08}, FormatTIFF},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A, 0x08}, FormatTIFF},
		{"text", []byte("hola mundo"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPDFAndIsImage(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.4")) {
		t.Error("pdf not recognized")
	}
	if IsPDF([]byte{0xFF, 0xD8, 0xFF}) {
		t.Error("jpeg misread as pdf")
	}
	if !IsImage([]byte{0xFF, 0xD8, 0xFF}) {
		t.Error("jpeg not recognized as image")
	}
	if IsImage([]byte("%PDF-1.4")) {
		t.Error("pdf misread as image")
	}
}

func TestErrorKindsAreDistinguishable(t *testing.T) {
	wrapped := fmt.Errorf("%w: pdftoppm exited 1", ErrPDFConversion)
	if !errors.Is(wrapped, ErrPDFConversion) {
		t.Error("wrapped conversion error lost its kind")
	}
	if errors.Is(wrapped, ErrOCRFailure) {
		t.Error("conversion error matched the ocr kind")
	}
}

func TestTidyLines(t *testing.T) {
	got := tidyLines("  uno   dos \n\n\ttres\t \n")
	want := "uno dos\ntres"
	if got != want {
		t.Errorf("tidyLines = %q, want %q", got, want)
	}
}

func TestExtractEmbeddedTextRejectsGarbage(t *testing.T) {
	if _, err := ExtractEmbeddedText([]byte("not a pdf at all")); !errors.Is(err, ErrPDFConversion) {
		t.Errorf("err = %v, want ErrPDFConversion", err)
	}
}

func TestInspectImageWithoutExif(t *testing.T) {
	diag := InspectImage([]byte("plain bytes"))
	if diag.CapturedAt != nil || diag.CameraMake != "" {
		t.Errorf("expected empty diagnostics, got %+v", diag)
	}
}
