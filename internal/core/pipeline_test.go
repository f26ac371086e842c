// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/ocr"
	"veridoc/internal/preprocessors"
)

type fakeRasterizer struct {
	image []byte
	err   error
}

func (f *fakeRasterizer) RenderFirstPage(context.Context, []byte, int) ([]byte, error) {
	return f.image, f.err
}

type fakeOCR struct {
	result ocr.Result
	err    error
}

func (f *fakeOCR) Recognize(context.Context, []byte, string) (ocr.Result, error) {
	return f.result, f.err
}

func TestPipeline_UnsupportedFormat(t *testing.T) {
	p := NewPipeline(&fakeRasterizer{}, &fakeOCR{}, 0, "")

	_, _, err := p.ExtractText(context.Background(), []byte("texto plano"))
	require.Error(t, err)
	assert.ErrorIs(t, err, preprocessors.ErrUnsupportedInput)
}

func TestPipeline_ImageGoesToOCR(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	p := NewPipeline(&fakeRasterizer{}, &fakeOCR{
		result: ocr.Result{Text: "certificado de afiliacion", Language: "spa"},
	}, 0, "")

	text, diags, err := p.ExtractText(context.Background(), jpeg)
	require.NoError(t, err)
	assert.Equal(t, "certificado de afiliacion", text)
	assert.Contains(t, diags, "ocr sobre imagen (idioma spa)")
}

func TestPipeline_ImageOCRFailure(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	p := NewPipeline(&fakeRasterizer{}, &fakeOCR{err: preprocessors.ErrOCRFailure}, 0, "")

	_, _, err := p.ExtractText(context.Background(), jpeg)
	assert.ErrorIs(t, err, preprocessors.ErrOCRFailure)
}

func TestPipeline_CorruptPDFRejectedBeforeRaster(t *testing.T) {
	// Carries the PDF magic but no valid structure, so inspection
	// fails before the rasterizer or OCR are consulted.
	corrupt := []byte("%PDF-1.4 garbage without xref")
	p := NewPipeline(&fakeRasterizer{}, &fakeOCR{}, 0, "")

	_, _, err := p.ExtractText(context.Background(), corrupt)
	require.Error(t, err)
	assert.ErrorIs(t, err, preprocessors.ErrPDFConversion)
}
