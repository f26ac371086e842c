// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"

	"veridoc/internal/ocr"
	"veridoc/internal/preprocessors"
)

// TextExtractor turns an uploaded document into recognizable text plus
// informational diagnostics.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, []string, error)
}

// Pipeline is the document intake path: sniff the upload, prefer the
// embedded PDF text layer, fall back to raster plus OCR.
type Pipeline struct {
	rasterizer preprocessors.Rasterizer
	engine     ocr.Engine
	dpi        int
	langHint   string
}

// NewPipeline builds an intake pipeline. A dpi of zero uses the
// default render resolution; an empty langHint walks the OCR language
// ladder.
func NewPipeline(rasterizer preprocessors.Rasterizer, engine ocr.Engine, dpi int, langHint string) *Pipeline {
	if dpi <= 0 {
		dpi = preprocessors.DefaultRasterDPI
	}
	return &Pipeline{
		rasterizer: rasterizer,
		engine:     engine,
		dpi:        dpi,
		langHint:   langHint,
	}
}

// ExtractText recognizes the text of one uploaded document.
func (p *Pipeline) ExtractText(ctx context.Context, data []byte) (string, []string, error) {
	switch preprocessors.Sniff(data) {
	case preprocessors.FormatPDF:
		return p.extractFromPDF(ctx, data)
	case preprocessors.FormatJPEG, preprocessors.FormatPNG, preprocessors.FormatTIFF:
		return p.extractFromImage(ctx, data)
	default:
		return "", nil, fmt.Errorf("%w: unrecognized file format", preprocessors.ErrUnsupportedInput)
	}
}

func (p *Pipeline) extractFromPDF(ctx context.Context, data []byte) (string, []string, error) {
	var diags []string

	// Digitally produced PDFs carry a text layer and skip OCR entirely.
	if text, err := preprocessors.ExtractEmbeddedText(data); err == nil && len(text) >= preprocessors.MinEmbeddedTextLen {
		diags = append(diags, "texto embebido extraido del pdf")
		return text, diags, nil
	}

	info, err := preprocessors.InspectPDF(data)
	if err != nil {
		return "", diags, err
	}
	if info.PageCount > 1 {
		diags = append(diags, fmt.Sprintf("pdf de %d paginas, solo se procesa la primera", info.PageCount))
	}

	image, err := p.rasterizer.RenderFirstPage(ctx, data, p.dpi)
	if err != nil {
		return "", diags, err
	}

	result, err := p.engine.Recognize(ctx, image, p.langHint)
	if err != nil {
		return "", diags, err
	}
	diags = append(diags, fmt.Sprintf("ocr sobre pdf rasterizado (idioma %s)", result.Language))
	return result.Text, diags, nil
}

func (p *Pipeline) extractFromImage(ctx context.Context, data []byte) (string, []string, error) {
	var diags []string

	if exif := preprocessors.InspectImage(data); exif.CapturedAt != nil {
		diags = append(diags, fmt.Sprintf("foto capturada el %s", exif.CapturedAt.Format("2006-01-02")))
		if exif.CameraMake != "" {
			diags = append(diags, fmt.Sprintf("camara %s %s", exif.CameraMake, exif.CameraModel))
		}
	}

	result, err := p.engine.Recognize(ctx, data, p.langHint)
	if err != nil {
		return "", diags, err
	}
	diags = append(diags, fmt.Sprintf("ocr sobre imagen (idioma %s)", result.Language))
	return result.Text, diags, nil
}
