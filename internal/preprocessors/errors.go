// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package preprocessors turns an uploaded document (PDF or scanned
// image) into text the validators can work on: magic-byte sniffing,
// embedded-PDF-text extraction, structural PDF validation, raster
// fallback for scan-only PDFs and capture diagnostics for images.
package preprocessors

import "errors"

// Sentinel error kinds, distinguishable with errors.Is so the request
// layer can map each to its own failure mode.
var (
	// ErrPDFConversion marks a failure to validate or rasterize a PDF.
	ErrPDFConversion = errors.New("pdf conversion failed")

	// ErrOCRFailure marks a recognition failure on the rendered image.
	ErrOCRFailure = errors.New("ocr failed")

	// ErrUnsupportedInput marks bytes that are neither a PDF nor a
	// supported image format.
	ErrUnsupportedInput = errors.New("unsupported input format")
)
