// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ocr defines the text-recognition boundary. The engine is an
// external collaborator: validators consume whatever text it yields
// and never depend on how it was produced.
package ocr

import "context"

// Result holds the recognized text of one image.
type Result struct {
	Text       string  // Raw recognized text, line structure preserved
	Confidence float64 // Mean word confidence in [0,1], -1 when unknown
	Language   string  // Language hint that produced this text
}

// Engine recognizes text in a rendered document image.
type Engine interface {
	Recognize(ctx context.Context, image []byte, langHint string) (Result, error)
}
