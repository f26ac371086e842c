// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo is the structural summary produced before rasterizing.
type PDFInfo struct {
	PageCount int
}

// InspectPDF validates PDF structure and reports the page count.
// Corrupt or unreadable files surface as ErrPDFConversion so the
// request layer can reject them before spending OCR time.
func InspectPDF(data []byte) (PDFInfo, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return PDFInfo{}, fmt.Errorf("%w: invalid pdf structure: %v", ErrPDFConversion, err)
	}
	count, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("%w: counting pages: %v", ErrPDFConversion, err)
	}

	return PDFInfo{PageCount: count}, nil
}
