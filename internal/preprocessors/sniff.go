// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import "bytes"

// Input formats recognized by Sniff.
const (
	FormatPDF     = "pdf"
	FormatJPEG    = "jpeg"
	FormatPNG     = "png"
	FormatTIFF    = "tiff"
	FormatUnknown = "unknown"
)

var (
	magicPDF   = []byte("%PDF-")
	magicPNG   = []byte{0x89, 'P', 'N', 'G'}
	magicJPEG  = []byte{0xFF, 0xD8, 0xFF}
	magicTIFFL = []byte{'I', 'I', 0x2A, 0x00}
	magicTIFFB = []byte{'M', 'M', 0x00, 0x2A}
)

// Sniff identifies the document format from its leading bytes.
func Sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return FormatPDF
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPEG
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG
	case bytes.HasPrefix(data, magicTIFFL), bytes.HasPrefix(data, magicTIFFB):
		return FormatTIFF
	}
	return FormatUnknown
}

// IsPDF reports whether the bytes carry the PDF magic header.
func IsPDF(data []byte) bool {
	return Sniff(data) == FormatPDF
}

// IsImage reports whether the bytes are a supported raster image.
func IsImage(data []byte) bool {
	switch Sniff(data) {
	case FormatJPEG, FormatPNG, FormatTIFF:
		return true
	}
	return false
}
