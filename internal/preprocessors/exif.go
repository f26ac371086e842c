// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ImageDiagnostics summarizes capture metadata of an uploaded photo.
// Purely informational: a phone-photographed certificate with a very
// old capture date or a tiny resolution is worth flagging to the
// caller, but never rejected here.
type ImageDiagnostics struct {
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
	CameraMake  string     `json:"camera_make,omitempty"`
	CameraModel string     `json:"camera_model,omitempty"`
	PixelWidth  int        `json:"pixel_width,omitempty"`
	PixelHeight int        `json:"pixel_height,omitempty"`
}

// InspectImage extracts EXIF capture diagnostics from a JPEG/TIFF
// upload. Images without EXIF (screenshots, PNGs) yield an empty
// result and no error.
func InspectImage(data []byte) ImageDiagnostics {
	diag := ImageDiagnostics{}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return diag
	}

	if t, err := x.DateTime(); err == nil {
		diag.CapturedAt = &t
	}
	diag.CameraMake = tagString(x, exif.Make)
	diag.CameraModel = tagString(x, exif.Model)
	diag.PixelWidth = tagInt(x, exif.PixelXDimension)
	diag.PixelHeight = tagInt(x, exif.PixelYDimension)

	return diag
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}

func tagInt(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil || tag.Count == 0 || tag.Format() == tiff.StringVal {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}
