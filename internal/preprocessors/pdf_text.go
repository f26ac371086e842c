// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxTextPages caps embedded-text extraction on pathological PDFs.
const maxTextPages = 20

// MinEmbeddedTextLen is the threshold below which embedded text is
// considered a scan artifact and the caller should fall back to
// rasterize-and-OCR.
const MinEmbeddedTextLen = 50

// ExtractEmbeddedText pulls the text layer out of a digital PDF.
// Scan-only PDFs typically yield nothing here; callers check the
// result against MinEmbeddedTextLen before trusting it.
func ExtractEmbeddedText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPDFConversion, err)
	}

	pages := r.NumPage()
	if pages > maxTextPages {
		pages = maxTextPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text := pageText(p)
		if strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(text)
	}

	return tidyLines(buf.String()), nil
}

// pageText reconstructs one page in reading order. Row-based
// extraction keeps the line structure the validators rely on (license
// category tables are line oriented); plain text is the fallback.
func pageText(p pdf.Page) string {
	rows, err := p.GetTextByRow()
	if err != nil {
		plain, err := p.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return plain
	}

	var kept []*pdf.Row
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			kept = append(kept, row)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		return rowY(kept[i]) < rowY(kept[j])
	})

	var buf strings.Builder
	for _, row := range kept {
		line := rowText(row)
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

func rowY(row *pdf.Row) float64 {
	if len(row.Content) == 0 {
		return 0
	}
	var total float64
	for _, t := range row.Content {
		total += t.Y
	}
	return total / float64(len(row.Content))
}

// rowText joins a row's text elements left to right, inserting a space
// wherever the horizontal gap exceeds a fifth of the font size.
func rowText(row *pdf.Row) string {
	elems := make([]pdf.Text, len(row.Content))
	copy(elems, row.Content)
	sort.Slice(elems, func(i, j int) bool { return elems[i].X < elems[j].X })

	var buf strings.Builder
	for i, el := range elems {
		buf.WriteString(el.S)
		if i == len(elems)-1 {
			continue
		}
		gap := elems[i+1].X - (el.X + el.W)
		fontSize := el.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if gap > fontSize*0.2 {
			buf.WriteByte(' ')
		}
	}
	return buf.String()
}

// tidyLines trims each line, drops empties and collapses interior
// whitespace without losing the line structure.
func tidyLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
