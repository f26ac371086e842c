// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matchers

import (
	"regexp"
	"strings"

	"veridoc/internal/textnorm"
)

// FindKeywords returns, in configuration order, the domain keywords
// present in the text. Matching runs over flat-normalized text so
// accents and punctuation never hide a keyword.
func FindKeywords(text string, keywords []string) []string {
	flat := textnorm.Flat(text)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(flat, textnorm.Flat(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

var reAffiliationStatus = regexp.MustCompile(`estado de la afiliacion[: ]+([a-z]+)`)

// AffiliationStatus extracts the literal status word from an
// "estado de la afiliacion: X" phrase, or "" when absent.
func AffiliationStatus(text string) string {
	m := reAffiliationStatus.FindStringSubmatch(textnorm.Plain(text))
	if m == nil {
		return ""
	}
	return m[1]
}
