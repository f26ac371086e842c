// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"os"
	"strings"

	"veridoc/internal/detector"
	"veridoc/internal/formatters"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colored verdicts"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(records []detector.ValidationRecord, options formatters.FormatterOptions) (string, error) {
	// Disable colors when requested or when stdout is not a terminal
	if options.NoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	if len(records) == 0 {
		return "No documents validated.", nil
	}

	var builder strings.Builder

	if !options.Verbose {
		f.appendHeaders(&builder, options)
	}

	for _, rec := range records {
		if options.Verbose {
			f.appendDetailedRecord(&builder, rec, options)
			continue
		}
		f.appendSummaryLine(&builder, rec, options)
	}

	return builder.String(), nil
}

// appendHeaders adds column headers to the string builder
func (f *Formatter) appendHeaders(builder *strings.Builder, options formatters.FormatterOptions) {
	headerStr := fmt.Sprintf("%-10s %-15s %-8s %-8s %-22s %s\n",
		"VERDICT", "DOCUMENT", "NAME", "ID", "ISSUED", "NOTES")
	if !options.NoColor {
		headerStr = f.colors["white"].Sprintf("%-10s %-15s %-8s %-8s %-22s %s\n",
			"VERDICT", "DOCUMENT", "NAME", "ID", "ISSUED", "NOTES")
	}
	builder.WriteString(headerStr)
	builder.WriteString(strings.Repeat("-", 78) + "\n")
}

// appendSummaryLine adds a single line summary to the string builder
func (f *Formatter) appendSummaryLine(builder *strings.Builder, rec detector.ValidationRecord, options formatters.FormatterOptions) {
	verdict, verdictColor := f.verdict(rec)
	verdictStr := fmt.Sprintf("[%-8s]", verdict)
	if !options.NoColor {
		verdictStr = verdictColor.Sprintf("[%-8s]", verdict)
	}

	kindStr := fmt.Sprintf("%-15s", rec.Kind)
	if !options.NoColor {
		kindStr = f.colors["cyan"].Sprintf("%-15s", rec.Kind)
	}

	fmt.Fprintf(builder, "%s %s %-8s %-8s %-22s %s\n",
		verdictStr,
		kindStr,
		f.fieldMark(rec.Name),
		f.fieldMark(rec.Identifier),
		f.issuedSummary(rec.IssuedOn),
		f.notes(rec))
}

// appendDetailedRecord adds detailed record information to the string builder
func (f *Formatter) appendDetailedRecord(builder *strings.Builder, rec detector.ValidationRecord, options formatters.FormatterOptions) {
	verdict, verdictColor := f.verdict(rec)

	if !options.NoColor {
		f.colors["white"].Fprintf(builder, "=== %s ===\n", rec.Kind)
		f.colors["cyan"].Fprintf(builder, "Verdict: ")
		verdictColor.Fprintf(builder, "%s\n", verdict)
	} else {
		fmt.Fprintf(builder, "=== %s ===\n", rec.Kind)
		fmt.Fprintf(builder, "Verdict: %s\n", verdict)
	}

	if rec.Status == detector.StatusError {
		fmt.Fprintf(builder, "Error: %s\n\n", rec.Error)
		return
	}

	f.appendFieldDetail(builder, "Name", rec.Name, options)
	f.appendFieldDetail(builder, "Identifier", rec.Identifier, options)

	if rec.IssuedOn != nil {
		if rec.IssuedOn.Found {
			freshness := "stale"
			if rec.IssuedOn.IsFresh {
				freshness = "fresh"
			}
			fmt.Fprintf(builder, "Issued: %s (%d days ago, %s)\n",
				rec.IssuedOn.Date.Format("2006-01-02"), rec.IssuedOn.AgeInDays, freshness)
		} else {
			fmt.Fprintf(builder, "Issued: not found\n")
		}
	}

	if len(rec.Keywords) > 0 {
		fmt.Fprintf(builder, "Keywords: %s\n", strings.Join(rec.Keywords, ", "))
	}
	if rec.DocStatus != "" {
		fmt.Fprintf(builder, "Document status: %s\n", rec.DocStatus)
	}

	if rec.RiskClass != nil && rec.RiskClass.Found {
		fmt.Fprintf(builder, "Risk class: %d (strategy %s, meets threshold: %v)\n",
			rec.RiskClass.RiskClass, rec.RiskClass.Strategy, rec.RiskClass.MeetsThreshold)
	}

	if lic := rec.License; lic != nil {
		fmt.Fprintf(builder, "License category: %s (active: %v, seniority %.1f years, %d days to expiry)\n",
			lic.Category, lic.Active, lic.SeniorityYears, lic.DaysToExpiry)
	}

	if att := rec.Attorney; att != nil {
		fmt.Fprintf(builder, "Power of attorney: transporter %v, proxy holder %v, forms clause %v\n",
			att.TransporterFound, att.ProxyHolderFound, att.FormsClause)
	}

	if options.ShowEvidence && len(rec.Diagnostics) > 0 {
		fmt.Fprintf(builder, "Diagnostics:\n")
		for _, d := range rec.Diagnostics {
			fmt.Fprintf(builder, "- %s\n", d)
		}
	}

	fmt.Fprintln(builder)
}

// appendFieldDetail renders one field match with its cascade strategy
func (f *Formatter) appendFieldDetail(builder *strings.Builder, label string, match *detector.FieldMatch, options formatters.FormatterOptions) {
	if match == nil {
		return
	}
	if !match.Found {
		fmt.Fprintf(builder, "%s: not found\n", label)
		return
	}
	fmt.Fprintf(builder, "%s: found (%.2f via %s)", label, match.Confidence, match.Strategy)
	if options.ShowEvidence && match.Evidence != "" {
		fmt.Fprintf(builder, " %q", match.Evidence)
	}
	fmt.Fprintln(builder)
}

// verdict maps a record to its display verdict and color
func (f *Formatter) verdict(rec detector.ValidationRecord) (string, *color.Color) {
	switch {
	case rec.Status == detector.StatusError:
		return "ERROR", f.colors["magenta"]
	case rec.Valid:
		return "VALID", f.colors["green"]
	default:
		return "INVALID", f.colors["red"]
	}
}

// fieldMark renders a compact found/not-found cell
func (f *Formatter) fieldMark(match *detector.FieldMatch) string {
	if match == nil {
		return "-"
	}
	if match.Found {
		return fmt.Sprintf("%.2f", match.Confidence)
	}
	return "no"
}

// issuedSummary renders the issuance date cell
func (f *Formatter) issuedSummary(date *detector.DateResult) string {
	if date == nil {
		return "-"
	}
	if !date.Found {
		return "not found"
	}
	freshness := "stale"
	if date.IsFresh {
		freshness = "fresh"
	}
	return fmt.Sprintf("%s (%s)", date.Date.Format("2006-01-02"), freshness)
}

// notes renders kind-specific extras for the summary line
func (f *Formatter) notes(rec detector.ValidationRecord) string {
	if rec.Status == detector.StatusError {
		return rec.Error
	}

	var parts []string
	if rec.DocStatus != "" {
		parts = append(parts, rec.DocStatus)
	}
	if rec.RiskClass != nil && rec.RiskClass.Found {
		parts = append(parts, fmt.Sprintf("riesgo %d", rec.RiskClass.RiskClass))
	}
	if rec.License != nil && rec.License.Category != "" {
		parts = append(parts, fmt.Sprintf("categoria %s", strings.ToUpper(rec.License.Category)))
	}
	if rec.Attorney != nil && rec.Attorney.Complete {
		parts = append(parts, "poder completo")
	}
	return strings.Join(parts, ", ")
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
