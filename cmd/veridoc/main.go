// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"veridoc/internal/config"
	"veridoc/internal/core"
	"veridoc/internal/detector"
	"veridoc/internal/formatters"
	"veridoc/internal/observability"
	"veridoc/internal/ocr"
	"veridoc/internal/preprocessors"
	"veridoc/internal/version"
	"veridoc/internal/web"

	_ "veridoc/internal/formatters/json"
	_ "veridoc/internal/formatters/text"
	_ "veridoc/internal/formatters/yaml"
)

// documentFlags maps CLI flags to document kinds, identity first.
var documentFlags = []struct {
	Flag  string
	Kind  string
	Usage string
}{
	{"documento", detector.KindIdentity, "Path to the identity card scan (required)"},
	{"eps", detector.KindAffiliation, "Path to the EPS affiliation certificate"},
	{"arl", detector.KindRisk, "Path to the ARL risk certificate"},
	{"pension", detector.KindPension, "Path to the pension fund certificate"},
	{"licencia", detector.KindLicense, "Path to the driving license certificate"},
	{"poder", detector.KindAttorney, "Path to the power of attorney"},
	{"formato", detector.KindTransportForm, "Path to the transporter creation form"},
}

func main() {
	var (
		name            = flag.String("nombre", "", "Expected driver name (required)")
		identifier      = flag.String("cedula", "", "Expected identification number (required)")
		transporterName = flag.String("transportador", "", "Expected transporter company name")
		transporterCode = flag.String("codigo", "", "Expected transporter code")

		outputFormat = flag.String("format", "", "Output format: json, text or yaml")
		verbose      = flag.Bool("verbose", false, "Show detailed per-field results")
		showEvidence = flag.Bool("show-evidence", false, "Include matched text fragments in output")
		noColor      = flag.Bool("no-color", false, "Disable colored output")
		debug        = flag.Bool("debug", false, "Emit timing JSON to stderr")

		configFile = flag.String("config", "", "Path to configuration file")
		profile    = flag.String("profile", "", "Named configuration profile to apply")
		language   = flag.String("lang", "", "OCR language hint (default: walk spa/eng ladder)")
		dpi        = flag.Int("dpi", 0, "PDF render resolution for OCR")

		webMode     = flag.Bool("web", false, "Start the web server instead of validating files")
		addr        = flag.String("addr", "", "Web server listen address")
		showVersion = flag.Bool("version", false, "Show version information")
		listFormats = flag.Bool("list-formats", false, "List available output formats")
	)

	paths := make(map[string]*string, len(documentFlags))
	for _, df := range documentFlags {
		paths[df.Kind] = flag.String(df.Flag, "", df.Usage)
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}
	if *listFormats {
		for _, info := range formatters.GetSupportedFormats() {
			fmt.Printf("%-8s %s\n", info.Name, info.Description)
		}
		return
	}

	cfg := config.LoadConfigOrDefault(*configFile)
	if *profile != "" {
		if err := cfg.ApplyProfile(*profile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags win over config file values
	if *outputFormat == "" {
		*outputFormat = cfg.Defaults.Format
	}
	if *language == "" {
		*language = cfg.Defaults.Language
	}
	if *dpi == 0 {
		*dpi = cfg.Defaults.RasterDPI
	}
	if cfg.Defaults.Debug {
		*debug = true
	}
	if cfg.Defaults.NoColor {
		*noColor = true
	}
	if *addr == "" {
		*addr = cfg.Web.Addr
	}

	observer := observability.NewStandardObserver(observability.ObservabilityMetrics, os.Stderr)
	if *debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		observer = debugObs.StandardObserver
		observer.DebugObserver = debugObs
	}

	service, err := buildService(observer, cfg, *dpi, *language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *webMode {
		server := web.NewWebServer(*addr, cfg.Web.MaxUploadBytes, service)
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *name == "" || *identifier == "" {
		fmt.Fprintln(os.Stderr, "Error: -nombre and -cedula are required")
		flag.Usage()
		os.Exit(1)
	}

	inputs, err := loadInputs(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least the -documento file is required")
		os.Exit(1)
	}

	ref := detector.ReferenceProfile{
		Name:            strings.TrimSpace(*name),
		Identifier:      strings.TrimSpace(*identifier),
		TransporterName: strings.TrimSpace(*transporterName),
		TransporterCode: strings.TrimSpace(*transporterCode),
	}

	records, reqErr := service.ValidateRequest(context.Background(), inputs, ref)

	output, err := formatters.Export(*outputFormat, records, formatters.FormatterOptions{
		Verbose:      *verbose,
		NoColor:      *noColor,
		ShowEvidence: *showEvidence,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if reqErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", reqErr)
		os.Exit(2)
	}
	for _, rec := range records {
		if !rec.Valid {
			os.Exit(1)
		}
	}
}

// buildService probes the external binaries and wires the intake
// pipeline to the validation service.
func buildService(observer *observability.StandardObserver, cfg *config.Config, dpi int, language string) (*core.Service, error) {
	rasterizer := preprocessors.NewPopplerRasterizer()
	if err := rasterizer.Probe(); err != nil {
		return nil, err
	}

	engine := ocr.NewTesseractEngine()
	if err := engine.Probe(); err != nil {
		return nil, err
	}

	pipeline := core.NewPipeline(rasterizer, engine, dpi, language)
	return core.NewService(pipeline, observer, core.TuningFromConfig(cfg), nil), nil
}

// loadInputs reads the document files named on the command line.
func loadInputs(paths map[string]*string) ([]core.DocumentInput, error) {
	var inputs []core.DocumentInput
	for _, df := range documentFlags {
		path := *paths[df.Kind]
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, core.DocumentInput{
			Kind:     df.Kind,
			Filename: path,
			Data:     data,
		})
	}
	return inputs, nil
}
