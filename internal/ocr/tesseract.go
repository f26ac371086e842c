// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"veridoc/internal/preprocessors"
	"veridoc/internal/resilience"
)

// MinUsableTextLen is the recognized-text length below which the
// ladder tries the next language. Compliance certificates carry at
// least a few hundred characters; anything shorter means tesseract
// mostly failed on this image.
const MinUsableTextLen = 120

// languageLadder is the order of language hints tried when the caller
// gives none. Documents are Spanish, but scans with heavy English
// boilerplate (license certificates) sometimes read better with the
// combined model.
var languageLadder = []string{"spa", "eng", "spa+eng"}

// TesseractEngine shells out to the tesseract CLI.
type TesseractEngine struct {
	binary string
	retry  resilience.RetryConfig

	// pass runs a single-language recognition. Overridable in tests.
	pass func(ctx context.Context, image []byte, lang string) (Result, error)
}

// NewTesseractEngine creates an engine using tesseract on PATH.
func NewTesseractEngine() *TesseractEngine {
	e := &TesseractEngine{
		binary: "tesseract",
		retry:  resilience.OCRRetryConfig(),
	}
	e.pass = e.recognizeOnce
	return e
}

// Probe verifies the tesseract binary is installed and runnable.
func (e *TesseractEngine) Probe() error {
	path, err := exec.LookPath(e.binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found on PATH (install tesseract-ocr)", preprocessors.ErrOCRFailure, e.binary)
	}
	if err := exec.Command(path, "--version").Run(); err != nil {
		return fmt.Errorf("%w: %s is not runnable: %v", preprocessors.ErrOCRFailure, e.binary, err)
	}
	return nil
}

// Recognize runs tesseract over the image. With an explicit langHint a
// single pass is made; with an empty hint the language ladder is
// walked until a pass yields usable text, keeping the longest output
// across attempts.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte, langHint string) (Result, error) {
	if langHint != "" {
		return e.pass(ctx, image, langHint)
	}

	var best Result
	var lastErr error
	for _, lang := range languageLadder {
		res, err := e.pass(ctx, image, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if len(res.Text) > len(best.Text) {
			best = res
		}
		if len(best.Text) >= MinUsableTextLen {
			return best, nil
		}
	}

	if best.Text != "" {
		return best, nil
	}
	if lastErr != nil {
		return Result{}, lastErr
	}
	return Result{}, fmt.Errorf("%w: no text recognized", preprocessors.ErrOCRFailure)
}

func (e *TesseractEngine) recognizeOnce(ctx context.Context, image []byte, lang string) (Result, error) {
	return resilience.RetryWithResult(ctx, e.retry, func(ctx context.Context) (Result, error) {
		text, err := e.runTesseract(ctx, image, lang)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text, Confidence: -1, Language: lang}, nil
	})
}

// runTesseract writes the image to a temp file and invokes the CLI
// with stdout output. PSM 3 (full automatic page segmentation) handles
// both free-text certificates and tabular license extracts.
func (e *TesseractEngine) runTesseract(ctx context.Context, image []byte, lang string) (string, error) {
	dir, err := os.MkdirTemp("", "veridoc-ocr-*")
	if err != nil {
		return "", fmt.Errorf("%w: temp dir: %v", preprocessors.ErrOCRFailure, err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "page.png")
	if err := os.WriteFile(src, image, 0o600); err != nil {
		return "", fmt.Errorf("%w: writing image: %v", preprocessors.ErrOCRFailure, err)
	}

	cmd := exec.CommandContext(ctx, e.binary, src, "stdout", "-l", lang, "--psm", "3")
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: tesseract (-l %s): %v: %s",
			preprocessors.ErrOCRFailure, lang, err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
