// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown   ErrorType = iota
	ErrorTypeTransient           // Resource pressure, flaky subprocess exit
	ErrorTypePermanent           // Missing binary, unusable input
	ErrorTypeTimeout             // Context deadline or subprocess timeout
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError categorizes a subprocess error for retry handling.
// A binary that is not installed will not appear between attempts, so
// exec.ErrNotFound is permanent; a killed or resource-starved process
// may well succeed on the next try.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, exec.ErrNotFound) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypePermanent,
			Message:   fmt.Sprintf("binary not available: %v", err),
			Retryable: false,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTimeout,
			Message:   fmt.Sprintf("operation timed out: %v", err),
			Retryable: false,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Signal-killed subprocesses (OOM, external kill) are worth a
		// retry; a clean non-zero exit on the same input is not.
		if exitErr.ExitCode() == -1 {
			return &ClassifiedError{
				Original:  err,
				Type:      ErrorTypeTransient,
				Message:   fmt.Sprintf("subprocess killed: %v", err),
				Retryable: true,
			}
		}
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypePermanent,
			Message:   fmt.Sprintf("subprocess failed: %v", err),
			Retryable: false,
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "resource temporarily unavailable") ||
		strings.Contains(errStr, "cannot allocate memory") ||
		strings.Contains(errStr, "too many open files") {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("resource pressure: %v", err),
			Retryable: true,
		}
	}

	return &ClassifiedError{
		Original:  err,
		Type:      ErrorTypeUnknown,
		Retryable: false,
	}
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}
