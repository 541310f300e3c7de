// Package errors provides the unified error type and factory functions for the
// precinct analytics engine.  Every layer (domain, application, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information so that HTTP responses, CLI output and logs stay consistent.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// maxSamples caps the number of sample identifiers attached to a not-found error.
const maxSamples = 5

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and the factory).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError, the canonical engine error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout the engine.
// It supports errors.Is / errors.As / errors.Unwrap through Unwrap.
//
// Usage:
//
//	return errors.New(errors.CodeInvalidParam, "days must be positive")
//	return errors.PrecinctNotFound("Lansing 9", samples)
//	return errors.Wrap(err, errors.CodeDataSourceUnavailable, "failed to load precincts")
type AppError struct {
	// Code is the typed error code that identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (identifiers, parameters).
	Detail string

	// Samples lists a few valid identifiers the caller could have used.  It is
	// populated by the not-found factories and kept as data so callers can
	// render or assert on it without parsing Message.
	Samples []string

	// Cause is the underlying error, if any.
	Cause error

	// Stack contains the call-stack captured at creation.  It is never part
	// of Error() output.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// WithSamples returns a shallow copy of the receiver carrying at most five
// sample identifiers.
func (e *AppError) WithSamples(samples []string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Samples = truncateSamples(samples)
	return &clone
}

func truncateSamples(samples []string) []string {
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	out := make([]string, len(samples))
	copy(out, samples)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with fmt-style formatting of the message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil.  When err is already an *AppError and code is CodeUnknown
// the original code is preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain is one of the
// not-found codes.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case CodeNotFound, CodePrecinctNotFound, CodeJurisdictionNotFound,
				CodeUniverseNotFound, CodeSegmentNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsEmptyInput reports whether err signals a structurally valid but empty
// input set (empty jurisdiction, empty segment, no matching precincts).
func IsEmptyInput(err error) bool {
	return IsCode(err, CodeEmptyJurisdiction) ||
		IsCode(err, CodeEmptySegment) ||
		IsCode(err, CodeNoMatchingPrecincts)
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// SamplesOf returns the sample identifiers attached to the first *AppError in
// err's chain, or nil.
func SamplesOf(err error) []string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Samples
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factories
// ─────────────────────────────────────────────────────────────────────────────

// NotFound constructs a generic CodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: CodeInvalidParam, Message: message, Stack: captureStack(1)}
}

// Internal constructs a CodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Stack: captureStack(1)}
}

// PrecinctNotFound reports an unknown precinct identifier.  Up to five sample
// precinct names are embedded both in Samples and in the message.
func PrecinctNotFound(identifier string, samples []string) *AppError {
	s := truncateSamples(samples)
	return &AppError{
		Code:    CodePrecinctNotFound,
		Message: fmt.Sprintf("Precinct %q not found. Available precincts include: %s", identifier, strings.Join(s, ", ")),
		Samples: s,
		Stack:   captureStack(1),
	}
}

// JurisdictionNotFound reports an unknown jurisdiction identifier.
func JurisdictionNotFound(identifier string, samples []string) *AppError {
	s := truncateSamples(samples)
	return &AppError{
		Code:    CodeJurisdictionNotFound,
		Message: fmt.Sprintf("Jurisdiction %q not found. Available jurisdictions include: %s", identifier, strings.Join(s, ", ")),
		Samples: s,
		Stack:   captureStack(1),
	}
}

// EmptyJurisdiction reports a jurisdiction with zero member precincts.
func EmptyJurisdiction(identifier string) *AppError {
	return &AppError{
		Code:    CodeEmptyJurisdiction,
		Message: "No precincts found for jurisdiction",
		Detail:  identifier,
		Stack:   captureStack(1),
	}
}

// EmptySegment reports a segment result set with no precincts.
func EmptySegment() *AppError {
	return &AppError{Code: CodeEmptySegment, Message: "No precincts in segment results", Stack: captureStack(1)}
}

// NoMatchingPrecincts reports that none of the requested ids resolved.
func NoMatchingPrecincts() *AppError {
	return &AppError{Code: CodeNoMatchingPrecincts, Message: "No matching precincts found", Stack: captureStack(1)}
}

// UnsupportedBoundaryType reports an unrecognised boundary-type tag.
func UnsupportedBoundaryType(tag string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedBoundaryType,
		Message: fmt.Sprintf("Unsupported boundary type %q; expected precincts or jurisdictions", tag),
		Stack:   captureStack(1),
	}
}

//Personal.AI order the ending
