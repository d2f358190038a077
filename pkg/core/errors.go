package core

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is wrapped by every failure to open an input.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedPeak marks a peak list that does not match its declared
	// count.
	ErrMalformedPeak = errors.New("malformed peak list")

	// ErrMalformedJSON marks a MoNA line that is not a JSON value.
	ErrMalformedJSON = errors.New("malformed JSON line")
)

// DiagnosticKind classifies skipped or rejected input.
type DiagnosticKind int

const (
	KindSourceUnavailable DiagnosticKind = iota + 1
	KindMalformedPeak
	KindMalformedJSON
	KindMissingRequiredField
	KindIncompleteRecord
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindSourceUnavailable:
		return "source-unavailable"
	case KindMalformedPeak:
		return "malformed-peak"
	case KindMalformedJSON:
		return "malformed-json"
	case KindMissingRequiredField:
		return "missing-required-field"
	case KindIncompleteRecord:
		return "incomplete-record"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Skips reports whether a diagnostic of this kind dropped a record.
func (k DiagnosticKind) Skips() bool {
	switch k {
	case KindMalformedPeak, KindMalformedJSON, KindMissingRequiredField, KindIncompleteRecord:
		return true
	}
	return false
}

// Diagnostic describes one piece of input that did not become a record.
type Diagnostic struct {
	Path   string
	Line   int // 1-based; 0 if not tied to a line
	Offset int // byte offset inside the line for JSON errors, else 0
	Kind   DiagnosticKind
	Reason string
}

func (d Diagnostic) String() string {
	loc := d.Path
	if loc == "" {
		loc = "<input>"
	}
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line)
	}
	if d.Kind == KindMalformedJSON && d.Offset > 0 {
		loc = fmt.Sprintf("%s (offset %d)", loc, d.Offset)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Kind, d.Reason)
}

// PeakError reports a peak list that could not be read.
type PeakError struct {
	Path   string
	Line   int
	Token  string
	Reason string
	Err    error
}

func (e *PeakError) Error() string {
	path := e.Path
	if path == "" {
		path = "<input>"
	}
	if e.Token != "" {
		return fmt.Sprintf("%s:%d: %s %q", path, e.Line, e.Reason, e.Token)
	}
	return fmt.Sprintf("%s:%d: %s", path, e.Line, e.Reason)
}

func (e *PeakError) Unwrap() error { return e.Err }

func (e *PeakError) Is(target error) bool { return target == ErrMalformedPeak }

// Diagnostic converts the error into a diagnostic entry.
func (e *PeakError) Diagnostic() Diagnostic {
	reason := e.Reason
	if e.Token != "" {
		reason = fmt.Sprintf("%s %q", e.Reason, e.Token)
	}
	return Diagnostic{Path: e.Path, Line: e.Line, Kind: KindMalformedPeak, Reason: reason}
}

// DiagnosticError promotes a diagnostic to a fatal error in strict mode.
type DiagnosticError struct {
	Diagnostic Diagnostic
	Err        error
}

func (e *DiagnosticError) Error() string { return e.Diagnostic.String() }

func (e *DiagnosticError) Unwrap() error { return e.Err }
