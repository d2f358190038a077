// Package mona reads MassBank of North America (MoNA) JSON exports into a
// core.Library.
//
// The exporter writes one top-level array with a single record object per
// line, so the file is read line by line rather than as one document. Only
// the library identifier and the first compound's InChI and InChIKey are
// kept; MoNA records carry no peak list here, so spectra are always empty.
//
// Lines are passed through jsonc before decoding, so a record line may carry
// comments or trailing commas inside the object and still be accepted. The
// exporter never writes either.
package mona

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/ChrisMcGann/mslib/pkg/core"
	"github.com/ChrisMcGann/mslib/pkg/source"
)

// Options controls parsing.
type Options struct {
	// Strict turns a line that is not valid JSON into a fatal error. By
	// default such lines are skipped and reported as diagnostics.
	Strict bool

	// KeepWithoutCompound accepts records whose compound array is absent
	// or empty, keeping only DB_ID. By default they are skipped with a
	// missing-required-field diagnostic, which drops records that older
	// converters kept; set it to reproduce their output.
	KeepWithoutCompound bool

	// AllowMissingSource makes ParseFile return an empty library instead
	// of an error when the file cannot be opened.
	AllowMissingSource bool

	// Path is used in diagnostics when parsing from a reader.
	Path string

	// Progress is called every ProgressInterval accepted records and once
	// at the end. ProgressInterval 0 means core.DefaultProgressInterval,
	// negative disables intermediate reports.
	Progress         core.ProgressFunc
	ProgressInterval int
}

func (o Options) progress() core.Progress {
	interval := o.ProgressInterval
	if interval == 0 {
		interval = core.DefaultProgressInterval
	}
	return core.Progress{Func: o.Progress, Interval: interval, Op: core.OpRead, Format: core.FormatMoNA}
}

// ParseFile opens path and parses it. The file is closed before returning.
func ParseFile(path string, opts Options) (*core.Library, error) {
	f, err := source.Open(path)
	if err != nil {
		if opts.AllowMissingSource {
			lib := core.NewLibrary(core.FormatMoNA)
			lib.Source.Path = path
			lib.Report(core.Diagnostic{Path: path, Kind: core.KindSourceUnavailable, Reason: err.Error()})
			opts.progress().Finish(0)
			return lib, nil
		}
		return nil, err
	}
	defer f.Close()

	opts.Path = path
	lib, err := Parse(f, opts)
	if err != nil {
		return nil, err
	}
	// Parse stops at the closing "]"; the digest covers the whole file.
	if _, err := io.Copy(io.Discard, f); err != nil {
		return nil, fmt.Errorf("%s: error reading input: %w", path, err)
	}
	lib.Source.Digest = f.Digest()
	return lib, nil
}

// Parse reads a MoNA export from r.
func Parse(r io.Reader, opts Options) (*core.Library, error) {
	lib := core.NewLibrary(core.FormatMoNA)
	lib.Source.Path = opts.Path
	progress := opts.progress()

	br := bufio.NewReaderSize(r, 64*1024)
	for lineNo := 1; ; lineNo++ {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("line %d: error reading input: %w", lineNo, err)
		}
		if raw == "" && err == io.EOF {
			break
		}

		line := strings.TrimSpace(raw)
		switch {
		case line == "" || line[0] == '[':
			continue
		case line[0] == ']':
			progress.Finish(lib.Len())
			return lib, nil
		}
		line = strings.TrimSuffix(line, ",")

		rec, diag := parseLine(line, lib.Schema, opts)
		if diag != nil {
			diag.Path, diag.Line = opts.Path, lineNo
			if opts.Strict && diag.Kind == core.KindMalformedJSON {
				return nil, &core.DiagnosticError{Diagnostic: *diag, Err: core.ErrMalformedJSON}
			}
			lib.Report(*diag)
		} else {
			lib.Append(rec)
			progress.Step(lib.Len())
		}

		if err == io.EOF {
			break
		}
	}

	progress.Finish(lib.Len())
	return lib, nil
}

// parseLine decodes one record line. Field names are registered in schema as
// they are extracted, even if a later field turns out to be missing.
func parseLine(line string, schema *core.Schema, opts Options) (*core.Record, *core.Diagnostic) {
	value, err := decodeValue(line)
	if err != nil {
		d := &core.Diagnostic{Kind: core.KindMalformedJSON, Reason: err.Error()}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			d.Offset = int(se.Offset)
		}
		return nil, d
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, missing("record is not a JSON object")
	}

	rec := core.NewRecord()
	if !extractString(obj, "id", core.FieldDBID, rec, schema) {
		return nil, missing(`no string field "id"`)
	}

	compounds, _ := obj["compound"].([]any)
	if len(compounds) == 0 {
		if opts.KeepWithoutCompound {
			return rec, nil
		}
		return nil, missing(`no "compound" entries`)
	}

	first, _ := compounds[0].(map[string]any)
	if !extractString(first, "inchi", core.FieldInChI, rec, schema) {
		return nil, missing(`first compound has no string field "inchi"`)
	}
	if !extractString(first, "inchiKey", core.FieldInChIKey, rec, schema) {
		return nil, missing(`first compound has no string field "inchiKey"`)
	}
	return rec, nil
}

func missing(reason string) *core.Diagnostic {
	return &core.Diagnostic{Kind: core.KindMissingRequiredField, Reason: reason}
}

// extractString copies obj[key] into rec under name. Numbers count as
// strings and keep their literal spelling.
func extractString(obj map[string]any, key, name string, rec *core.Record, schema *core.Schema) bool {
	var s string
	switch v := obj[key].(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		return false
	}
	rec.Set(name, s)
	schema.Add(name)
	return true
}

// decodeValue parses exactly one JSON value. Comments and trailing commas
// inside the value are tolerated.
func decodeValue(line string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON([]byte(line))))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty JSON value")
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return v, nil
}
