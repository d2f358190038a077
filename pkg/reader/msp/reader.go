// Package msp reads MSP format spectral libraries into a core.Library.
//
// An MSP file is a sequence of blocks of "Key: value" lines. A "Num Peaks: N"
// line terminates the block's metadata and is followed by N whitespace
// separated (m/z, intensity) pairs. Keys are not fixed; every distinct key
// becomes a schema column.
package msp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/mslib/pkg/core"
	"github.com/ChrisMcGann/mslib/pkg/source"
)

// Options controls parsing.
type Options struct {
	// ParseComments copies SMILES, InChI and SPLASH values embedded in the
	// Comments field into regular fields.
	ParseComments bool

	// RecoverPeaks drops a record with a malformed peak list and carries
	// on. By default a malformed peak list aborts the parse.
	RecoverPeaks bool

	// AllowMissingSource makes ParseFile return an empty library instead
	// of an error when the file cannot be opened.
	AllowMissingSource bool

	// Path is used in diagnostics when parsing from a reader.
	Path string

	// Progress is called every ProgressInterval records and once at the
	// end. ProgressInterval 0 means core.DefaultProgressInterval, negative
	// disables intermediate reports.
	Progress         core.ProgressFunc
	ProgressInterval int
}

func (o Options) progress() core.Progress {
	interval := o.ProgressInterval
	if interval == 0 {
		interval = core.DefaultProgressInterval
	}
	return core.Progress{Func: o.Progress, Interval: interval, Op: core.OpRead, Format: core.FormatMSP}
}

// ParseFile opens path and parses it. The file is closed before returning.
func ParseFile(path string, opts Options) (*core.Library, error) {
	f, err := source.Open(path)
	if err != nil {
		if opts.AllowMissingSource {
			lib := core.NewLibrary(core.FormatMSP)
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
	lib.Source.Digest = f.Digest()
	return lib, nil
}

// Parse reads an MSP library from r.
func Parse(r io.Reader, opts Options) (*core.Library, error) {
	p := &parser{
		opts:     opts,
		lr:       newLineReader(r),
		lib:      core.NewLibrary(core.FormatMSP),
		progress: opts.progress(),
	}
	p.lib.Source.Path = opts.Path

	if err := p.run(); err != nil {
		return nil, err
	}
	p.progress.Finish(p.lib.Len())
	return p.lib, nil
}

type parser struct {
	opts     Options
	lr       *lineReader
	lib      *core.Library
	progress core.Progress
}

func (p *parser) run() error {
	rec := core.NewRecord()
	recStart := 0

	for {
		line, lineNo, err := p.lr.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: error reading input: %w", lineNo, err)
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key != core.NumPeaksKey {
			key = core.NormalizeFieldName(key)
			p.lib.Schema.Add(key)
			rec.Merge(key, value)
			if recStart == 0 {
				recStart = lineNo
			}
			continue
		}

		if err := p.readSpectrum(rec, lineNo, value); err != nil {
			var pe *core.PeakError
			if p.opts.RecoverPeaks && errors.As(err, &pe) {
				p.lib.Report(pe.Diagnostic())
				rec, recStart = core.NewRecord(), 0
				continue
			}
			return err
		}

		p.finish(rec)
		rec, recStart = core.NewRecord(), 0
	}

	if rec.Len() > 0 {
		p.lib.Report(core.Diagnostic{
			Path:   p.opts.Path,
			Line:   recStart,
			Kind:   core.KindIncompleteRecord,
			Reason: "record has no " + core.NumPeaksKey + " line, discarded",
		})
	}
	return nil
}

func (p *parser) readSpectrum(rec *core.Record, lineNo int, value string) error {
	n, err := parsePeakCount(p.opts.Path, lineNo, value)
	if err != nil {
		return err
	}
	return readPeaks(p.lr, p.opts.Path, n, &rec.Spectrum)
}

func (p *parser) finish(rec *core.Record) {
	if p.opts.ParseComments {
		core.MineComments(rec, p.lib.Schema)
	}
	p.lib.Append(rec)
	p.progress.Step(p.lib.Len())
}
