// Package msp writes libraries back out in MSP format.
package msp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/ChrisMcGann/mslib/pkg/core"
	"github.com/ChrisMcGann/mslib/pkg/source"
)

// DefaultPrecision is the number of decimals written for peak values.
const DefaultPrecision = 6

// Options controls writing.
type Options struct {
	// Precision is the number of decimals for peak values. 0 selects
	// DefaultPrecision; a negative value writes the shortest decimal that
	// reads back to the same float64.
	Precision int

	// SkipMissing omits absent fields instead of writing "key: NA". A
	// field whose actual value equals the null marker is still written.
	// Tables without Absent information fall back to comparing values.
	SkipMissing bool

	// NullMarker is used by WriteLibrary to materialize absent fields.
	// Empty selects core.DefaultNullMarker.
	NullMarker string

	// Progress is called every ProgressInterval records and once after the
	// last one. ProgressInterval 0 means core.DefaultProgressInterval,
	// negative disables intermediate reports.
	Progress         core.ProgressFunc
	ProgressInterval int
}

func (o Options) formatPeak(v float64) string {
	prec := o.Precision
	if prec == 0 {
		prec = DefaultPrecision
	}
	if prec < 0 {
		prec = -1
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Write renders one MSP block per table row. spectra must hold one entry per
// row, in the same order.
func Write(w io.Writer, t *core.Table, spectra []core.Spectrum, opts Options) error {
	if len(t.Rows) != len(spectra) {
		return fmt.Errorf("table has %d rows but %d spectra were given", len(t.Rows), len(spectra))
	}
	if t.Absent != nil && len(t.Absent) != len(t.Rows) {
		return fmt.Errorf("table has %d rows but %d absence rows", len(t.Rows), len(t.Absent))
	}

	interval := opts.ProgressInterval
	if interval == 0 {
		interval = core.DefaultProgressInterval
	}
	progress := core.Progress{Func: opts.Progress, Interval: interval, Op: core.OpWrote, Format: core.FormatMSP}

	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = core.DenormalizeFieldName(c)
	}

	bw := bufio.NewWriter(w)
	for row, values := range t.Rows {
		if len(values) != len(keys) {
			return fmt.Errorf("row %d has %d values, expected %d", row, len(values), len(keys))
		}
		if t.Absent != nil && len(t.Absent[row]) != len(keys) {
			return fmt.Errorf("row %d has %d absence flags, expected %d", row, len(t.Absent[row]), len(keys))
		}
		for col, v := range values {
			if opts.SkipMissing && t.Missing(row, col) {
				continue
			}
			bw.WriteString(keys[col])
			bw.WriteString(": ")
			bw.WriteString(v)
			bw.WriteByte('\n')
		}

		spec := spectra[row]
		fmt.Fprintf(bw, "%s: %d\n", core.NumPeaksKey, spec.Len())
		for _, p := range spec.Peaks {
			bw.WriteString(opts.formatPeak(p.MZ))
			bw.WriteByte(' ')
			bw.WriteString(opts.formatPeak(p.Intensity))
			bw.WriteByte('\n')
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}

		progress.Step(row + 1)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	progress.Finish(len(t.Rows))
	return nil
}

// WriteLibrary writes every record of lib.
func WriteLibrary(w io.Writer, lib *core.Library, opts Options) error {
	marker := opts.NullMarker
	if marker == "" {
		marker = core.DefaultNullMarker
	}
	return Write(w, lib.Table(marker), lib.Spectra(), opts)
}

// WriteFile writes lib to path, compressing if the suffix asks for it. The
// file is closed on every path out of the function.
func WriteFile(path string, lib *core.Library, opts Options) (err error) {
	out, err := source.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return WriteLibrary(out, lib, opts)
}
