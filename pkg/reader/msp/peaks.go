package msp

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

// tokenSource yields whitespace-delimited tokens together with their line.
type tokenSource interface {
	Token() (string, int, error)
}

// parsePeakCount parses the value of a "Num Peaks" line.
func parsePeakCount(path string, line int, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &core.PeakError{Path: path, Line: line, Token: value, Reason: "invalid peak count", Err: err}
	}
	if n < 0 {
		return 0, &core.PeakError{Path: path, Line: line, Token: value, Reason: "negative peak count"}
	}
	return n, nil
}

// maxPeakPrealloc bounds the capacity reserved from a declared peak count,
// which comes from the input and may be arbitrarily large.
const maxPeakPrealloc = 4096

// readPeaks appends exactly n (m/z, intensity) pairs from src to spec. Pairs
// may be spread over any number of lines.
func readPeaks(src tokenSource, path string, n int, spec *core.Spectrum) error {
	if n > 0 && spec.Peaks == nil {
		spec.Peaks = make([]core.Peak, 0, min(n, maxPeakPrealloc))
	}
	for i := 0; i < n; i++ {
		mz, err := readNumber(src, path, "m/z", i, n)
		if err != nil {
			return err
		}
		intensity, err := readNumber(src, path, "intensity", i, n)
		if err != nil {
			return err
		}
		spec.Add(mz, intensity)
	}
	return nil
}

func readNumber(src tokenSource, path, what string, i, n int) (float64, error) {
	tok, line, err := src.Token()
	if err == io.EOF {
		return 0, &core.PeakError{
			Path:   path,
			Line:   line,
			Reason: fmt.Sprintf("unexpected end of input reading %s of peak %d of %d", what, i+1, n),
			Err:    io.ErrUnexpectedEOF,
		}
	}
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", line, err)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &core.PeakError{Path: path, Line: line, Token: tok, Reason: "invalid " + what + " value", Err: err}
	}
	return v, nil
}
