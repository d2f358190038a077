// Package core provides the in-memory library model shared by the MSP and
// MoNA readers and the writers: records, the discovered field schema and
// per-record spectra.
package core

import (
	"fmt"
	"math"
	"strings"
)

// Peak represents a single m/z, intensity pair.
type Peak struct {
	MZ        float64
	Intensity float64
}

// Spectrum is the ordered list of peaks belonging to one record. Peaks keep
// the order in which they were read; nothing in this package sorts them.
type Spectrum struct {
	Peaks []Peak
}

// Len returns the number of peaks.
func (s *Spectrum) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Peaks)
}

// Add appends a peak.
func (s *Spectrum) Add(mz, intensity float64) {
	s.Peaks = append(s.Peaks, Peak{MZ: mz, Intensity: intensity})
}

// MZs returns the m/z column.
func (s *Spectrum) MZs() []float64 {
	out := make([]float64, len(s.Peaks))
	for i, p := range s.Peaks {
		out[i] = p.MZ
	}
	return out
}

// Intensities returns the intensity column.
func (s *Spectrum) Intensities() []float64 {
	out := make([]float64, len(s.Peaks))
	for i, p := range s.Peaks {
		out[i] = p.Intensity
	}
	return out
}

// ValidationError represents an error found during spectrum validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that every peak holds finite numbers. Sign and ordering
// are not checked: libraries are translated as-is.
func (s *Spectrum) Validate() error {
	var errs []string

	for i, peak := range s.Peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid m/z", i))
		}
		if math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Spectrum",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// MZRange returns the smallest and largest m/z in the spectrum. ok is false
// for an empty spectrum.
func (s *Spectrum) MZRange() (lo, hi float64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	lo, hi = s.Peaks[0].MZ, s.Peaks[0].MZ
	for _, p := range s.Peaks[1:] {
		lo = math.Min(lo, p.MZ)
		hi = math.Max(hi, p.MZ)
	}
	return lo, hi, true
}
