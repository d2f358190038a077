package core

// FieldCoverage counts the records carrying one schema field.
type FieldCoverage struct {
	Name  string
	Count int
}

// Summary holds library statistics.
type Summary struct {
	Records  int
	Skipped  int
	MinPeaks int
	MaxPeaks int
	// MinMZ and MaxMZ span every peak of every record; valid only when
	// HasPeaks is true.
	MinMZ    float64
	MaxMZ    float64
	HasPeaks bool
	Fields   []FieldCoverage // schema order
}

// Summarize computes record, peak and field statistics for lib.
func Summarize(lib *Library) Summary {
	s := Summary{Records: lib.Len(), Skipped: lib.SkippedLines()}

	for i, rec := range lib.Records {
		n := rec.Spectrum.Len()
		if i == 0 || n < s.MinPeaks {
			s.MinPeaks = n
		}
		if n > s.MaxPeaks {
			s.MaxPeaks = n
		}

		lo, hi, ok := rec.Spectrum.MZRange()
		if !ok {
			continue
		}
		if !s.HasPeaks || lo < s.MinMZ {
			s.MinMZ = lo
		}
		if !s.HasPeaks || hi > s.MaxMZ {
			s.MaxMZ = hi
		}
		s.HasPeaks = true
	}

	coverage := lib.Coverage()
	for _, name := range lib.Schema.Names() {
		s.Fields = append(s.Fields, FieldCoverage{Name: name, Count: coverage[name]})
	}
	return s
}
