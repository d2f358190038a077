package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	lib := NewLibrary(FormatMSP)
	lib.Schema.Add("Name")
	lib.Schema.Add(FieldDBID)

	a := NewRecord()
	a.Set("Name", "A")
	a.Set(FieldDBID, "1")
	a.Spectrum.Add(120.5, 10)
	a.Spectrum.Add(80.25, 100)
	lib.Append(a)

	b := NewRecord()
	b.Set("Name", "B")
	lib.Append(b)

	c := NewRecord()
	c.Set("Name", "C")
	c.Spectrum.Add(300, 1)
	lib.Append(c)

	lib.Report(Diagnostic{Kind: KindIncompleteRecord})

	s := Summarize(lib)
	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 0, s.MinPeaks)
	assert.Equal(t, 2, s.MaxPeaks)
	assert.True(t, s.HasPeaks)
	assert.Equal(t, 80.25, s.MinMZ)
	assert.Equal(t, 300.0, s.MaxMZ)
	assert.Equal(t, []FieldCoverage{{"Name", 3}, {FieldDBID, 1}}, s.Fields)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(NewLibrary(FormatMoNA))
	assert.Equal(t, 0, s.Records)
	assert.False(t, s.HasPeaks)
	assert.Empty(t, s.Fields)
}
