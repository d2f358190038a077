package core

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCommentField(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		field   string
		aliases []string
		want    string
		wantOK  bool
	}{
		{"direct hit", `"SMILES=CCO" "other=1"`, "SMILES", nil, "CCO", true},
		{"alias hit", `"computed SMILES=C=O"`, "SMILES", []string{"computed SMILES"}, "C=O", true},
		{"field wins over alias", `"computed SMILES=A" "SMILES=B"`, "SMILES", []string{"computed SMILES"}, "B", true},
		{"needs leading quote", `"this is SMILES=CCO stuff"`, "SMILES", nil, "", false},
		{"missing closing quote", `"SMILES=CCO`, "SMILES", nil, "", false},
		{"missing closing quote falls through to alias", `"computed SMILES=X" "SMILES=CCO`, "SMILES", []string{"computed SMILES"}, "X", true},
		{"empty value", `"SMILES="`, "SMILES", nil, "", true},
		{"absent", `"InChI=abc"`, "SMILES", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCommentField(tt.text, tt.field, tt.aliases...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMineComments(t *testing.T) {
	const comments = `"SMILES=CCO" "computed InChI=InChI=1S/C2H6O" "SPLASH=splash10-abc"`

	t.Run("fills absent fields", func(t *testing.T) {
		rec := NewRecord()
		rec.Set(FieldComments, comments)
		schema := NewSchema(FieldComments)

		MineComments(rec, schema)

		v, _ := rec.Get(FieldSMILES)
		assert.Equal(t, "CCO", v)
		v, _ = rec.Get(FieldInChI)
		assert.Equal(t, "InChI=1S/C2H6O", v)
		v, _ = rec.Get(FieldSPLASH)
		assert.Equal(t, "splash10-abc", v)
		assert.Equal(t, []string{FieldComments, FieldSMILES, FieldInChI, FieldSPLASH}, schema.Names())
	})

	t.Run("explicit fields win", func(t *testing.T) {
		rec := NewRecord()
		rec.Set(FieldComments, comments)
		rec.Set(FieldSMILES, "explicit")
		schema := NewSchema(FieldComments, FieldSMILES)

		MineComments(rec, schema)

		v, _ := rec.Get(FieldSMILES)
		assert.Equal(t, "explicit", v)
	})

	t.Run("SPLASH overwritten when only uppercase present", func(t *testing.T) {
		rec := NewRecord()
		rec.Set(FieldComments, comments)
		rec.Set(FieldSPLASH, "explicit")

		MineComments(rec, NewSchema())

		v, _ := rec.Get(FieldSPLASH)
		assert.Equal(t, "splash10-abc", v)
	})

	t.Run("SPLASH kept when both casings present", func(t *testing.T) {
		rec := NewRecord()
		rec.Set(FieldComments, comments)
		rec.Set(FieldSplash, "a")
		rec.Set(FieldSPLASH, "b")

		MineComments(rec, NewSchema())

		v, _ := rec.Get(FieldSPLASH)
		assert.Equal(t, "b", v)
	})

	t.Run("no comments", func(t *testing.T) {
		rec := NewRecord()
		schema := NewSchema()
		MineComments(rec, schema)
		assert.Equal(t, 0, rec.Len())
		assert.Equal(t, 0, schema.Len())
	})
}

func TestPeakErrorIsMalformedPeak(t *testing.T) {
	_, parseErr := strconv.ParseFloat("abc", 64)
	err := &PeakError{Path: "lib.msp", Line: 7, Token: "abc", Reason: "invalid m/z", Err: parseErr}

	require.ErrorIs(t, err, ErrMalformedPeak)
	require.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Equal(t, `lib.msp:7: invalid m/z "abc"`, err.Error())

	var pe *PeakError
	require.True(t, errors.As(error(err), &pe))
	d := pe.Diagnostic()
	assert.Equal(t, KindMalformedPeak, d.Kind)
	assert.Equal(t, `lib.msp:7: malformed-peak: invalid m/z "abc"`, d.String())
}

func TestProgress(t *testing.T) {
	var events []ProgressEvent
	p := Progress{
		Func:     func(e ProgressEvent) { events = append(events, e) },
		Interval: 2,
		Op:       OpRead,
		Format:   FormatMSP,
	}
	for i := 1; i <= 5; i++ {
		p.Step(i)
	}
	p.Finish(5)

	require.Len(t, events, 3)
	assert.Equal(t, 2, events[0].Count)
	assert.Equal(t, 4, events[1].Count)
	assert.True(t, events[2].Done)
	assert.Equal(t, 5, events[2].Count)

	Progress{}.Step(10)
	Progress{}.Finish(10)
}
