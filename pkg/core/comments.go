package core

import "strings"

// ExtractCommentField looks for a quoted `"<name>=value"` fragment in text,
// trying field first and then each alias. It returns the value of the first
// name that has both the opening fragment and a closing quote.
func ExtractCommentField(text, field string, aliases ...string) (string, bool) {
	if v, ok := scanQuoted(text, field); ok {
		return v, true
	}
	for _, a := range aliases {
		if v, ok := scanQuoted(text, a); ok {
			return v, true
		}
	}
	return "", false
}

func scanQuoted(text, name string) (string, bool) {
	prefix := `"` + name + "="
	start := strings.Index(text, prefix)
	if start < 0 {
		return "", false
	}
	start += len(prefix)
	end := strings.IndexByte(text[start:], '"')
	if end < 0 {
		return "", false
	}
	return text[start : start+end], true
}

// MineComments copies SMILES, InChI and SPLASH values embedded in the
// record's Comments field into regular fields, registering them in schema.
// Explicit fields win over mined ones.
//
// The SPLASH guard is an OR over the two casings: a record holding only
// "Splash" still gets "SPLASH" mined, and a record holding only "SPLASH"
// has it overwritten from the comment.
func MineComments(rec *Record, schema *Schema) {
	com, ok := rec.Get(FieldComments)
	if !ok {
		return
	}
	if !rec.Has(FieldSMILES) {
		if v, ok := ExtractCommentField(com, "SMILES", "computed SMILES"); ok {
			schema.Add(FieldSMILES)
			rec.Set(FieldSMILES, v)
		}
	}
	if !rec.Has(FieldInChI) {
		if v, ok := ExtractCommentField(com, "InChI", "computed InChI"); ok {
			schema.Add(FieldInChI)
			rec.Set(FieldInChI, v)
		}
	}
	// MoNA stores the splash uppercase in comments.
	if !rec.Has(FieldSplash) || !rec.Has(FieldSPLASH) {
		if v, ok := ExtractCommentField(com, "SPLASH"); ok {
			schema.Add(FieldSPLASH)
			rec.Set(FieldSPLASH, v)
		}
	}
}
