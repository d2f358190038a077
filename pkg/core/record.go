package core

// Canonical and format-specific field names.
const (
	// FieldDBID is the canonical name of the library identifier. Tabular
	// consumers cannot use '#' in a column name, so MSP "DB#" and MoNA "id"
	// are both stored under it.
	FieldDBID = "DB_ID"

	// MSPFieldDBID is the MSP spelling of FieldDBID.
	MSPFieldDBID = "DB#"

	FieldComments = "Comments"
	FieldSMILES   = "SMILES"
	FieldInChI    = "InChI"
	FieldInChIKey = "InChIKey"
	FieldSplash   = "Splash"
	FieldSPLASH   = "SPLASH"

	// NumPeaksKey ends a record's metadata in MSP and announces its peaks.
	NumPeaksKey = "Num Peaks"

	// DuplicateSeparator joins the values of a key repeated within one record.
	DuplicateSeparator = ";"
)

// NormalizeFieldName maps an MSP key to the name it is stored under.
func NormalizeFieldName(key string) string {
	if key == MSPFieldDBID {
		return FieldDBID
	}
	return key
}

// DenormalizeFieldName maps a stored field name back to its MSP key.
func DenormalizeFieldName(name string) string {
	if name == FieldDBID {
		return MSPFieldDBID
	}
	return name
}

// Record is one library entry: string fields plus a spectrum.
type Record struct {
	values   map[string]string
	Spectrum Spectrum
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Get returns the value stored for name.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name is present.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set stores value under name, replacing any previous value.
func (r *Record) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[name] = value
}

// Merge stores value under name. If name is already present the new value is
// appended to the existing one, separated by DuplicateSeparator.
func (r *Record) Merge(name, value string) {
	if prev, ok := r.values[name]; ok {
		r.values[name] = prev + DuplicateSeparator + value
		return
	}
	r.Set(name, value)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

// Fields returns a copy of the field map.
func (r *Record) Fields() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
