package core

// DefaultNullMarker renders an absent field in tabular output.
const DefaultNullMarker = "NA"

// Source formats.
const (
	FormatMSP    = "msp"
	FormatMoNA   = "mona"
	FormatSQLite = "sqlite"
)

// SourceInfo describes where a library was read from.
type SourceInfo struct {
	Path   string
	Format string
	Digest string // hex BLAKE3 of the raw bytes consumed, if known
}

// Library is the owned result of one parse: the schema, the records in input
// order and everything that was skipped along the way.
type Library struct {
	Schema      *Schema
	Records     []*Record
	Diagnostics []Diagnostic
	Source      SourceInfo
}

// NewLibrary returns an empty library for the given source format.
func NewLibrary(format string) *Library {
	return &Library{
		Schema:  NewSchema(),
		Records: []*Record{},
		Source:  SourceInfo{Format: format},
	}
}

// Append hands rec over to the library. The caller must not modify rec
// afterwards and is responsible for having registered its field names.
func (l *Library) Append(rec *Record) {
	l.Records = append(l.Records, rec)
}

// Len returns the number of records.
func (l *Library) Len() int {
	return len(l.Records)
}

// Report records a diagnostic.
func (l *Library) Report(d Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, d)
}

// SkippedLines counts diagnostics that dropped input.
func (l *Library) SkippedLines() int {
	n := 0
	for _, d := range l.Diagnostics {
		if d.Kind.Skips() {
			n++
		}
	}
	return n
}

// Spectra returns the spectra in record order.
func (l *Library) Spectra() []Spectrum {
	out := make([]Spectrum, len(l.Records))
	for i, r := range l.Records {
		out[i] = r.Spectrum
	}
	return out
}

// Table is the column-oriented view of a library: one column per schema
// name, one row per record. Absent fields hold NullMarker.
type Table struct {
	Columns    []string
	Rows       [][]string
	NullMarker string

	// Absent marks cells whose record lacks the field, parallel to Rows.
	// It may be nil for tables built by hand.
	Absent [][]bool
}

// Missing reports whether the cell at row, col stands for an absent field.
// Without Absent, a cell equal to NullMarker counts as missing.
func (t *Table) Missing(row, col int) bool {
	if t.Absent != nil {
		return t.Absent[row][col]
	}
	return t.Rows[row][col] == t.NullMarker
}

// Table materializes the library using nullMarker for absent fields.
func (l *Library) Table(nullMarker string) *Table {
	cols := l.Schema.Names()
	t := &Table{
		Columns:    cols,
		Rows:       make([][]string, len(l.Records)),
		NullMarker: nullMarker,
		Absent:     make([][]bool, len(l.Records)),
	}
	for i, rec := range l.Records {
		row := make([]string, len(cols))
		absent := make([]bool, len(cols))
		for j, c := range cols {
			if v, ok := rec.Get(c); ok {
				row[j] = v
			} else {
				row[j] = nullMarker
				absent[j] = true
			}
		}
		t.Rows[i] = row
		t.Absent[i] = absent
	}
	return t
}

// Coverage returns, per schema name, how many records carry the field.
func (l *Library) Coverage() map[string]int {
	out := make(map[string]int, l.Schema.Len())
	for _, name := range l.Schema.Names() {
		out[name] = 0
	}
	for _, rec := range l.Records {
		for name := range rec.values {
			out[name]++
		}
	}
	return out
}
