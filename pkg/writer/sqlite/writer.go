// Package sqlite stores libraries as SQLite databases: one row per record
// with one column per schema field, and the spectra as float64 blobs.
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"

	// Version of the table layout written by this package.
	layoutVersion = 1
)

// Header is the single HeaderTable row of a library database.
type Header struct {
	Version      int
	LibraryID    string
	CreationDate string
	SourceFormat string
	SourcePath   string
	SourceDigest string
	RecordCount  int
}

// Writer handles writing a library to a SQLite database file.
type Writer struct {
	db           *sql.DB
	tx           *sql.Tx
	outputPath   string
	fields       []string
	recordStmt   *sql.Stmt
	spectrumStmt *sql.Stmt
	recordID     int
	closed       bool
}

// NewWriter creates a database at outputPath with one record column per
// schema name. An existing file is replaced.
func NewWriter(outputPath string, schema *core.Schema) (*Writer, error) {
	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to replace %s: %w", outputPath, err)
	}

	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		fields:     schema.Names(),
		recordID:   1,
	}

	columns := columnNames(w.fields)
	if err := w.createTables(columns); err != nil {
		db.Close()
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	w.tx = tx

	if err := w.prepareStatements(columns); err != nil {
		tx.Rollback()
		db.Close()
		return nil, err
	}

	return w, nil
}

// columnNames maps field names to SQL column names. SQLite compares column
// names case-insensitively, so "Splash" and "SPLASH" cannot both be used
// verbatim; later duplicates get a numeric suffix, starting at their schema
// position and counting up until the name is free.
func columnNames(fields []string) []string {
	seen := make(map[string]bool, len(fields))
	taken := func(name string) bool {
		return name == "" || seen[strings.ToLower(name)] || strings.EqualFold(name, "RecordId")
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		name := f
		for k := i; taken(name); k++ {
			name = fmt.Sprintf("%s_%d", f, k)
		}
		seen[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// createTables creates the required database schema
func (w *Writer) createTables(columns []string) error {
	var cols strings.Builder
	for _, c := range columns {
		fmt.Fprintf(&cols, ",\n\t\t%s TEXT", quoteIdent(c))
	}

	schema := fmt.Sprintf(`
	CREATE TABLE LibraryTable (
		RecordId INTEGER PRIMARY KEY%s
	);

	CREATE TABLE SpectrumTable (
		SpectrumId INTEGER PRIMARY KEY,
		RecordId INTEGER REFERENCES LibraryTable(RecordId),
		NumPeaks INTEGER,
		blobMass BLOB,
		blobIntensity BLOB
	);

	CREATE TABLE SchemaTable (
		Position INTEGER PRIMARY KEY,
		Name TEXT NOT NULL,
		ColumnName TEXT NOT NULL
	);

	CREATE TABLE HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		LibraryId TEXT,
		CreationDate TEXT,
		SourceFormat TEXT,
		SourcePath TEXT,
		SourceDigest TEXT,
		RecordCount INTEGER
	);
	`, cols.String())

	if _, err := w.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	for i, f := range w.fields {
		if _, err := w.db.Exec(`INSERT INTO SchemaTable (Position, Name, ColumnName) VALUES (?, ?, ?)`, i, f, columns[i]); err != nil {
			return fmt.Errorf("failed to insert schema field %q: %w", f, err)
		}
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements(columns []string) error {
	names := []string{"RecordId"}
	for _, c := range columns {
		names = append(names, quoteIdent(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")

	var err error
	w.recordStmt, err = w.tx.Prepare(fmt.Sprintf(
		`INSERT INTO LibraryTable (%s) VALUES (%s)`,
		strings.Join(names, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("failed to prepare record statement: %w", err)
	}

	w.spectrumStmt, err = w.tx.Prepare(`
		INSERT INTO SpectrumTable (SpectrumId, RecordId, NumPeaks, blobMass, blobIntensity)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare spectrum statement: %w", err)
	}

	return nil
}

// WriteRecord writes a single record and its spectrum. Fields not in the
// writer's schema are ignored; absent fields are stored as NULL.
func (w *Writer) WriteRecord(rec *core.Record) error {
	args := make([]interface{}, 0, len(w.fields)+1)
	args = append(args, w.recordID)
	for _, f := range w.fields {
		if v, ok := rec.Get(f); ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}

	if _, err := w.recordStmt.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert record %d: %w", w.recordID, err)
	}

	_, err := w.spectrumStmt.Exec(
		w.recordID,                                 // SpectrumId (1:1 with RecordId)
		w.recordID,                                 // RecordId
		rec.Spectrum.Len(),                         // NumPeaks
		encodeFloat64s(rec.Spectrum.MZs()),         // blobMass
		encodeFloat64s(rec.Spectrum.Intensities()), // blobIntensity
	)
	if err != nil {
		return fmt.Errorf("failed to insert spectrum %d: %w", w.recordID, err)
	}

	w.recordID++
	return nil
}

// encodeFloat64s encodes values as a little-endian float64 blob
func encodeFloat64s(values []float64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// Finalize writes the header row, commits and closes the database.
func (w *Writer) Finalize(src core.SourceInfo) error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, LibraryId, CreationDate, SourceFormat, SourcePath, SourceDigest, RecordCount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, layoutVersion, uuid.NewString(), time.Now().Format(headerDateFormat),
		src.Format, src.Path, src.Digest, w.recordID-1)
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	w.closeStatements()
	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit: %w", err)
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close abandons an unfinished database. It is a no-op after Finalize.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.abort()
	return nil
}

func (w *Writer) abort() {
	w.closeStatements()
	w.tx.Rollback()
	w.db.Close()
}

func (w *Writer) closeStatements() {
	if w.recordStmt != nil {
		w.recordStmt.Close()
	}
	if w.spectrumStmt != nil {
		w.spectrumStmt.Close()
	}
}

// WriteLibrary writes every record of lib to a new database at path.
func WriteLibrary(path string, lib *core.Library, progress core.ProgressFunc) error {
	w, err := NewWriter(path, lib.Schema)
	if err != nil {
		return err
	}
	defer w.Close()

	p := core.Progress{Func: progress, Interval: core.DefaultProgressInterval, Op: core.OpWrote, Format: core.FormatSQLite}
	for i, rec := range lib.Records {
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
		p.Step(i + 1)
	}

	if err := w.Finalize(lib.Source); err != nil {
		return err
	}
	p.Finish(lib.Len())
	return nil
}
