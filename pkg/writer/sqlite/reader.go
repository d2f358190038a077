package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

// openReadOnly opens an existing database without creating it.
func openReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrSourceUnavailable, path, err)
	}
	return db, nil
}

// ReadHeader returns the HeaderTable row of the database at path.
func ReadHeader(path string) (*Header, error) {
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readHeader(db)
}

func readHeader(db *sql.DB) (*Header, error) {
	var h Header
	var libID, created, format, srcPath, digest sql.NullString
	err := db.QueryRow(`
		SELECT version, LibraryId, CreationDate, SourceFormat, SourcePath, SourceDigest, RecordCount
		FROM HeaderTable LIMIT 1
	`).Scan(&h.Version, &libID, &created, &format, &srcPath, &digest, &h.RecordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h.LibraryID, h.CreationDate = libID.String, created.String
	h.SourceFormat, h.SourcePath, h.SourceDigest = format.String, srcPath.String, digest.String
	return &h, nil
}

// ReadLibrary loads a database written by WriteLibrary. NULL fields are
// absent from the rebuilt records.
func ReadLibrary(path string) (*core.Library, error) {
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	header, err := readHeader(db)
	if err != nil {
		return nil, err
	}

	lib := core.NewLibrary(core.FormatSQLite)
	lib.Source = core.SourceInfo{Path: path, Format: core.FormatSQLite, Digest: header.SourceDigest}

	columns, err := readSchema(db, lib.Schema)
	if err != nil {
		return nil, err
	}
	fields := lib.Schema.Names()

	byID, err := readRecords(db, columns, fields, lib)
	if err != nil {
		return nil, err
	}
	if err := readSpectra(db, byID); err != nil {
		return nil, err
	}
	return lib, nil
}

func readSchema(db *sql.DB, schema *core.Schema) ([]string, error) {
	rows, err := db.Query(`SELECT Name, ColumnName FROM SchemaTable ORDER BY Position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		schema.Add(name)
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func readRecords(db *sql.DB, columns, fields []string, lib *core.Library) (map[int64]*core.Record, error) {
	names := []string{"RecordId"}
	for _, c := range columns {
		names = append(names, quoteIdent(c))
	}
	rows, err := db.Query(fmt.Sprintf(`SELECT %s FROM LibraryTable ORDER BY RecordId`, strings.Join(names, ", ")))
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*core.Record)
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns)+1)
	var id int64
	dest[0] = &id
	for i := range values {
		dest[i+1] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rec := core.NewRecord()
		for i, v := range values {
			if v.Valid {
				rec.Set(fields[i], v.String)
			}
		}
		lib.Append(rec)
		byID[id] = rec
	}
	return byID, rows.Err()
}

func readSpectra(db *sql.DB, byID map[int64]*core.Record) error {
	rows, err := db.Query(`SELECT RecordId, blobMass, blobIntensity FROM SpectrumTable ORDER BY SpectrumId`)
	if err != nil {
		return fmt.Errorf("failed to read spectra: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var mzBlob, intBlob []byte
		if err := rows.Scan(&id, &mzBlob, &intBlob); err != nil {
			return fmt.Errorf("failed to read spectrum: %w", err)
		}
		rec, ok := byID[id]
		if !ok {
			return fmt.Errorf("spectrum references unknown record %d", id)
		}
		mzs, err := decodeFloat64s(mzBlob)
		if err != nil {
			return fmt.Errorf("record %d: m/z blob: %w", id, err)
		}
		ints, err := decodeFloat64s(intBlob)
		if err != nil {
			return fmt.Errorf("record %d: intensity blob: %w", id, err)
		}
		if len(mzs) != len(ints) {
			return fmt.Errorf("record %d: %d m/z values but %d intensities", id, len(mzs), len(ints))
		}
		rec.Spectrum = core.Spectrum{}
		for i := range mzs {
			rec.Spectrum.Add(mzs[i], ints[i])
		}
	}
	return rows.Err()
}

// decodeFloat64s is the inverse of encodeFloat64s
func decodeFloat64s(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 8", len(blob))
	}
	out := make([]float64, len(blob)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return out, nil
}
