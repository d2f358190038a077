package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

func testLibrary() *core.Library {
	lib := core.NewLibrary(core.FormatMSP)
	lib.Source = core.SourceInfo{Path: "lib.msp", Format: core.FormatMSP, Digest: "abc123"}
	for _, n := range []string{"Name", core.FieldDBID, "Splash", "SPLASH", `Odd "quoted" name`, "RecordId"} {
		lib.Schema.Add(n)
	}

	a := core.NewRecord()
	a.Set("Name", "Caffeine")
	a.Set(core.FieldDBID, "123")
	a.Set("Splash", "lower")
	a.Set("SPLASH", "upper")
	a.Set(`Odd "quoted" name`, "odd")
	a.Set("RecordId", "user-supplied")
	a.Spectrum.Add(195.087652, 100)
	a.Spectrum.Add(138.0662, 12.3456789)
	lib.Append(a)

	b := core.NewRecord()
	b.Set("Name", "Empty")
	lib.Append(b)
	return lib
}

func TestColumnNames(t *testing.T) {
	got := columnNames([]string{"Name", "Splash", "SPLASH", "", "recordid"})
	assert.Equal(t, []string{"Name", "Splash", "SPLASH_2", "_3", "recordid_4"}, got)

	// Generated names must not collide with real or earlier generated ones.
	assert.Equal(t, []string{"x", "X_2", "X_3"}, columnNames([]string{"x", "X_2", "X"}))
	assert.Equal(t, []string{"a", "A_1", "a_1_2"}, columnNames([]string{"a", "A", "a_1"}))
}

func TestWriteLibraryGeneratedColumnCollision(t *testing.T) {
	lib := core.NewLibrary(core.FormatMSP)
	for _, n := range []string{"x", "X_2", "X"} {
		lib.Schema.Add(n)
	}
	rec := core.NewRecord()
	rec.Set("x", "1")
	rec.Set("X_2", "2")
	rec.Set("X", "3")
	lib.Append(rec)

	path := filepath.Join(t.TempDir(), "lib.db")
	require.NoError(t, WriteLibrary(path, lib, nil))

	got, err := ReadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "X_2", "X"}, got.Schema.Names())
	require.Equal(t, 1, got.Len())
	assert.Equal(t, rec.Fields(), got.Records[0].Fields())
}

func TestEncodeDecodeFloat64s(t *testing.T) {
	values := []float64{0, 1.5, -2.25, 1e300}
	got, err := decodeFloat64s(encodeFloat64s(values))
	require.NoError(t, err)
	assert.Equal(t, values, got)

	_, err = decodeFloat64s([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestWriteReadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	lib := testLibrary()

	var events []core.ProgressEvent
	require.NoError(t, WriteLibrary(path, lib, func(e core.ProgressEvent) { events = append(events, e) }))
	require.NotEmpty(t, events)
	assert.True(t, events[len(events)-1].Done)

	header, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, layoutVersion, header.Version)
	assert.Equal(t, 2, header.RecordCount)
	assert.Equal(t, core.FormatMSP, header.SourceFormat)
	assert.Equal(t, "lib.msp", header.SourcePath)
	assert.Equal(t, "abc123", header.SourceDigest)
	_, err = uuid.Parse(header.LibraryID)
	assert.NoError(t, err)

	got, err := ReadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, lib.Schema.Names(), got.Schema.Names())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, core.FormatSQLite, got.Source.Format)

	for i := range lib.Records {
		assert.Equal(t, lib.Records[i].Fields(), got.Records[i].Fields())
		assert.Equal(t, lib.Records[i].Spectrum.Peaks, got.Records[i].Spectrum.Peaks)
	}
	assert.Equal(t, 0, got.Records[1].Spectrum.Len())
}

func TestWriteLibraryReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	require.NoError(t, WriteLibrary(path, testLibrary(), nil))

	small := core.NewLibrary(core.FormatMoNA)
	small.Schema.Add(core.FieldDBID)
	rec := core.NewRecord()
	rec.Set(core.FieldDBID, "X1")
	small.Append(rec)
	require.NoError(t, WriteLibrary(path, small, nil))

	got, err := ReadLibrary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{core.FieldDBID}, got.Schema.Names())
	assert.Equal(t, 1, got.Len())
}

func TestWriterCloseWithoutFinalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	w, err := NewWriter(path, core.NewSchema("Name"))
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(core.NewRecord()))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = ReadHeader(path)
	assert.Error(t, err, "nothing was committed")
}

func TestReadLibraryMissing(t *testing.T) {
	_, err := ReadLibrary(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSourceUnavailable))
}
