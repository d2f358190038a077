package source

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		path string
		want Compression
		ext  string
	}{
		{"lib.msp", CompressionNone, ".msp"},
		{"lib.msp.gz", CompressionGzip, ".msp"},
		{"LIB.MSP.ZST", CompressionZstd, ".msp"},
		{"export.json.zstd", CompressionZstd, ".json"},
		{"noext", CompressionNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCompression(tt.path))
			assert.Equal(t, tt.ext, BaseExt(tt.path))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	const content = "Name: caffeine\nNum Peaks: 1\n195.08 100\n\n"

	for _, name := range []string{"lib.msp", "lib.msp.gz", "lib.msp.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			out, err := Create(path)
			require.NoError(t, err)
			_, err = io.WriteString(out, content)
			require.NoError(t, err)
			require.NoError(t, out.Close())

			in, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(in)
			require.NoError(t, err)
			require.NoError(t, in.Close())

			assert.Equal(t, content, string(got))
			assert.Len(t, in.Digest(), 64)
			assert.Equal(t, path, in.Path())
		})
	}
}

func TestDigestCoversRawBytes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.msp")
	b := filepath.Join(dir, "b.msp")
	require.NoError(t, os.WriteFile(a, []byte("Name: a\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("Name: b\n"), 0o644))

	digest := func(p string) string {
		f, err := Open(p)
		require.NoError(t, err)
		defer f.Close()
		_, err = io.Copy(io.Discard, f)
		require.NoError(t, err)
		return f.Digest()
	}
	assert.NotEqual(t, digest(a), digest(b))
	assert.Equal(t, digest(a), digest(a))
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.msp"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSourceUnavailable))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpenCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.msp.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, core.ErrSourceUnavailable)
}
