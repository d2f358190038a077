// Package source opens and creates library files. Files ending in .gz or
// .zst are transparently (de)compressed, and the raw bytes read from an input
// are hashed so a library can record which file it came from.
package source

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

// Compression identifies the container wrapped around a library file.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// DetectCompression returns the compression implied by the path suffix.
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// BaseExt returns the lower-cased extension of path after removing any
// compression suffix: "lib.msp.gz" gives ".msp".
func BaseExt(path string) string {
	if DetectCompression(path) != CompressionNone {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.ToLower(filepath.Ext(path))
}

// File is an opened library input.
type File struct {
	io.Reader
	path   string
	file   *os.File
	hasher *blake3.Hasher
	closer func() error
}

// Open opens path for reading. Failures wrap core.ErrSourceUnavailable and
// the underlying fs error, so errors.Is(err, fs.ErrNotExist) still works.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSourceUnavailable, err)
	}

	h := blake3.New()
	raw := io.TeeReader(f, h)
	sf := &File{path: path, file: f, hasher: h}

	switch DetectCompression(path) {
	case CompressionGzip:
		zr, err := gzip.NewReader(raw)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: gzip: %w", core.ErrSourceUnavailable, path, err)
		}
		sf.Reader = zr
		sf.closer = zr.Close
	case CompressionZstd:
		zr, err := zstd.NewReader(raw)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: zstd: %w", core.ErrSourceUnavailable, path, err)
		}
		sf.Reader = zr
		sf.closer = func() error { zr.Close(); return nil }
	default:
		sf.Reader = raw
	}

	return sf, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Digest returns the hex BLAKE3 digest of the raw bytes consumed so far.
func (f *File) Digest() string {
	return hex.EncodeToString(f.hasher.Sum(nil))
}

// Close releases the decompressor and the underlying file.
func (f *File) Close() error {
	var err error
	if f.closer != nil {
		err = f.closer()
	}
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Output is a created library output.
type Output struct {
	io.Writer
	file   *os.File
	closer func() error
}

// Create creates (or truncates) path for writing, compressing when the
// suffix asks for it.
func Create(path string) (*Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	out := &Output{file: f}
	switch DetectCompression(path) {
	case CompressionGzip:
		zw := gzip.NewWriter(f)
		out.Writer = zw
		out.closer = zw.Close
	case CompressionZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		out.Writer = zw
		out.closer = zw.Close
	default:
		out.Writer = f
	}
	return out, nil
}

// Close flushes the compressor and closes the file. Both steps run even if
// the first fails; the first error is returned.
func (o *Output) Close() error {
	var err error
	if o.closer != nil {
		err = o.closer()
	}
	if cerr := o.file.Close(); err == nil {
		err = cerr
	}
	return err
}
