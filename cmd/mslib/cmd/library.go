package cmd

import (
	"fmt"
	"strings"

	"github.com/ChrisMcGann/mslib/pkg/core"
	"github.com/ChrisMcGann/mslib/pkg/reader/mona"
	"github.com/ChrisMcGann/mslib/pkg/reader/msp"
	"github.com/ChrisMcGann/mslib/pkg/source"
	mspwriter "github.com/ChrisMcGann/mslib/pkg/writer/msp"
	"github.com/ChrisMcGann/mslib/pkg/writer/sqlite"
)

// detectFormat maps a file extension to a library format. A compression
// suffix is ignored, so "lib.msp.gz" is MSP.
func detectFormat(path string) (string, error) {
	switch ext := source.BaseExt(path); ext {
	case ".msp":
		return core.FormatMSP, nil
	case ".json", ".jsonl":
		return core.FormatMoNA, nil
	case ".db", ".sqlite", ".sqlite3":
		return core.FormatSQLite, nil
	default:
		return "", fmt.Errorf("cannot auto-detect format from extension '%s'", ext)
	}
}

// resolveFormat returns the explicit format if given, else the detected one.
func resolveFormat(path, explicit, flag string, allowed ...string) (string, error) {
	format := strings.ToLower(explicit)
	if format == "" {
		var err error
		if format, err = detectFormat(path); err != nil {
			return "", fmt.Errorf("%w, please specify --%s", err, flag)
		}
	}
	for _, f := range allowed {
		if f == format {
			if format == core.FormatSQLite && source.DetectCompression(path) != source.CompressionNone {
				return "", fmt.Errorf("%s: SQLite databases cannot be compressed", path)
			}
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format '%s' for %s, must be %s", format, path, strings.Join(allowed, ", "))
}

// readOptions tune readLibrary beyond the loaded config.
type readOptions struct {
	// collect keeps going past malformed MSP peak lists so that every
	// problem is reported.
	collect bool
}

func (a *app) readLibrary(path, format string, ro readOptions) (*core.Library, error) {
	switch format {
	case core.FormatMSP:
		return msp.ParseFile(path, msp.Options{
			ParseComments:      a.cfg.ParseComments,
			RecoverPeaks:       a.cfg.RecoverPeaks || ro.collect,
			AllowMissingSource: a.cfg.AllowMissingSource,
			Progress:           a.progress,
			ProgressInterval:   a.cfg.ReaderInterval(),
		})
	case core.FormatMoNA:
		return mona.ParseFile(path, mona.Options{
			Strict:              a.cfg.StrictJSON && !ro.collect,
			KeepWithoutCompound: a.cfg.KeepWithoutCompound,
			AllowMissingSource:  a.cfg.AllowMissingSource,
			Progress:            a.progress,
			ProgressInterval:    a.cfg.ReaderInterval(),
		})
	case core.FormatSQLite:
		lib, err := sqlite.ReadLibrary(path)
		if err != nil {
			return nil, err
		}
		a.progress(core.ProgressEvent{Op: core.OpRead, Format: core.FormatSQLite, Count: lib.Len(), Done: true})
		return lib, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func (a *app) writeLibrary(path, format string, lib *core.Library) error {
	switch format {
	case core.FormatMSP:
		return mspwriter.WriteFile(path, lib, mspwriter.Options{
			Precision:        a.cfg.Precision,
			SkipMissing:      a.cfg.SkipMissing,
			NullMarker:       a.cfg.NullMarker,
			Progress:         a.progress,
			ProgressInterval: a.cfg.ReaderInterval(),
		})
	case core.FormatSQLite:
		return sqlite.WriteLibrary(path, lib, a.progress)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
