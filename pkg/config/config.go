// Package config loads mslib settings.
//
// Settings come from a single YAML file named by the --config flag or the
// MSLIB_CONFIG environment variable, layered over Default(). Command-line
// flags override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "MSLIB_CONFIG"

// Config holds reader, writer and logging settings.
type Config struct {
	// ParseComments mines SMILES, InChI and SPLASH from MSP Comments.
	ParseComments bool `yaml:"parse_comments"`

	// ProgressInterval is the number of records between progress lines.
	// 0 disables intermediate progress.
	ProgressInterval int `yaml:"progress_interval"`

	// NullMarker renders absent fields in MSP output.
	NullMarker string `yaml:"null_marker"`

	// Precision is the number of decimals (1-17) for peak values in MSP
	// output; -1 writes the shortest exact representation.
	Precision int `yaml:"precision"`

	// SkipMissing omits absent fields from MSP output.
	SkipMissing bool `yaml:"skip_missing"`

	// RecoverPeaks drops records with malformed peak lists instead of
	// aborting the whole MSP parse.
	RecoverPeaks bool `yaml:"recover_peaks"`

	// StrictJSON aborts a MoNA parse on the first line that is not JSON.
	StrictJSON bool `yaml:"strict_json"`

	// KeepWithoutCompound accepts MoNA records lacking compound data.
	KeepWithoutCompound bool `yaml:"keep_without_compound"`

	// AllowMissingSource treats an unreadable input as an empty library.
	AllowMissingSource bool `yaml:"allow_missing_source"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ParseComments:    false,
		ProgressInterval: core.DefaultProgressInterval,
		NullMarker:       core.DefaultNullMarker,
		Precision:        6,
		LogLevel:         "info",
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path, or the file named by MSLIB_CONFIG when path is empty,
// or returns the defaults when neither is set.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must not be negative, got %d", c.ProgressInterval)
	}
	if c.Precision != -1 && (c.Precision < 1 || c.Precision > 17) {
		return fmt.Errorf("precision must be -1 or between 1 and 17, got %d", c.Precision)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}

// ReaderInterval converts ProgressInterval to the reader convention where
// 0 means "default" and a negative value disables reports.
func (c *Config) ReaderInterval() int {
	if c.ProgressInterval == 0 {
		return -1
	}
	return c.ProgressInterval
}

// Flag names shared by the commands.
const (
	FlagParseComments       = "parse-comments"
	FlagProgressInterval    = "progress-interval"
	FlagNullMarker          = "null-marker"
	FlagPrecision           = "precision"
	FlagSkipMissing         = "skip-missing"
	FlagRecoverPeaks        = "recover-peaks"
	FlagStrictJSON          = "strict-json"
	FlagKeepWithoutCompound = "keep-without-compound"
	FlagAllowMissingSource  = "allow-missing-source"
	FlagLogLevel            = "log-level"
)

// RegisterFlags adds one flag per setting to fs, defaulted from Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Bool(FlagParseComments, d.ParseComments, "Mine SMILES, InChI and SPLASH from MSP Comments fields")
	fs.Int(FlagProgressInterval, d.ProgressInterval, "Records between progress messages (0 = only the final count)")
	fs.String(FlagNullMarker, d.NullMarker, "Value written for absent fields in MSP output")
	fs.Int(FlagPrecision, d.Precision, "Decimals for peak values in MSP output (-1 = shortest exact)")
	fs.Bool(FlagSkipMissing, d.SkipMissing, "Omit absent fields from MSP output")
	fs.Bool(FlagRecoverPeaks, d.RecoverPeaks, "Skip MSP records with malformed peak lists instead of failing")
	fs.Bool(FlagStrictJSON, d.StrictJSON, "Fail on the first MoNA line that is not valid JSON")
	fs.Bool(FlagKeepWithoutCompound, d.KeepWithoutCompound, "Keep MoNA records without compound data")
	fs.Bool(FlagAllowMissingSource, d.AllowMissingSource, "Treat an unreadable input as an empty library")
	fs.String(FlagLogLevel, d.LogLevel, "Log level: debug, info, warn, error")
}

// ApplyFlags copies every flag the user set explicitly onto c, then
// validates the result.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	set := func(e error) {
		if err == nil {
			err = e
		}
	}
	fs.Visit(func(f *pflag.Flag) {
		var e error
		switch f.Name {
		case FlagParseComments:
			c.ParseComments, e = fs.GetBool(f.Name)
		case FlagProgressInterval:
			c.ProgressInterval, e = fs.GetInt(f.Name)
		case FlagNullMarker:
			c.NullMarker, e = fs.GetString(f.Name)
		case FlagPrecision:
			c.Precision, e = fs.GetInt(f.Name)
		case FlagSkipMissing:
			c.SkipMissing, e = fs.GetBool(f.Name)
		case FlagRecoverPeaks:
			c.RecoverPeaks, e = fs.GetBool(f.Name)
		case FlagStrictJSON:
			c.StrictJSON, e = fs.GetBool(f.Name)
		case FlagKeepWithoutCompound:
			c.KeepWithoutCompound, e = fs.GetBool(f.Name)
		case FlagAllowMissingSource:
			c.AllowMissingSource, e = fs.GetBool(f.Name)
		case FlagLogLevel:
			c.LogLevel, e = fs.GetString(f.Name)
		}
		set(e)
	})
	if err != nil {
		return err
	}
	return c.Validate()
}
