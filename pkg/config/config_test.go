package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/mslib/pkg/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mslib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.ParseComments)
	assert.Equal(t, core.DefaultProgressInterval, cfg.ProgressInterval)
	assert.Equal(t, core.DefaultNullMarker, cfg.NullMarker)
	assert.Equal(t, 6, cfg.Precision)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
parse_comments: true
progress_interval: 1000
precision: -1
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.ParseComments)
	assert.Equal(t, 1000, cfg.ProgressInterval)
	assert.Equal(t, -1, cfg.Precision)
	assert.Equal(t, core.DefaultNullMarker, cfg.NullMarker, "unset keys keep defaults")

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "parse_comment: true\n"},
		{"negative interval", "progress_interval: -5\n"},
		{"zero precision", "precision: 0\n"},
		{"precision too large", "precision: 40\n"},
		{"bad log level", "log_level: loud\n"},
		{"not yaml", "parse_comments: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := writeConfig(t, "skip_missing: true\n")
	t.Setenv(EnvVar, path)
	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.True(t, cfg.SkipMissing)
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--parse-comments", "--null-marker=-", "--progress-interval=0"}))

	cfg := Default()
	cfg.Precision = 3
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.True(t, cfg.ParseComments)
	assert.Equal(t, "-", cfg.NullMarker)
	assert.Equal(t, 0, cfg.ProgressInterval)
	assert.Equal(t, -1, cfg.ReaderInterval())
	assert.Equal(t, 3, cfg.Precision, "flags not given keep the file value")

	fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--precision=99"}))
	assert.Error(t, Default().ApplyFlags(fs))
}
