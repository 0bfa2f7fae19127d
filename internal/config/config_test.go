package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scalargrad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
demo:
  a: 1.5
check:
  workers: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1.5, cfg.Demo.A)
	assert.Equal(t, 0.3, cfg.Demo.B, "unset fields keep defaults")
	assert.Equal(t, 2, cfg.Check.Workers)
	assert.Equal(t, 1e-6, cfg.Check.Epsilon)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"bad level", "log:\n  level: loud\n", ErrInvalidLogLevel},
		{"bad format", "log:\n  format: xml\n", ErrInvalidLogFormat},
		{"bad epsilon", "check:\n  epsilon: -1\n", ErrInvalidCheck},
		{"bad workers", "check:\n  workers: -3\n", ErrInvalidCheck},
		{"bad tolerance", "check:\n  tolerance: 0\n", ErrInvalidCheck},
		{"bad optimizer", "fit:\n  optimizer: lbfgs\n", ErrInvalidFit},
		{"bad steps", "fit:\n  steps: 0\n", ErrInvalidFit},
		{"bad momentum", "fit:\n  optimizer: sgd\n  momentum: 1\n", ErrInvalidFit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingOrMalformed(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "log: [unterminated"))
	assert.Error(t, err)
}

func TestCheckConfig_Validate(t *testing.T) {
	assert.NoError(t, Default().Check.Validate())

	for _, cc := range []CheckConfig{
		{Epsilon: 0, Tolerance: 1e-5},
		{Epsilon: 1e-6, Tolerance: -1},
		{Epsilon: 1e-6, Tolerance: 1e-5, Workers: -1},
	} {
		assert.ErrorIs(t, cc.Validate(), ErrInvalidCheck, "%+v", cc)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("n", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, 3.0, rec["n"])
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := LogConfig{Level: "info", Format: "xml"}.NewLogger(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrInvalidLogFormat)
}
