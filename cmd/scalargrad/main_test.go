package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/config"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "scalargrad "+version+"\n", out)
}

func TestDemo(t *testing.T) {
	out, stderr, err := run(t, "demo")
	require.NoError(t, err)

	assert.Contains(t, out, "output: 0.579324")
	assert.Contains(t, out, "0.243708") // m
	assert.Contains(t, out, "0.292449") // b, both paths
	assert.Contains(t, out, "sigmoid")
	assert.Contains(t, stderr, "demo finished")
}

func TestDemo_FlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  a: 1\n  b: 1\n  c: 1\nlog:\n  format: json\n"), 0o600))

	out, stderr, err := run(t, "--config", path, "demo", "--a", "0")
	require.NoError(t, err)

	// m = (0+1)*(1+1) = 2
	assert.Contains(t, out, "2.000000")
	assert.Contains(t, stderr, `"msg":"demo finished"`)
}

func TestDemo_Metrics(t *testing.T) {
	out, _, err := run(t, "demo", "--metrics", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, `scalargrad_compute_total{result="success"} 1`)
	assert.Contains(t, out, "scalargrad_edges_visited_total 7")
}

func TestCheck(t *testing.T) {
	out, stderr, err := run(t, "check", "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "ANALYTIC")
	assert.Contains(t, out, "max abs error")
	assert.Contains(t, stderr, "gradient check passed")
}

func TestCheck_InvalidFlags(t *testing.T) {
	for _, args := range [][]string{
		{"check", "--tol", "-1"},
		{"check", "--eps", "0"},
		{"check", "--workers", "-1"},
	} {
		out, _, err := run(t, args...)
		assert.ErrorIs(t, err, config.ErrInvalidCheck, "%v", args)
		assert.NotContains(t, out, "ANALYTIC")
	}
}

func TestFit(t *testing.T) {
	out, stderr, err := run(t, "fit", "--target", "0.9", "--steps", "200")
	require.NoError(t, err)

	assert.Contains(t, out, "step    0")
	assert.Contains(t, out, "output 0.900")
	assert.Contains(t, stderr, "fit finished")
}

func TestFit_SGD(t *testing.T) {
	out, _, err := run(t, "fit", "--optimizer", "sgd", "--lr", "2", "--steps", "500", "--target", "0.7")
	require.NoError(t, err)
	assert.Contains(t, out, "output 0.70")
}

func TestFit_InvalidOptimizer(t *testing.T) {
	_, _, err := run(t, "fit", "--optimizer", "lbfgs")
	assert.ErrorIs(t, err, config.ErrInvalidFit)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "demo")
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
