package autodiff_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/graph"
)

type recordingObserver struct {
	ids   []string
	calls []autodiff.CallStats
	errs  []error
}

func (o *recordingObserver) ObserveCompute(id string, stats autodiff.CallStats, err error) {
	o.ids = append(o.ids, id)
	o.calls = append(o.calls, stats)
	o.errs = append(o.errs, err)
}

func TestWithObserver(t *testing.T) {
	obs := &recordingObserver{}
	s := autodiff.NewSession(autodiff.WithObserver(obs))
	d := newDemoGraph()

	require.NoError(t, s.ComputeGradients(d.out))
	require.Error(t, s.ComputeGradients(graph.New().Leaf(1, true)))

	require.Len(t, obs.calls, 2)
	assert.Equal(t, []string{s.ID(), s.ID()}, obs.ids)

	assert.NoError(t, obs.errs[0])
	assert.Equal(t, 1, obs.calls[0].Roots)
	assert.Equal(t, 7, obs.calls[0].Nodes)
	assert.Equal(t, 7, obs.calls[0].Edges)
	assert.Equal(t, 6, obs.calls[0].NewEntries)

	assert.ErrorIs(t, obs.errs[1], autodiff.ErrGraphMismatch)
	assert.Equal(t, 0, obs.calls[1].Edges)
}

func TestWithLogger_DebugTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := autodiff.NewSession(autodiff.WithLogger(logger))
	d := newDemoGraph()
	require.NoError(t, s.ComputeGradients(d.out))

	out := buf.String()
	assert.Contains(t, out, "gradient contribution")
	assert.Contains(t, out, "gradients computed")
	assert.Contains(t, out, "session="+s.ID())
	assert.Equal(t, 7, strings.Count(out, "gradient contribution"), "one line per edge into a trainable node")
}

func TestWithLogger_InfoLevelIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	s := autodiff.NewSession(autodiff.WithLogger(logger), autodiff.WithLogger(nil))
	require.NoError(t, s.ComputeGradients(newDemoGraph().out))

	assert.Empty(t, buf.String())
}
