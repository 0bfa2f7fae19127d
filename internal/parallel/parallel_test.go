package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	for name, cfg := range map[string]Config{
		"default":    DefaultConfig(),
		"sequential": Sequential(),
		"two":        {Enabled: true, NumWorkers: 2},
	} {
		t.Run(name, func(t *testing.T) {
			var calls int64
			got, err := Map(100, func(i int) (int, error) {
				atomic.AddInt64(&calls, 1)
				return i * i, nil
			}, cfg)

			require.NoError(t, err)
			require.Len(t, got, 100)
			assert.Equal(t, int64(100), calls)
			for i, v := range got {
				assert.Equal(t, i*i, v)
			}
		})
	}
}

func TestMap_Empty(t *testing.T) {
	got, err := Map(0, func(int) (float64, error) { return 1, nil }, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMap_Error(t *testing.T) {
	boom := errors.New("boom")

	for _, cfg := range []Config{Sequential(), {Enabled: true, NumWorkers: 4}} {
		got, err := Map(10, func(i int) (int, error) {
			if i == 7 {
				return 0, boom
			}
			return i, nil
		}, cfg)

		require.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	}
}
