package gpu

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRecoversFromStaleSurfaceOnce(t *testing.T) {
	calls := 0
	reconfigures := 0

	acquire := func() (*wgpu.Texture, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("Surface image is already acquired or surface Lost")
		}
		return &wgpu.Texture{}, nil
	}

	tex, err := acquireWithRecovery(acquire, func() { reconfigures++ })

	require.NoError(t, err)
	assert.NotNil(t, tex)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, reconfigures, "must reconfigure exactly once")
}

func TestAcquireGivesUpAfterSecondFailure(t *testing.T) {
	calls := 0
	reconfigures := 0

	acquire := func() (*wgpu.Texture, error) {
		calls++
		return nil, errors.New("surface is Outdated")
	}

	tex, err := acquireWithRecovery(acquire, func() { reconfigures++ })

	require.Error(t, err)
	assert.Nil(t, tex)
	assert.Equal(t, 2, calls, "retry exactly once, never loop")
	assert.Equal(t, 1, reconfigures)
}

func TestAcquireDoesNotRetryFatalErrors(t *testing.T) {
	calls := 0
	reconfigures := 0

	acquire := func() (*wgpu.Texture, error) {
		calls++
		return nil, errors.New("validation error: device mismatch")
	}

	_, err := acquireWithRecovery(acquire, func() { reconfigures++ })

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, reconfigures, "non-stale errors propagate immediately")
}

func TestAcquireSuccessPath(t *testing.T) {
	reconfigures := 0
	want := &wgpu.Texture{}

	tex, err := acquireWithRecovery(func() (*wgpu.Texture, error) {
		return want, nil
	}, func() { reconfigures++ })

	require.NoError(t, err)
	assert.Same(t, want, tex)
	assert.Equal(t, 0, reconfigures)
}

func TestApplyResizeUpdatesConfigBeforeNextAcquire(t *testing.T) {
	config := wgpu.SurfaceConfiguration{Width: 1280, Height: 720}

	// The resize event's dimensions must be in the stored configuration,
	// ready to reapply, before any following acquire.
	require.True(t, applyResize(&config, 800, 600))
	assert.Equal(t, uint32(800), config.Width)
	assert.Equal(t, uint32(600), config.Height)
}

func TestApplyResizeIgnoresZeroArea(t *testing.T) {
	config := wgpu.SurfaceConfiguration{Width: 1280, Height: 720}

	assert.False(t, applyResize(&config, 800, 0))
	assert.False(t, applyResize(&config, 0, 600))
	assert.False(t, applyResize(&config, -1, -1))

	assert.Equal(t, uint32(1280), config.Width)
	assert.Equal(t, uint32(720), config.Height)
}

func TestApplyResizeIdempotentForSameSize(t *testing.T) {
	config := wgpu.SurfaceConfiguration{Width: 1280, Height: 720}

	require.True(t, applyResize(&config, 800, 600))
	// Repeating the current size must not trigger another reapply.
	assert.False(t, applyResize(&config, 800, 600))
	assert.False(t, applyResize(&config, 800, 600))
	assert.Equal(t, uint32(800), config.Width)
	assert.Equal(t, uint32(600), config.Height)
}

func TestIsSurfaceStale(t *testing.T) {
	cases := []struct {
		err   error
		stale bool
	}{
		{nil, false},
		{errors.New("Surface was Lost"), true},
		{errors.New("surface is outdated and must be reconfigured"), true},
		{errors.New("acquire Timeout"), true},
		{errors.New("surface acquire timed out"), true},
		{errors.New("out of memory"), false},
		{errors.New("validation error"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.stale, isSurfaceStale(tc.err), "error: %v", tc.err)
	}
}
