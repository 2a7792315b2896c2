package platform_test

import (
	"path/filepath"
	"testing"
	"time"

	"coachtimer/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	dir, err := platform.ConfigDir("CoachTimerTest")
	require.NoError(t, err)
	assert.Equal(t, "CoachTimerTest", filepath.Base(dir))
	assert.True(t, filepath.IsAbs(dir))
}

func TestAcquireSingleInstance(t *testing.T) {
	guard, err := platform.AcquireSingleInstance("CoachTimerTest-" + t.Name())
	require.NoError(t, err)
	assert.NotEmpty(t, guard.Address())

	_, err = platform.AcquireSingleInstance("CoachTimerTest-" + t.Name())
	assert.ErrorIs(t, err, platform.ErrAlreadyRunning)

	require.NoError(t, guard.Release())

	again, err := platform.AcquireSingleInstance("CoachTimerTest-" + t.Name())
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestInstanceGuard_NilRelease(t *testing.T) {
	var guard *platform.InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}

func TestNotifyRunning(t *testing.T) {
	appName := "CoachTimerTest-" + t.Name()
	guard, err := platform.AcquireSingleInstance(appName)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, guard.Release())
	}()

	require.NoError(t, platform.NotifyRunning(appName))

	select {
	case <-guard.Activations():
	case <-time.After(2 * time.Second):
		t.Fatal("activation was not delivered")
	}
}

func TestNotifyRunning_NoInstance(t *testing.T) {
	assert.Error(t, platform.NotifyRunning("CoachTimerTest-"+t.Name()))
}
