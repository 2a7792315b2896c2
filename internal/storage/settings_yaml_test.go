package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"coachtimer/internal/storage"
	"coachtimer/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	store := storage.NewStore(t.TempDir())

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := storage.NewStore(dir)

	want := preferences.Settings{
		WorkSeconds:  45,
		RestSeconds:  20,
		SoundEnabled: false,
		Language:     "pt",
		LogLevel:     "debug",
		MetricsAddr:  "127.0.0.1:9464",
	}
	require.NoError(t, store.Save(want))
	assert.FileExists(t, store.Path())
	assert.NoFileExists(t, store.Path()+".tmp")

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_OutOfRangeFieldsFallBack(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)
	content := "work_seconds: 4\nrest_seconds: 120\nlanguage: english\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 30, settings.WorkSeconds)
	assert.Equal(t, 120, settings.RestSeconds)
	assert.Empty(t, settings.Language)
	assert.True(t, settings.SoundEnabled)
}

func TestLoad_InvalidYAML(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(), []byte("work_seconds: [oops"), 0o644))

	settings, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestWatch_ReloadsOnSave(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	require.NoError(t, store.Save(preferences.DefaultSettings()))

	changes := make(chan preferences.Settings, 4)
	watcher, err := store.Watch(20*time.Millisecond, func(settings preferences.Settings) {
		changes <- settings
	})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, watcher.Close())
	}()

	updated := preferences.DefaultSettings()
	updated.WorkSeconds = 90
	updated.RestSeconds = 25
	require.NoError(t, store.Save(updated))

	select {
	case got := <-changes:
		assert.Equal(t, 90, got.WorkSeconds)
		assert.Equal(t, 25, got.RestSeconds)
	case <-time.After(3 * time.Second):
		t.Fatal("settings change not observed")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewStore(dir)

	changes := make(chan preferences.Settings, 1)
	watcher, err := store.Watch(10*time.Millisecond, func(settings preferences.Settings) {
		changes <- settings
	})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, watcher.Close())
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_CloseTwice(t *testing.T) {
	store := storage.NewStore(t.TempDir())
	watcher, err := store.Watch(0, nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Close())
	assert.NoError(t, watcher.Close())
}

func TestWatch_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	store := storage.NewStore(dir)
	watcher, err := store.Watch(0, nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	require.NoError(t, watcher.Close())
}

func TestWatch_UnusableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := storage.NewStore(filepath.Join(blocker, "sub"))
	_, err := store.Watch(0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create settings dir")
}
