package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"coachtimer/internal/ui/preferences"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const defaultDebounce = 250 * time.Millisecond

// ChangeFunc receives settings reloaded after the file changed on disk.
type ChangeFunc func(settings preferences.Settings)

// Watcher reloads the settings file whenever it is written.
type Watcher struct {
	store     *Store
	fsWatcher *fsnotify.Watcher
	onChange  ChangeFunc
	debounce  time.Duration
	logger    *log.Entry

	mu     sync.Mutex
	timer  *time.Timer
	closed bool

	cancel    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Watch starts watching the directory that holds the settings file. The
// directory is watched rather than the file so that atomic replacement by
// rename is observed.
func (store *Store) Watch(debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		return nil, multierr.Append(
			fmt.Errorf("watch settings dir: %w", err),
			fsWatcher.Close(),
		)
	}

	watcher := &Watcher{
		store:     store,
		fsWatcher: fsWatcher,
		onChange:  onChange,
		debounce:  debounce,
		logger:    log.WithField("component", "settings_watcher"),
		cancel:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go watcher.watchLoop()
	return watcher, nil
}

// Close stops the watcher. Pending reloads are discarded.
func (watcher *Watcher) Close() error {
	var err error
	watcher.closeOnce.Do(func() {
		close(watcher.cancel)
		err = watcher.fsWatcher.Close()
		<-watcher.done

		watcher.mu.Lock()
		watcher.closed = true
		if watcher.timer != nil {
			watcher.timer.Stop()
		}
		watcher.mu.Unlock()
	})
	return err
}

func (watcher *Watcher) watchLoop() {
	defer close(watcher.done)
	fileName := filepath.Base(watcher.store.path)

	for {
		select {
		case <-watcher.cancel:
			return

		case event, ok := <-watcher.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			watcher.schedule()

		case err, ok := <-watcher.fsWatcher.Errors:
			if !ok {
				return
			}
			watcher.logger.WithError(err).Warn("settings watcher error")
		}
	}
}

func (watcher *Watcher) schedule() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.closed {
		return
	}
	if watcher.timer != nil {
		watcher.timer.Stop()
	}
	watcher.timer = time.AfterFunc(watcher.debounce, watcher.reload)
}

func (watcher *Watcher) reload() {
	watcher.mu.Lock()
	closed := watcher.closed
	watcher.mu.Unlock()
	if closed {
		return
	}

	settings, err := watcher.store.Load()
	if err != nil {
		watcher.logger.WithError(err).Warn("reload settings")
		return
	}
	watcher.logger.WithFields(log.Fields{
		"work_seconds": settings.WorkSeconds,
		"rest_seconds": settings.RestSeconds,
	}).Info("settings reloaded")
	if watcher.onChange != nil {
		watcher.onChange(settings)
	}
}
