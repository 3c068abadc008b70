package watch

import (
	"os"
	"sync"
	"time"

	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is a file-system event seen in a watched directory
type Change struct {
	Path      string
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher reports entries appearing in directories using fsnotify. It only
// wakes the sweep loop; it never touches the files itself.
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel delivering changes
	changes chan Change

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Lock for running state and the directories list
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// NewWatcher creates a new directory watcher using fsnotify
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	return &Watcher{
		directories: []string{},
		changes:     make(chan Change, 10),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrap(err, "error accessing directory")
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to add directory %s to watcher", dir)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Changes returns the channel that delivers change events
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins forwarding events. Only creations and writes are forwarded;
// removals and renames are what the sweep itself produces.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
					continue
				}

				change := Change{Path: event.Name, Timestamp: time.Now(), Op: event.Op}

				// Never block the fsnotify reader; one pending change is enough to wake the loop.
				select {
				case w.changes <- change:
				default:
					log.LogWithFields(log.F("file", event.Name)).Debug("Change channel is full, dropped event")
				}

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

			case <-stop:
				return
			}
		}
	}()

	log.Debug("Watcher started")
	return nil
}

// Stop halts the watcher. The Changes channel is left open so a pending
// select on it never sees a spurious zero value.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false

	log.Debug("Watcher stopped")
}

// Close releases a watcher that was never started.
func (w *Watcher) Close() {
	if w.IsRunning() {
		w.Stop()
		return
	}
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
