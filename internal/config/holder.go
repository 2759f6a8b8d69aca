package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/chabad360/go-oscaddr/internal/metrics"
	"github.com/chabad360/go-oscaddr/oscaddr"
)

// Holder provides thread-safe access to the dispatcher built from a route
// declaration file, with hot reload support. A reload builds a complete new
// table and publishes it with a single pointer swap, so readers always see
// either the old or the new table.
type Holder struct {
	current atomic.Pointer[oscaddr.Dispatcher]
	path    string
	logger  zerolog.Logger
	metrics *metrics.Collector
	opts    []oscaddr.Option

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	onChange []func(*oscaddr.Dispatcher)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder loads the declaration file at path and builds the initial
// dispatcher. m may be nil; when set it observes every dispatch.
func NewHolder(path string, logger zerolog.Logger, m *metrics.Collector) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	h := &Holder{
		path:    absPath,
		logger:  logger,
		metrics: m,
		opts:    []oscaddr.Option{oscaddr.WithLogger(logger)},
		stopCh:  make(chan struct{}),
	}
	if m != nil {
		h.opts = append(h.opts, oscaddr.WithObserver(m))
	}

	d, err := h.load()
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	h.current.Store(d)
	if m != nil {
		m.TableLoaded(d.Table().Len(), false)
	}

	return h, nil
}

func (h *Holder) load() (*oscaddr.Dispatcher, error) {
	decls, err := oscaddr.LoadDeclarations(h.path)
	if err != nil {
		return nil, err
	}
	t, err := oscaddr.NewTable(decls...)
	if err != nil {
		return nil, err
	}
	return oscaddr.NewDispatcher(t, h.opts...), nil
}

// Path returns the absolute path of the declaration file.
func (h *Holder) Path() string { return h.path }

// Get returns the current dispatcher.
func (h *Holder) Get() *oscaddr.Dispatcher {
	return h.current.Load()
}

// Reload rebuilds the table from disk.
// Returns error if loading fails (keeps old table).
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading routes")

	d, err := h.load()
	if err != nil {
		if h.metrics != nil {
			h.metrics.TableLoadFailed()
		}
		h.logger.Error().Err(err).Msg("route reload failed, keeping old table")
		return fmt.Errorf("reload routes: %w", err)
	}

	old := h.current.Swap(d)
	if old.Table().Len() != d.Table().Len() {
		h.logger.Info().
			Int("old", old.Table().Len()).
			Int("new", d.Table().Len()).
			Msg("route count changed")
	}
	if h.metrics != nil {
		h.metrics.TableLoaded(d.Table().Len(), true)
	}

	h.mu.Lock()
	callbacks := make([]func(*oscaddr.Dispatcher), len(h.onChange))
	copy(callbacks, h.onChange)
	h.mu.Unlock()
	for _, fn := range callbacks {
		fn(d)
	}

	h.logger.Info().Msg("routes reloaded successfully")
	return nil
}

// OnChange registers a callback to be called after a successful reload.
func (h *Holder) OnChange(fn func(*oscaddr.Dispatcher)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile starts watching the declaration file for changes.
// Changes trigger automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	h.mu.Lock()
	h.watcher = watcher
	h.mu.Unlock()

	go h.watchLoop(watcher)

	h.logger.Info().Str("path", h.path).Msg("watching route file for changes")
	return nil
}

// Stop stops watching for file changes.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(watcher *fsnotify.Watcher) {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("route file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
