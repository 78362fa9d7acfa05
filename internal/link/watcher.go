package link

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/linkpad/internal/event"
)

// ErrWatcherClosed is returned when starting a watcher that was closed.
var ErrWatcherClosed = errors.New("link watcher closed")

// Watcher observes the link file and publishes link.navigated events for
// changes that did not originate from our own commit.
//
// The parent directory is watched rather than the file itself so atomic
// replace-by-rename (how most editors and our own sink write) is seen.
type Watcher struct {
	file *File
	bus  *event.Bus
	log  *slog.Logger

	fsw *fsnotify.Watcher

	mu        sync.Mutex
	lastToken string
	started   bool
	closed    bool

	closeCh chan struct{}
	doneWg  sync.WaitGroup
}

// NewWatcher creates a watcher for the given link file.
func NewWatcher(file *File, bus *event.Bus, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		file:    file,
		bus:     bus,
		log:     log,
		closeCh: make(chan struct{}),
	}
}

// Start begins watching. The directory containing the link file must
// exist; the file itself may not yet.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.started {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.file.Path())
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Seed the last seen token so startup content is not re-announced.
	if tok, err := w.file.Token(); err == nil {
		w.lastToken = tok
	}

	w.fsw = fsw
	w.started = true
	w.doneWg.Add(1)
	go w.loop()

	return nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	w.mu.Unlock()

	close(w.closeCh)
	if !started {
		return nil
	}

	err := w.fsw.Close()
	w.doneWg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.doneWg.Done()

	target, _ := filepath.Abs(w.file.Path())

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			w.ingest()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("link watcher error", "error", err)
		}
	}
}

// ingest re-reads the link file and publishes navigation if it changed
// externally.
func (w *Watcher) ingest() {
	data, err := os.ReadFile(w.file.Path())
	if err != nil {
		// Transient during rename; the follow-up event re-reads.
		return
	}

	url := strings.TrimSpace(string(data))
	if w.file.WroteSelf(url) {
		// Our own commit landing on disk.
		w.mu.Lock()
		_, w.lastToken = Split(url)
		w.mu.Unlock()
		return
	}

	_, token := Split(url)

	w.mu.Lock()
	if token == w.lastToken {
		w.mu.Unlock()
		return
	}
	w.lastToken = token
	w.mu.Unlock()

	w.log.Debug("link navigated externally", "token_len", len(token))
	w.bus.Publish(event.New(event.TopicLinkNavigated, Navigation{Token: token}, "link"))
}
