// Package app wires the linkpad components together: config, cache, link
// file, event bus, synchronizer, and the terminal widget.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dshills/linkpad/internal/compress"
	"github.com/dshills/linkpad/internal/config"
	"github.com/dshills/linkpad/internal/docsync"
	"github.com/dshills/linkpad/internal/editor"
	"github.com/dshills/linkpad/internal/editor/term"
	"github.com/dshills/linkpad/internal/event"
	"github.com/dshills/linkpad/internal/link"
	"github.com/dshills/linkpad/internal/store"
)

// Options are the command-line overrides applied on top of the config
// file.
type Options struct {
	ConfigPath string
	LinkPath   string
	CachePath  string
	LogLevel   string
}

// App owns the component graph for one running linkpad instance.
type App struct {
	cfg config.Config
	log *slog.Logger

	logFile *os.File
	bus     *event.Bus
	store   store.Store
	file    *link.File
	watcher *link.Watcher
	buf     *editor.Memory
	syncer  *docsync.Synchronizer

	mu     sync.Mutex
	widget *term.Widget

	shutdownOnce sync.Once
}

// New builds the application headlessly: everything except the terminal
// widget, which Run creates. The startup document is resolved here, link
// token first, then cache, then the built-in default.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LinkPath != "" {
		cfg.LinkPath = opts.LinkPath
	}
	if opts.CachePath != "" {
		cfg.CachePath = opts.CachePath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg}
	if err := a.initLogger(); err != nil {
		return nil, err
	}

	a.bus = event.NewBus(event.WithPanicHandler(func(ev event.Event, recovered any) {
		a.log.Error("event handler panic", "topic", ev.Topic, "panic", recovered)
	}))

	st, err := store.OpenBolt(cfg.CachePath)
	if err != nil {
		a.closePartial()
		return nil, err
	}
	a.store = st

	a.file = link.NewFile(cfg.LinkPath, cfg.BaseURL)
	codec := compress.NewDeflate()

	startToken, err := a.file.Token()
	if err != nil {
		a.log.Warn("link file unreadable at startup", "error", err)
		startToken = ""
	}
	text, src := docsync.Resolve(startToken, st, codec, cfg.DefaultText, a.log)
	a.log.Info("document resolved", "source", src.String(), "bytes", len(text))

	a.buf = editor.NewMemory(a.bus)
	a.buf.Replace(text, 0)

	a.syncer = docsync.New(a.buf, st, a.file, codec, a.bus,
		docsync.WithDelay(cfg.Delay()),
		docsync.WithTitleBudget(cfg.TitleBudget),
		docsync.WithLogger(a.log),
	)
	a.syncer.Start()

	a.watcher = link.NewWatcher(a.file, a.bus, a.log)
	if err := a.watcher.Start(); err != nil {
		a.closePartial()
		return nil, err
	}

	return a, nil
}

// Text returns the current document text.
func (a *App) Text() string { return a.buf.Text() }

// Run creates the terminal widget and drives it until quit. The widget
// releases the terminal on every exit path, so a fault escaping the loop
// reaches main with the screen already sane.
func (a *App) Run() error {
	widget, err := term.New(a.buf, a.bus)
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}

	a.mu.Lock()
	a.widget = widget
	a.mu.Unlock()

	// Seed the title bar before the first keystroke.
	a.bus.Publish(event.New(event.TopicDocTitle,
		docsync.Title(a.buf.Text(), a.cfg.TitleBudget), "app"))

	return widget.Run()
}

// Shutdown flushes pending work and releases every resource. Safe to call
// more than once and from a signal handler.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.mu.Lock()
		widget := a.widget
		a.mu.Unlock()
		if widget != nil {
			widget.Stop()
		}

		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				a.log.Warn("closing link watcher", "error", err)
			}
		}
		if a.syncer != nil {
			a.syncer.Flush()
			a.syncer.Stop()
		}
		if a.store != nil {
			if err := a.store.Close(); err != nil {
				a.log.Warn("closing cache", "error", err)
			}
		}
		a.log.Info("shutdown complete")
		if a.logFile != nil {
			a.logFile.Close()
		}
	})
}

// initLogger builds the slog logger. The terminal belongs to the widget,
// so logs go to a file or nowhere.
func (a *App) initLogger() error {
	var w io.Writer = io.Discard
	if a.cfg.LogPath != "" {
		f, err := os.OpenFile(a.cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", a.cfg.LogPath, err)
		}
		a.logFile = f
		w = f
	}

	var level slog.Level
	switch a.cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	a.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

// closePartial tears down whatever New managed to build before failing.
func (a *App) closePartial() {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
