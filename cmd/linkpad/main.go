// Package main is the entry point for linkpad, a serverless notepad whose
// document lives in a shareable link and a local cache.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/linkpad/internal/app"
	"github.com/dshills/linkpad/internal/editor/term"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	// The last-resort banner: nothing inside the sync subsystem should
	// ever reach it, but a fault elsewhere must not die silently after
	// the terminal is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Error: unexpected fault: %v\n", r)
			code = 1
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, term.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LinkPath, "link", "", "Path to the shareable link file")
	flag.StringVar(&opts.CachePath, "cache", "", "Path to the cache database")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "linkpad - a notepad that lives in a link\n\n")
		fmt.Fprintf(os.Stderr, "Usage: linkpad [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  linkpad                       Open with defaults\n")
		fmt.Fprintf(os.Stderr, "  linkpad -link ~/doc.link      Use a specific link file\n")
		fmt.Fprintf(os.Stderr, "  linkpad -c linkpad.toml       Use a configuration file\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("linkpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	return opts
}
