package link

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File is the link sink: it holds the shareable URL in a small file,
// rewritten atomically on every commit.
//
// File remembers the last URL it wrote so the watcher can tell our own
// rewrites apart from external navigation.
type File struct {
	mu          sync.Mutex
	path        string
	base        string
	lastWritten string
}

// NewFile creates a link sink for the given file path and base URL.
func NewFile(path, base string) *File {
	return &File{path: path, base: base}
}

// Path returns the link file path.
func (f *File) Path() string { return f.path }

// SetToken rewrites the link file with the URL for the given token.
func (f *File) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := Compose(f.base, token)
	if err := f.writeLocked(url); err != nil {
		return err
	}
	f.lastWritten = url
	return nil
}

// Clear restores the bare base link with no token.
func (f *File) Clear() error {
	return f.SetToken("")
}

// Token reads the link file and returns its fragment token. A missing
// file means no link yet, reported as an empty token.
func (f *File) Token() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading link file %s: %w", f.path, err)
	}

	_, token := Split(strings.TrimSpace(string(data)))
	return token, nil
}

// WroteSelf reports whether url matches the last URL this sink wrote.
// The watcher uses it to suppress self-write feedback.
func (f *File) WroteSelf(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return url == f.lastWritten
}

// writeLocked writes the URL via a temp file and rename so a watcher never
// observes a half-written link.
func (f *File) writeLocked(url string) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".link-*")
	if err != nil {
		return fmt.Errorf("creating temp link file: %w", err)
	}

	_, werr := tmp.WriteString(url + "\n")
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		if werr != nil {
			return fmt.Errorf("writing link file: %w", werr)
		}
		return fmt.Errorf("writing link file: %w", cerr)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing link file: %w", err)
	}
	return nil
}
