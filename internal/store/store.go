// Package store holds the durable side of the document: the raw text under
// a fixed key, plus a small non-authoritative session sidecar.
//
// The cache keeps the full uncompressed text; the link token is the only
// compressed representation anywhere in the system.
package store

import (
	"errors"
	"time"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store closed")

// Store is the durable cache for the document text.
//
// Save("") is the explicit-clear case: a later Load still reports ok so a
// deliberately emptied document never resurrects stale content.
type Store interface {
	// Load returns the cached text. ok is false when nothing was ever
	// saved.
	Load() (text string, ok bool, err error)

	// Save overwrites the cached text.
	Save(text string) error

	// Clear records an explicitly empty document.
	Clear() error

	// LoadSession returns the last committed session metadata.
	LoadSession() (SessionInfo, bool, error)

	// SaveSession overwrites the session metadata.
	SaveSession(info SessionInfo) error

	// Close releases the store's resources.
	Close() error
}

// SessionInfo is commit metadata kept alongside the document. It is
// advisory only; losing it is harmless.
type SessionInfo struct {
	// Title is the derived document title at the last commit.
	Title string

	// UpdatedAt is when the last commit finished.
	UpdatedAt time.Time

	// TokenBytes is the compressed payload size of the last commit,
	// zero when the commit cleared the link.
	TokenBytes int
}
