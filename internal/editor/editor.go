// Package editor defines the boundary between the text-editing surface and
// the rest of the system.
//
// The synchronizer sees the surface only through Adapter: read a snapshot,
// request a replacement, query the cursor. Change and composition
// notifications travel over the event bus, not through this interface.
package editor

// Adapter is the synchronizer's only view of the editing surface.
//
// Replace is the reconciliation path: implementations must NOT publish a
// buffer-changed notification for it, or an externally navigated link
// would trigger a commit that rewrites the link it came from.
type Adapter interface {
	// Text returns a snapshot of the current document text.
	Text() string

	// Cursor returns the current cursor position as a rune offset.
	Cursor() int

	// Replace swaps the entire document content, placing the cursor as
	// near the given rune offset as the new content allows.
	Replace(text string, cursor int)
}
