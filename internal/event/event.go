// Package event provides the in-process notification bus that connects the
// editing surface, the link watcher, and the document synchronizer.
//
// Topics use dot-notation namespaces. Content-sync topics (buffer.*,
// composition.*, link.*) and presentation topics (doc.*) are kept separate
// so redraw concerns never ride the sync stream.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a hierarchical event type in dot notation.
type Topic string

// Topics published in this system.
const (
	// TopicBufferChanged fires after a local edit mutated the buffer.
	// Reconciliation replacements do not publish it.
	TopicBufferChanged Topic = "buffer.changed"

	// TopicCompositionStarted and TopicCompositionEnded bracket an
	// input-method composition sequence.
	TopicCompositionStarted Topic = "composition.started"
	TopicCompositionEnded   Topic = "composition.ended"

	// TopicLinkNavigated fires when the shareable link changed for a
	// reason other than our own commit.
	TopicLinkNavigated Topic = "link.navigated"

	// TopicDocCommitted fires after a commit cycle wrote both sinks.
	TopicDocCommitted Topic = "doc.committed"

	// TopicDocTitle carries the freshly derived document title.
	TopicDocTitle Topic = "doc.title"
)

// Event is a single notification. Events are immutable once created.
type Event struct {
	Topic    Topic
	Payload  any
	Metadata Metadata
}

// Metadata is standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// New creates an event with fresh metadata.
func New(topic Topic, payload any, source string) Event {
	return Event{
		Topic:   topic,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}
