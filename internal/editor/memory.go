package editor

import (
	"sync"

	"github.com/dshills/linkpad/internal/event"
)

// Memory is a thread-safe in-memory Adapter implementation.
//
// It backs the terminal widget and stands alone in tests. Local edits
// (Insert, Backspace, Delete) publish buffer-changed events; Replace and
// cursor movement do not. Composition brackets publish their own topics.
type Memory struct {
	mu     sync.Mutex
	runes  []rune
	cursor int

	composing bool

	bus *event.Bus
}

const sourceName = "editor"

// NewMemory creates an empty buffer. The bus may be nil, in which case no
// notifications are published.
func NewMemory(bus *event.Bus) *Memory {
	return &Memory{bus: bus}
}

// Text returns a snapshot of the buffer content.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.runes)
}

// Cursor returns the cursor position as a rune offset.
func (m *Memory) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// SetCursor moves the cursor, clamped to the buffer bounds.
func (m *Memory) SetCursor(off int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = clamp(off, len(m.runes))
}

// Replace swaps the entire content and clamps the cursor near the given
// offset. No buffer-changed event is published: this is the path used when
// an externally navigated link is reconciled into the buffer.
func (m *Memory) Replace(text string, cursor int) {
	m.mu.Lock()
	m.runes = []rune(text)
	m.cursor = clamp(cursor, len(m.runes))
	m.mu.Unlock()
}

// Insert places text at the cursor and advances it.
func (m *Memory) Insert(text string) {
	if text == "" {
		return
	}

	m.mu.Lock()
	ins := []rune(text)
	rest := append([]rune(nil), m.runes[m.cursor:]...)
	m.runes = append(append(m.runes[:m.cursor], ins...), rest...)
	m.cursor += len(ins)
	m.mu.Unlock()

	m.notifyChanged()
}

// Backspace removes the rune before the cursor, if any.
func (m *Memory) Backspace() {
	m.mu.Lock()
	if m.cursor == 0 {
		m.mu.Unlock()
		return
	}
	m.runes = append(m.runes[:m.cursor-1], m.runes[m.cursor:]...)
	m.cursor--
	m.mu.Unlock()

	m.notifyChanged()
}

// Delete removes the rune at the cursor, if any.
func (m *Memory) Delete() {
	m.mu.Lock()
	if m.cursor >= len(m.runes) {
		m.mu.Unlock()
		return
	}
	m.runes = append(m.runes[:m.cursor], m.runes[m.cursor+1:]...)
	m.mu.Unlock()

	m.notifyChanged()
}

// BeginComposition marks the start of an input-method composition
// sequence. Nested calls are collapsed into one bracket.
func (m *Memory) BeginComposition() {
	m.mu.Lock()
	already := m.composing
	m.composing = true
	m.mu.Unlock()

	if !already {
		m.publish(event.TopicCompositionStarted, nil)
	}
}

// EndComposition marks the end of a composition sequence.
func (m *Memory) EndComposition() {
	m.mu.Lock()
	active := m.composing
	m.composing = false
	m.mu.Unlock()

	if active {
		m.publish(event.TopicCompositionEnded, nil)
	}
}

// Composing reports whether a composition sequence is active.
func (m *Memory) Composing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.composing
}

// Len returns the buffer length in runes.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runes)
}

func (m *Memory) notifyChanged() {
	m.publish(event.TopicBufferChanged, nil)
}

// publish runs without holding the buffer mutex so synchronous handlers
// can read the buffer back.
func (m *Memory) publish(topic event.Topic, payload any) {
	if m.bus != nil {
		m.bus.Publish(event.New(topic, payload, sourceName))
	}
}

func clamp(off, max int) int {
	if off < 0 {
		return 0
	}
	if off > max {
		return max
	}
	return off
}
