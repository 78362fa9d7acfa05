package editor

import (
	"testing"

	"github.com/dshills/linkpad/internal/event"
)

func TestMemory_InsertAndText(t *testing.T) {
	m := NewMemory(nil)

	m.Insert("hello")
	m.Insert(" world")

	if got := m.Text(); got != "hello world" {
		t.Errorf("Text = %q, want %q", got, "hello world")
	}
	if got := m.Cursor(); got != 11 {
		t.Errorf("Cursor = %d, want 11", got)
	}
}

func TestMemory_InsertAtCursor(t *testing.T) {
	m := NewMemory(nil)

	m.Insert("hd")
	m.SetCursor(1)
	m.Insert("ol")

	if got := m.Text(); got != "hold" {
		t.Errorf("Text = %q, want %q", got, "hold")
	}
	if got := m.Cursor(); got != 3 {
		t.Errorf("Cursor = %d, want 3", got)
	}
}

func TestMemory_Backspace(t *testing.T) {
	m := NewMemory(nil)

	m.Insert("abc")
	m.Backspace()

	if got := m.Text(); got != "ab" {
		t.Errorf("Text = %q, want %q", got, "ab")
	}

	// Backspace at start of buffer is a no-op.
	m.SetCursor(0)
	m.Backspace()
	if got := m.Text(); got != "ab" {
		t.Errorf("Text = %q, want %q", got, "ab")
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory(nil)

	m.Insert("abc")
	m.SetCursor(1)
	m.Delete()

	if got := m.Text(); got != "ac" {
		t.Errorf("Text = %q, want %q", got, "ac")
	}

	// Delete at end of buffer is a no-op.
	m.SetCursor(2)
	m.Delete()
	if got := m.Text(); got != "ac" {
		t.Errorf("Text = %q, want %q", got, "ac")
	}
}

func TestMemory_UnicodeCursorOffsets(t *testing.T) {
	m := NewMemory(nil)

	m.Insert("日本語")
	if got := m.Cursor(); got != 3 {
		t.Errorf("Cursor = %d, want 3 (rune offsets, not bytes)", got)
	}

	m.SetCursor(1)
	m.Insert("x")
	if got := m.Text(); got != "日x本語" {
		t.Errorf("Text = %q, want %q", got, "日x本語")
	}
}

func TestMemory_ReplaceClampsCursor(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		wantCursor int
	}{
		{"within bounds", "hello", 3, 3},
		{"past end", "hi", 10, 2},
		{"negative", "hi", -4, 0},
		{"empty content", "", 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(nil)
			m.Replace(tt.text, tt.cursor)

			if got := m.Text(); got != tt.text {
				t.Errorf("Text = %q, want %q", got, tt.text)
			}
			if got := m.Cursor(); got != tt.wantCursor {
				t.Errorf("Cursor = %d, want %d", got, tt.wantCursor)
			}
		})
	}
}

func TestMemory_EditsPublishChanged(t *testing.T) {
	bus := event.NewBus()
	var changed int
	bus.Subscribe(event.TopicBufferChanged, func(event.Event) { changed++ })

	m := NewMemory(bus)
	m.Insert("ab") // 1
	m.Backspace()  // 2
	m.SetCursor(0)
	m.Delete() // 3

	if changed != 3 {
		t.Errorf("buffer.changed published %d times, want 3", changed)
	}
}

func TestMemory_ReplaceDoesNotPublishChanged(t *testing.T) {
	bus := event.NewBus()
	var changed int
	bus.Subscribe(event.TopicBufferChanged, func(event.Event) { changed++ })

	m := NewMemory(bus)
	m.Replace("reconciled content", 0)

	if changed != 0 {
		t.Errorf("Replace published buffer.changed %d times, want 0", changed)
	}
}

func TestMemory_NoopEditsDoNotPublish(t *testing.T) {
	bus := event.NewBus()
	var changed int
	bus.Subscribe(event.TopicBufferChanged, func(event.Event) { changed++ })

	m := NewMemory(bus)
	m.Backspace()
	m.Delete()
	m.Insert("")

	if changed != 0 {
		t.Errorf("no-op edits published %d events, want 0", changed)
	}
}

func TestMemory_CompositionBrackets(t *testing.T) {
	bus := event.NewBus()
	var started, ended int
	bus.Subscribe(event.TopicCompositionStarted, func(event.Event) { started++ })
	bus.Subscribe(event.TopicCompositionEnded, func(event.Event) { ended++ })

	m := NewMemory(bus)

	m.BeginComposition()
	m.BeginComposition() // nested start collapses
	if !m.Composing() {
		t.Error("Composing = false, want true")
	}

	m.EndComposition()
	m.EndComposition() // redundant end is a no-op
	if m.Composing() {
		t.Error("Composing = true, want false")
	}

	if started != 1 {
		t.Errorf("composition.started published %d times, want 1", started)
	}
	if ended != 1 {
		t.Errorf("composition.ended published %d times, want 1", ended)
	}
}
