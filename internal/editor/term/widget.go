// Package term is the terminal editing surface.
//
// It is deliberately small: rune input, backspace, delete, newline, arrow
// movement, and a title bar. The synchronizer never sees this package; it
// works against the editor.Adapter boundary only.
package term

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/linkpad/internal/editor"
	"github.com/dshills/linkpad/internal/event"
)

// ErrQuit is returned by Run when the user quits.
var ErrQuit = errors.New("quit")

// Widget renders a Memory buffer on a tcell screen and feeds key input
// into it.
type Widget struct {
	screen tcell.Screen
	buf    *editor.Memory
	bus    *event.Bus

	mu     sync.Mutex
	title  string
	status string

	subs []*event.Subscription
}

// refreshEvent asks the event loop to redraw after a bus notification.
type refreshEvent struct {
	when time.Time
}

func (e refreshEvent) When() time.Time { return e.when }

// New creates a widget over the given buffer. The screen is initialized
// here and released by Run on exit.
func New(buf *editor.Memory, bus *event.Bus) (*Widget, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, buf, bus)
}

// NewWithScreen builds the widget over a caller-supplied screen. Tests use
// tcell's simulation screen here.
func NewWithScreen(screen tcell.Screen, buf *editor.Memory, bus *event.Bus) (*Widget, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()

	w := &Widget{
		screen: screen,
		buf:    buf,
		bus:    bus,
		status: "synced",
	}
	w.subscribe()
	return w, nil
}

func (w *Widget) subscribe() {
	w.subs = []*event.Subscription{
		w.bus.Subscribe(event.TopicDocTitle, func(ev event.Event) {
			if title, ok := ev.Payload.(string); ok {
				w.setTitle(title)
			}
		}),
		w.bus.Subscribe(event.TopicDocCommitted, func(event.Event) {
			w.setStatus("synced")
		}),
		w.bus.Subscribe(event.TopicBufferChanged, func(event.Event) {
			w.setStatus("editing")
		}),
	}
}

func (w *Widget) setTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
	w.refresh()
}

func (w *Widget) setStatus(status string) {
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
	w.refresh()
}

// refresh wakes the event loop. Posting can race with Fini; a dead screen
// just drops the event.
func (w *Widget) refresh() {
	_ = w.screen.PostEvent(refreshEvent{when: time.Now()})
}

// Stop asks the event loop to exit.
func (w *Widget) Stop() {
	_ = w.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run drives the edit loop until quit. It always releases the terminal.
func (w *Widget) Run() error {
	defer w.screen.Fini()
	defer func() {
		for _, sub := range w.subs {
			w.bus.Unsubscribe(sub)
		}
	}()

	w.draw()

	for {
		ev := w.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch tev := ev.(type) {
		case *tcell.EventInterrupt:
			return nil
		case *tcell.EventResize:
			w.screen.Sync()
		case *tcell.EventPaste:
			// Bracketed paste is treated like composition: one
			// atomic burst, one sync.
			if tev.Start() {
				w.buf.BeginComposition()
			} else {
				w.buf.EndComposition()
			}
		case *tcell.EventKey:
			if quit := w.handleKey(tev); quit {
				return ErrQuit
			}
		case refreshEvent:
			// Redraw below.
		}

		w.draw()
	}
}

func (w *Widget) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		w.buf.Insert("\n")
	case tcell.KeyTab:
		w.buf.Insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		w.buf.Backspace()
	case tcell.KeyDelete:
		w.buf.Delete()
	case tcell.KeyLeft:
		w.buf.SetCursor(w.buf.Cursor() - 1)
	case tcell.KeyRight:
		w.buf.SetCursor(w.buf.Cursor() + 1)
	case tcell.KeyUp:
		w.moveLine(-1)
	case tcell.KeyDown:
		w.moveLine(1)
	case tcell.KeyHome:
		w.cursorToLineEdge(true)
	case tcell.KeyEnd:
		w.cursorToLineEdge(false)
	case tcell.KeyRune:
		w.buf.Insert(string(ev.Rune()))
	}
	return false
}

// moveLine moves the cursor up or down one line, keeping the column where
// the shorter target line allows.
func (w *Widget) moveLine(delta int) {
	text := []rune(w.buf.Text())
	cur := w.buf.Cursor()

	line, col := locate(text, cur)
	target := line + delta
	if target < 0 {
		return
	}

	starts := lineStarts(text)
	if target >= len(starts) {
		return
	}

	end := len(text)
	if target+1 < len(starts) {
		end = starts[target+1] - 1 // before the newline
	}

	off := starts[target] + col
	if off > end {
		off = end
	}
	w.buf.SetCursor(off)
}

func (w *Widget) cursorToLineEdge(home bool) {
	text := []rune(w.buf.Text())
	cur := w.buf.Cursor()

	line, _ := locate(text, cur)
	starts := lineStarts(text)

	if home {
		w.buf.SetCursor(starts[line])
		return
	}
	end := len(text)
	if line+1 < len(starts) {
		end = starts[line+1] - 1
	}
	w.buf.SetCursor(end)
}

// locate returns the line index and column of a rune offset.
func locate(text []rune, off int) (line, col int) {
	for i := 0; i < off && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// lineStarts returns the rune offset of each line start.
func lineStarts(text []rune) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Reverse(true).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

func (w *Widget) draw() {
	w.mu.Lock()
	title := w.title
	status := w.status
	w.mu.Unlock()

	width, height := w.screen.Size()
	if width == 0 || height == 0 {
		return
	}

	w.screen.Clear()

	drawLine(w.screen, 0, width, " "+title, styleTitle)
	if height > 1 {
		drawLine(w.screen, height-1, width, " linkpad · "+status+" · ctrl+q quits", styleStatus)
	}

	// Text area between title and status rows, no wrapping.
	text := w.buf.Text()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		y := i + 1
		if y >= height-1 {
			break
		}
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			w.screen.SetContent(x, y, r, nil, styleDefault)
			x++
		}
	}

	cline, ccol := locate([]rune(text), w.buf.Cursor())
	if cline+1 < height-1 && ccol < width {
		w.screen.ShowCursor(ccol, cline+1)
	} else {
		w.screen.HideCursor()
	}

	w.screen.Show()
}

func drawLine(s tcell.Screen, y, width int, text string, style tcell.Style) {
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
