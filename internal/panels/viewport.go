package panels

import "sync"

// TerminalViewport is a ViewportObserver fed by the UI loop. The app
// calls SetWidth for every tea.WindowSizeMsg.
type TerminalViewport struct {
	mu     sync.Mutex
	width  int
	nextID int
	subs   map[int]func(int)
}

// NewTerminalViewport creates a viewport with an initial width.
func NewTerminalViewport(width int) *TerminalViewport {
	return &TerminalViewport{width: width, subs: make(map[int]func(int))}
}

// Width returns the last reported width.
func (v *TerminalViewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Subscribe registers fn for width changes.
func (v *TerminalViewport) Subscribe(fn func(width int)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}

// SetWidth records a new width and notifies subscribers if it changed.
func (v *TerminalViewport) SetWidth(width int) {
	v.mu.Lock()
	if width == v.width {
		v.mu.Unlock()
		return
	}
	v.width = width
	subs := make([]func(int), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(width)
	}
}
