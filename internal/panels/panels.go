// Package panels decides which side panels are visible.
//
// On a wide terminal both the conversation list (left) and the feedback
// panel (right) are shown. On a narrow one they start closed, at most one
// is open at a time, and actions that finish a panel's job close it again.
package panels

import (
	"log/slog"
	"sync"

	"github.com/zhubert/pdfqa/internal/logger"
)

// DefaultBreakpoint is the width, in columns, below which the layout is narrow.
const DefaultBreakpoint = 100

// ViewportClass is the coarse layout class derived from width.
type ViewportClass int

const (
	Wide ViewportClass = iota
	Narrow
)

func (c ViewportClass) String() string {
	if c == Narrow {
		return "narrow"
	}
	return "wide"
}

// PanelState is a snapshot of panel visibility.
type PanelState struct {
	Class     ViewportClass
	LeftOpen  bool
	RightOpen bool
}

// ViewportObserver reports the current width and notifies on changes.
type ViewportObserver interface {
	Width() int
	Subscribe(fn func(width int)) (unsubscribe func())
}

// Controller owns panel visibility.
type Controller struct {
	mu          sync.Mutex
	breakpoint  int
	state       PanelState
	listeners   []func(PanelState)
	unsubscribe func()
}

// New creates a controller whose initial state follows observer's width,
// and keeps it in sync with later width changes until Close.
func New(observer ViewportObserver, breakpoint int) *Controller {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	c := &Controller{breakpoint: breakpoint}
	c.state = stateFor(c.classify(observer.Width()))
	c.unsubscribe = observer.Subscribe(c.resize)

	log().Debug("panels initialized",
		"width", observer.Width(), "breakpoint", breakpoint, "class", c.state.Class.String())
	return c
}

func log() *slog.Logger { return logger.ComponentLogger("panels") }

func stateFor(class ViewportClass) PanelState {
	open := class == Wide
	return PanelState{Class: class, LeftOpen: open, RightOpen: open}
}

func (c *Controller) classify(width int) ViewportClass {
	if width < c.breakpoint {
		return Narrow
	}
	return Wide
}

// resize handles a width change. Only a class change alters panels.
func (c *Controller) resize(width int) {
	c.mu.Lock()
	class := c.classify(width)
	if class == c.state.Class {
		c.mu.Unlock()
		return
	}
	c.state = stateFor(class)
	log().Debug("viewport class changed", "width", width, "class", class.String())
	c.notifyLocked()
}

// ToggleLeft flips the conversation list. Has no effect on a wide layout.
func (c *Controller) ToggleLeft() {
	c.mu.Lock()
	if c.state.Class != Narrow {
		c.mu.Unlock()
		return
	}
	c.state.LeftOpen = !c.state.LeftOpen
	if c.state.LeftOpen {
		c.state.RightOpen = false
	}
	c.notifyLocked()
}

// ToggleRight flips the feedback panel. Has no effect on a wide layout.
func (c *Controller) ToggleRight() {
	c.mu.Lock()
	if c.state.Class != Narrow {
		c.mu.Unlock()
		return
	}
	c.state.RightOpen = !c.state.RightOpen
	if c.state.RightOpen {
		c.state.LeftOpen = false
	}
	c.notifyLocked()
}

// ConversationChosen is called after a conversation is selected or a new
// chat started.
func (c *Controller) ConversationChosen() { c.closeOnNarrow(true, false) }

// FeedbackSubmitted is called after feedback is accepted by the backend.
func (c *Controller) FeedbackSubmitted() { c.closeOnNarrow(false, true) }

// DocumentUploaded is called after a document upload succeeds.
func (c *Controller) DocumentUploaded() { c.closeOnNarrow(false, true) }

func (c *Controller) closeOnNarrow(left, right bool) {
	c.mu.Lock()
	if c.state.Class != Narrow {
		c.mu.Unlock()
		return
	}
	next := c.state
	if left {
		next.LeftOpen = false
	}
	if right {
		next.RightOpen = false
	}
	if next == c.state {
		c.mu.Unlock()
		return
	}
	c.state = next
	c.notifyLocked()
}

// State returns the current visibility.
func (c *Controller) State() PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers fn to be called after every visibility change.
func (c *Controller) OnChange(fn func(PanelState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// notifyLocked releases mu and calls listeners with the new state.
func (c *Controller) notifyLocked() {
	state := c.state
	listeners := append([]func(PanelState){}, c.listeners...)
	c.mu.Unlock()

	log().Debug("panels changed", "left", state.LeftOpen, "right", state.RightOpen)
	for _, fn := range listeners {
		fn(state)
	}
}

// Close stops following viewport changes.
func (c *Controller) Close() {
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
