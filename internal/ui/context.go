package ui

import (
	"sync"

	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/panels"
)

// ViewContext holds the layout calculations shared by all panels.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	ContentHeight int
	LeftWidth     int // zero when the conversation list is hidden
	ChatWidth     int // zero when a narrow side panel covers the chat
	RightWidth    int // zero when the feedback panel is hidden

	mu sync.Mutex
}

var ctx *ViewContext
var ctxOnce sync.Once

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{}
	})
	return ctx
}

// Update recalculates panel widths for a terminal size and panel state.
// On a wide layout open side panels take a quarter of the width each; on
// a narrow one an open side panel takes the whole content area.
func (v *ViewContext) Update(width, height int, state panels.PanelState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.ContentHeight = height - HeaderHeight - FooterHeight
	v.LeftWidth, v.ChatWidth, v.RightWidth = 0, width, 0

	switch {
	case state.Class == panels.Narrow && state.LeftOpen:
		v.LeftWidth, v.ChatWidth = width, 0
	case state.Class == panels.Narrow && state.RightOpen:
		v.RightWidth, v.ChatWidth = width, 0
	case state.Class == panels.Wide:
		side := max(width/SidePanelWidthRatio, MinSidePanelWidth)
		if state.LeftOpen {
			v.LeftWidth = side
		}
		if state.RightOpen {
			v.RightWidth = side
		}
		v.ChatWidth = max(width-v.LeftWidth-v.RightWidth, 0)
	}

	logger.ComponentLogger("ui").Debug("layout updated",
		"width", width,
		"height", height,
		"left", v.LeftWidth,
		"chat", v.ChatWidth,
		"right", v.RightWidth,
	)
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return max(panelWidth-BorderSize, 0)
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return max(panelHeight-BorderSize, 0)
}
