package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const appTitle = "pdfqa"

// Header represents the top header bar
type Header struct {
	width    int
	title    string
	username string
	loading  bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetConversationTitle sets the title of the current conversation
func (h *Header) SetConversationTitle(title string) {
	h.title = title
}

// SetUsername sets the logged-in user shown on the right
func (h *Header) SetUsername(name string) {
	h.username = name
}

// SetLoading toggles the loading marker
func (h *Header) SetLoading(loading bool) {
	h.loading = loading
}

// View renders the header
func (h *Header) View() string {
	left := appTitle
	if h.title != "" {
		left += " · " + h.title
	}
	var right string
	if h.loading {
		right = "loading… "
	}
	if h.username != "" {
		right += h.username
	}

	// HeaderStyle pads one column on each side.
	inner := max(h.width-2, 0)
	if runewidth.StringWidth(left)+runewidth.StringWidth(right)+1 > inner {
		left = runewidth.Truncate(left, max(inner-runewidth.StringWidth(right)-1, 0), "…")
	}
	gap := max(inner-runewidth.StringWidth(left)-runewidth.StringWidth(right), 0)

	return HeaderStyle.Width(h.width).Render(left + strings.Repeat(" ", gap) + right)
}
