package ui

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FooterContext selects which bindings are shown.
type FooterContext int

const (
	FooterSidebar FooterContext = iota
	FooterChat
	FooterFeedback
	FooterUpload
)

// Footer represents the bottom footer bar with keybindings and flash messages
type Footer struct {
	width   int
	context FooterContext
	narrow  bool
	flash   *Flash
	now     func() time.Time
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{now: time.Now}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(ctx FooterContext, narrow bool) {
	f.context = ctx
	f.narrow = narrow
}

// SetFlash shows text until FlashDuration has passed or it is replaced.
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.flash = &Flash{Text: text, Type: flashType, ExpiresAt: f.now().Add(FlashDuration)}
}

// ClearFlash removes any flash message.
func (f *Footer) ClearFlash() {
	f.flash = nil
}

// HasFlash reports whether a flash message is showing.
func (f *Footer) HasFlash() bool {
	return f.flash != nil
}

// Flash returns the current flash message, if any.
func (f *Footer) Flash() (Flash, bool) {
	if f.flash == nil {
		return Flash{}, false
	}
	return *f.flash, true
}

// ClearIfExpired drops the flash once it has expired and reports whether
// one is still showing.
func (f *Footer) ClearIfExpired() bool {
	if f.flash != nil && !f.now().Before(f.flash.ExpiresAt) {
		f.flash = nil
	}
	return f.flash != nil
}

// Bindings returns the bindings for the current context.
func (f *Footer) Bindings() []KeyBinding {
	var bindings []KeyBinding
	switch f.context {
	case FooterSidebar:
		bindings = []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+n", Desc: "new chat"},
			{Key: "ctrl+r", Desc: "refresh"},
		}
	case FooterChat:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "ask"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "ctrl+y", Desc: "copy answer"},
			{Key: "ctrl+n", Desc: "new chat"},
		}
	case FooterFeedback:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send feedback"},
			{Key: "ctrl+u", Desc: "upload"},
		}
	case FooterUpload:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "upload pdf"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	bindings = append(bindings, KeyBinding{Key: "tab", Desc: "switch pane"})
	if f.narrow {
		bindings = append(bindings,
			KeyBinding{Key: "ctrl+b", Desc: "conversations"},
			KeyBinding{Key: "ctrl+f", Desc: "feedback"},
		)
	}
	return append(bindings, KeyBinding{Key: "ctrl+c", Desc: "quit"})
}

// View renders the footer
func (f *Footer) View() string {
	if f.flash != nil {
		style, ok := flashStyles[f.flash.Type]
		if !ok {
			style = FooterStyle
		}
		return style.Width(f.width).Render(f.flash.Text)
	}

	var parts []string
	for _, b := range f.Bindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}
	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
