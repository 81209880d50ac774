package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zhubert/pdfqa/internal/conversation"
	"github.com/zhubert/pdfqa/internal/keys"
)

const newConversationLabel = "+ New Conversation"

// SidebarItem is one conversation row.
type SidebarItem struct {
	ID      conversation.ID
	Title   string
	Pending bool // a question is awaiting its answer
	Unread  bool // an answer arrived while another conversation was open
}

// Sidebar represents the left panel with the conversation list. Row 0 is
// the new-conversation action; conversations follow.
type Sidebar struct {
	items        []SidebarItem
	current      conversation.ID
	selectedIdx  int
	width        int
	height       int
	focused      bool
	scrollOffset int
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetItems replaces the list. The cursor stays on the same conversation
// when it is still listed, otherwise it moves to the current one.
func (s *Sidebar) SetItems(items []SidebarItem, current conversation.ID) {
	var selected conversation.ID
	if s.selectedIdx > 0 && s.selectedIdx <= len(s.items) {
		selected = s.items[s.selectedIdx-1].ID
	}

	s.items = items
	s.current = current

	s.selectedIdx = 0
	for i, it := range items {
		if !selected.IsZero() && it.ID == selected {
			s.selectedIdx = i + 1
			return
		}
	}
	for i, it := range items {
		if !current.IsZero() && it.ID == current {
			s.selectedIdx = i + 1
			return
		}
	}
}

// Items returns the listed conversations.
func (s *Sidebar) Items() []SidebarItem {
	return s.items
}

// IsNewConversationSelected reports whether the cursor is on the new
// conversation row.
func (s *Sidebar) IsNewConversationSelected() bool {
	return s.selectedIdx == 0
}

// SelectedID returns the conversation under the cursor, if any.
func (s *Sidebar) SelectedID() (conversation.ID, bool) {
	if s.selectedIdx == 0 || s.selectedIdx > len(s.items) {
		return conversation.ID{}, false
	}
	return s.items[s.selectedIdx-1].ID, true
}

// Update handles cursor movement
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case keys.Up, "k":
			if s.selectedIdx > 0 {
				s.selectedIdx--
			}
		case keys.Down, "j":
			if s.selectedIdx < len(s.items) {
				s.selectedIdx++
			}
		}
	}
	return s, nil
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)
	visibleHeight := max(innerHeight-1, 1) // title line

	lines := []string{s.renderRow(0, newConversationLabel, SidebarActionStyle, innerWidth)}
	for i, it := range s.items {
		lines = append(lines, s.renderRow(i+1, s.label(it, innerWidth), s.rowStyle(it), innerWidth))
	}
	if len(s.items) == 0 {
		lines = append(lines, PlaceholderStyle.Render(" No conversations yet."))
	}

	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	} else if s.selectedIdx >= s.scrollOffset+visibleHeight {
		s.scrollOffset = s.selectedIdx - visibleHeight + 1
	}
	s.scrollOffset = min(max(s.scrollOffset, 0), max(len(lines)-visibleHeight, 0))
	lines = lines[s.scrollOffset:]
	if len(lines) > visibleHeight {
		lines = lines[:visibleHeight]
	}

	title := PanelTitleStyle.Render("Conversations")
	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))
	return style.Width(s.width).Height(s.height).Render(content)
}

func (s *Sidebar) rowStyle(it SidebarItem) lipgloss.Style {
	if it.ID == s.current {
		return SidebarCurrentStyle
	}
	return SidebarItemStyle
}

func (s *Sidebar) renderRow(idx int, text string, base lipgloss.Style, width int) string {
	if idx == s.selectedIdx && s.focused {
		return SidebarSelectedStyle.Width(width).Render("> " + text)
	}
	return base.Width(width).Render("  " + text)
}

// label renders a title with its status marker, truncated to fit.
func (s *Sidebar) label(it SidebarItem, width int) string {
	marker := ""
	switch {
	case it.Pending:
		marker = " ◌"
	case it.Unread:
		marker = " ●"
	}
	// Two columns of row padding, two for the cursor prefix.
	avail := max(width-4-runewidth.StringWidth(marker), 1)
	return runewidth.Truncate(it.Title, avail, "…") + marker
}
