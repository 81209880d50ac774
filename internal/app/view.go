package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/zhubert/pdfqa/internal/conversation"
	"github.com/zhubert/pdfqa/internal/panels"
	"github.com/zhubert/pdfqa/internal/ui"
)

// updateSizes recalculates and applies dimensions to all UI components
func (m *Model) updateSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	ctx := ui.GetViewContext()
	ctx.Update(m.width, m.height, m.panels.State())

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.LeftWidth, ctx.ContentHeight)
	m.chat.SetSize(ctx.ChatWidth, ctx.ContentHeight)
	m.right.SetSize(ctx.RightWidth, ctx.ContentHeight)
}

// visibleFocuses lists the focus targets shown in the current layout, in
// tab order.
func (m *Model) visibleFocuses() []Focus {
	state := m.panels.State()
	var out []Focus
	if state.LeftOpen {
		out = append(out, FocusSidebar)
	}
	if state.Class == panels.Wide || (!state.LeftOpen && !state.RightOpen) {
		out = append(out, FocusChat)
	}
	if state.RightOpen {
		out = append(out, FocusUpload, FocusFeedback)
	}
	return out
}

// setFocus moves focus and returns the input's focus command.
func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	chatCmd := m.chat.SetFocused(f == FocusChat)

	var rightCmd tea.Cmd
	switch f {
	case FocusFeedback:
		rightCmd = m.right.Focus(ui.FieldFeedback)
	case FocusUpload:
		rightCmd = m.right.Focus(ui.FieldUpload)
	default:
		m.right.Focus(ui.FieldNone)
	}
	m.updateFooterContext()
	return tea.Batch(chatCmd, rightCmd)
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	targets := m.visibleFocuses()
	if len(targets) == 0 {
		return nil
	}
	idx := 0
	for i, f := range targets {
		if f == m.focus {
			idx = (i + step + len(targets)) % len(targets)
			break
		}
	}
	return m.setFocus(targets[idx])
}

// syncFocus moves focus off a panel that was just hidden.
func (m *Model) syncFocus() {
	for _, f := range m.visibleFocuses() {
		if f == m.focus {
			m.updateFooterContext()
			return
		}
	}
	targets := m.visibleFocuses()
	if len(targets) == 0 {
		return
	}
	next := targets[0]
	for _, f := range targets {
		if f == FocusChat {
			next = f
		}
	}
	m.setFocus(next)
}

func (m *Model) updateFooterContext() {
	var ctx ui.FooterContext
	switch m.focus {
	case FocusSidebar:
		ctx = ui.FooterSidebar
	case FocusChat:
		ctx = ui.FooterChat
	case FocusFeedback:
		ctx = ui.FooterFeedback
	case FocusUpload:
		ctx = ui.FooterUpload
	}
	m.footer.SetContext(ctx, m.panels.State().Class == panels.Narrow)
}

// syncViews copies store state into the UI components.
func (m *Model) syncViews() {
	currentID := m.store.CurrentID()

	convs := m.store.Conversations()
	items := make([]ui.SidebarItem, 0, len(convs))
	for _, c := range convs {
		items = append(items, ui.SidebarItem{
			ID:      c.ID,
			Title:   c.Title,
			Pending: m.queue.IsInFlight(c.ID),
			Unread:  m.unread[c.ID],
		})
	}
	m.sidebar.SetItems(items, currentID)

	if cur, ok := m.store.Current(); ok {
		m.chat.SetConversation(cur)
		m.chat.SetWaiting(m.queue.IsInFlight(cur.ID))
		m.header.SetConversationTitle(cur.Title)
	} else {
		m.chat.ClearConversation()
		m.header.SetConversationTitle("")
	}

	doc, ok := m.store.Document()
	m.right.SetDocument(doc, ok)
	m.right.SetUploading(m.uploading)
	m.updateFooterContext()
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	ctx := ui.GetViewContext()
	var columns []string
	if ctx.LeftWidth > 0 {
		columns = append(columns, m.sidebar.View())
	}
	if ctx.ChatWidth > 0 {
		columns = append(columns, m.chat.View())
	}
	if ctx.RightWidth > 0 {
		columns = append(columns, m.right.View())
	}

	v.SetContent(lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		m.footer.View(),
	))
	return v
}

// CurrentConversation returns the conversation on screen, if any.
func (m *Model) CurrentConversation() (conversation.Conversation, bool) {
	return m.store.Current()
}

// Focus returns the focused input.
func (m *Model) Focus() Focus {
	return m.focus
}
