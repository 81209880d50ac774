package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/pdfqa/internal/keys"
	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/panels"
	"github.com/zhubert/pdfqa/internal/ui"
)

// Update handles messages. Backend results are applied here, on the UI
// loop, so the store only ever changes between renders.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// May change the viewport class; the panels listener re-lays out.
		m.viewport.SetWidth(msg.Width)
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		if handled, cmd := m.handleKeyPress(msg); handled {
			return m, cmd
		}
		return m, m.forwardToFocused(msg)

	case ConversationsLoadedMsg:
		return m.handleConversationsLoaded(msg)

	case AnswerMsg:
		return m.handleAnswer(msg)

	case FeedbackSentMsg:
		return m.handleFeedbackSent(msg)

	case DocumentUploadedMsg:
		return m.handleDocumentUploaded(msg)

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() && m.flashTick != nil {
			return m, m.flashTick()
		}
		return m, nil

	case ui.StopwatchTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		m.stopwatchRunning = cmd != nil
		return m, cmd
	}

	return m, m.forwardToFocused(msg)
}

// forwardToFocused passes a message to the focused component.
func (m *Model) forwardToFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case FocusSidebar:
		m.sidebar, cmd = m.sidebar.Update(msg)
	case FocusChat:
		m.chat, cmd = m.chat.Update(msg)
	case FocusFeedback, FocusUpload:
		m.right, cmd = m.right.Update(msg)
	}
	return cmd
}

// ensureStopwatch starts the waiting stopwatch if the chat is waiting and
// no tick is scheduled.
func (m *Model) ensureStopwatch() tea.Cmd {
	if !m.chat.IsWaiting() || m.stopwatchRunning || m.stopwatchTick == nil {
		return nil
	}
	m.stopwatchRunning = true
	return m.stopwatchTick()
}

// handleKeyPress handles global shortcuts and enter/esc per focus. It
// reports false for keys the focused component should receive.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	key := msg.String()
	logger.ComponentLogger("app").Debug("key", "key", key, "focus", m.focus.String())

	switch key {
	case keys.CtrlC:
		return true, tea.Quit
	case keys.CtrlN:
		m.NewChat()
		if state := m.panels.State(); state.Class == panels.Narrow && state.RightOpen {
			m.ToggleRight()
		}
		return true, m.setFocus(FocusChat)
	case keys.CtrlR:
		return true, m.Refresh()
	case keys.CtrlB:
		m.ToggleLeft()
		if m.panels.State().LeftOpen {
			return true, m.setFocus(FocusSidebar)
		}
		return true, nil
	case keys.CtrlF:
		m.ToggleRight()
		if m.panels.State().RightOpen {
			return true, m.setFocus(FocusFeedback)
		}
		return true, nil
	case keys.CtrlU:
		if !m.panels.State().RightOpen {
			m.ToggleRight()
		}
		if m.panels.State().RightOpen {
			return true, m.setFocus(FocusUpload)
		}
		return true, nil
	case keys.CtrlY:
		return true, m.CopyLastAnswer()
	case keys.CtrlL:
		return true, m.Logout()
	case keys.Tab:
		return true, m.cycleFocus(1)
	case keys.ShiftTab:
		return true, m.cycleFocus(-1)
	case keys.Escape:
		if m.footer.HasFlash() {
			m.footer.ClearFlash()
			return true, nil
		}
		if m.focus == FocusFeedback || m.focus == FocusUpload {
			return true, m.setFocus(FocusChat)
		}
		return true, nil
	case keys.Enter:
		return true, m.handleEnter()
	}
	return false, nil
}

func (m *Model) handleEnter() tea.Cmd {
	switch m.focus {
	case FocusSidebar:
		if m.sidebar.IsNewConversationSelected() {
			m.NewChat()
			return m.setFocus(FocusChat)
		}
		id, ok := m.sidebar.SelectedID()
		if !ok {
			return nil
		}
		cmd := m.SelectConversation(id)
		return tea.Batch(cmd, m.setFocus(FocusChat))
	case FocusChat:
		return m.SendQuestion(m.chat.GetInput())
	case FocusFeedback:
		return m.SubmitFeedback(m.right.FeedbackValue())
	case FocusUpload:
		return m.UploadDocument(m.right.UploadPath())
	}
	return nil
}
