package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/zhubert/pdfqa/internal/conversation"
	"github.com/zhubert/pdfqa/internal/keys"
)

// StopwatchTickMsg is sent to update the waiting stopwatch
type StopwatchTickMsg time.Time

// Chat represents the center panel: message history and question input
type Chat struct {
	viewport viewport.Model
	input    textinput.Model

	width   int
	height  int
	focused bool

	hasConversation bool
	messages        []conversation.Message
	waiting         bool
	waitStart       time.Time
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textinput.New()
	ti.Placeholder = "Ask a question about your document..."
	ti.CharLimit = QuestionCharLimit
	ti.Prompt = "› "

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{viewport: vp, input: ti}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()
	chatPanelHeight := height - InputTotalHeight
	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(max(ctx.InnerHeight(chatPanelHeight), 1))
	// Input border plus Padding(0, 1).
	c.input.SetWidth(max(ctx.InnerWidth(width)-2-len(c.input.Prompt), 1))
	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) tea.Cmd {
	c.focused = focused
	if focused {
		return c.input.Focus()
	}
	c.input.Blur()
	return nil
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetConversation shows a conversation's messages
func (c *Chat) SetConversation(conv conversation.Conversation) {
	c.hasConversation = true
	c.messages = conv.Messages
	c.updateContent()
}

// ClearConversation shows the empty state
func (c *Chat) ClearConversation() {
	c.hasConversation = false
	c.messages = nil
	c.waiting = false
	c.updateContent()
}

// HasConversation reports whether a conversation is shown
func (c *Chat) HasConversation() bool {
	return c.hasConversation
}

// SetWaiting toggles the waiting indicator. The stopwatch keeps its start
// time while waiting stays on.
func (c *Chat) SetWaiting(waiting bool) {
	if waiting && !c.waiting {
		c.waitStart = time.Now()
	}
	c.waiting = waiting
	c.updateContent()
}

// IsWaiting returns whether the chat is waiting for an answer
func (c *Chat) IsWaiting() bool {
	return c.waiting
}

// GetInput returns the question being typed
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// SetInput replaces the question being typed
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// ClearInput clears the question input
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// StopwatchTick schedules the next stopwatch refresh
func StopwatchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

func (c *Chat) renderEmpty() string {
	msgStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var sb strings.Builder
	sb.WriteString(msgStyle.Italic(true).Render("No conversation selected"))
	sb.WriteString("\n\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("ctrl+n"))
	sb.WriteString(msgStyle.Render(" to start a new conversation"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("ctrl+u"))
	sb.WriteString(msgStyle.Render(" to upload a PDF"))
	return sb.String()
}

// renderMessage renders one message with its role label and citations.
func renderMessage(m conversation.Message, width int) string {
	var sb strings.Builder
	if m.Type == conversation.TypeQuestion {
		label := "You:"
		if m.Status == conversation.StatusPending {
			label = "You (sending…):"
		}
		sb.WriteString(ChatQuestionStyle.Render(label))
	} else {
		sb.WriteString(ChatAnswerStyle.Render("Answer:"))
	}
	sb.WriteString("\n")
	sb.WriteString(ChatMessageStyle.Width(width).Render(strings.TrimSpace(m.Content)))

	if len(m.Citations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(ChatCitationStyle.Render("Citations:"))
		for _, cit := range m.Citations {
			sb.WriteString("\n")
			sb.WriteString(ChatCitationStyle.Width(width).Render("  " + cit.String()))
		}
	}
	return sb.String()
}

func (c *Chat) updateContent() {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	var sb strings.Builder
	switch {
	case !c.hasConversation:
		sb.WriteString(c.renderEmpty())
	case len(c.messages) == 0 && !c.waiting:
		sb.WriteString(PlaceholderStyle.Render("Ask anything about your document..."))
	default:
		for i, m := range c.messages {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(renderMessage(m, wrapWidth))
		}
		if c.waiting {
			if len(c.messages) > 0 {
				sb.WriteString("\n\n")
			}
			stopwatch := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
			sb.WriteString(StatusLoadingStyle.Render("Waiting for answer... "))
			sb.WriteString(stopwatch.Render(formatElapsed(time.Since(c.waitStart))))
		}
	}

	c.viewport.SetContent(sb.String())
	c.viewport.GotoBottom()
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	if _, ok := msg.(StopwatchTickMsg); ok {
		if c.waiting {
			c.updateContent()
			return c, StopwatchTick()
		}
		return c, nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok && c.focused {
		switch key.String() {
		case keys.PgUp, keys.PgDown:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		if !c.hasConversation {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	if !c.hasConversation {
		return panelStyle.Width(c.width).Height(c.height).Render(c.viewport.View())
	}

	chatPanel := panelStyle.Width(c.width).Height(c.height - InputTotalHeight).Render(c.viewport.View())

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
