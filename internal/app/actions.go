package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/pdfqa/internal/api"
	"github.com/zhubert/pdfqa/internal/conversation"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/reconcile"
)

// ConversationsLoadedMsg carries the result of a conversation list fetch.
type ConversationsLoadedMsg struct {
	Conversations []conversation.Conversation
	Err           error
}

// AnswerMsg carries the result of a question.
type AnswerMsg struct {
	Ticket reconcile.Ticket
	// QueueKey is the conversation id the request was serialized under.
	QueueKey conversation.ID
	Answer   api.Answer
	Err      error
}

// FeedbackSentMsg carries the result of a feedback submission.
type FeedbackSentMsg struct {
	Err error
}

// DocumentUploadedMsg carries the result of a document upload.
type DocumentUploadedMsg struct {
	Document conversation.Document
	Err      error
}

// resolve follows id rewrites to the conversation's current id.
func (m *Model) resolve(id conversation.ID) conversation.ID {
	if resolved, ok := m.store.Resolve(id); ok {
		return resolved
	}
	return id
}

// NewChat starts a new, unsaved conversation and makes it current.
func (m *Model) NewChat() tea.Cmd {
	draft := m.store.SelectDraftConversation()
	m.panels.ConversationChosen()
	logger.WithConversation(draft.ID.String()).Debug("new chat started")
	m.syncViews()
	return nil
}

// SelectConversation makes id the current conversation.
func (m *Model) SelectConversation(id conversation.ID) tea.Cmd {
	if err := m.store.Select(id); err != nil {
		logger.ComponentLogger("app").Warn("select failed", "conversation", id.String(), "error", err)
		return m.ShowFlashError("Conversation not found")
	}
	delete(m.unread, m.resolve(id))
	m.panels.ConversationChosen()
	m.syncViews()
	return m.ensureStopwatch()
}

// SendQuestion shows the question immediately and sends it, or queues it
// behind the conversation's in-flight question.
func (m *Model) SendQuestion(text string) tea.Cmd {
	const op = pqerrors.Op("app.SendQuestion")

	text = strings.TrimSpace(text)
	if text == "" {
		return m.flashValidation(pqerrors.Validation(op, "Type a question first"))
	}
	cur := m.store.CurrentID()
	if cur.IsZero() {
		return m.flashValidation(pqerrors.Validation(op, "Start or select a conversation first"))
	}

	msg, err := m.store.AppendOptimisticMessage(cur, conversation.Message{
		Content: text,
		Type:    conversation.TypeQuestion,
	})
	if err != nil {
		return m.ShowFlashError("Failed to add question: " + err.Error())
	}
	m.chat.ClearInput()

	key := m.resolve(cur)
	item := queuedQuestion{MessageID: msg.ID, Text: text}
	if m.queue.IsInFlight(key) {
		m.queue.Enqueue(key, item)
		logger.WithConversation(key.String()).Debug("question queued",
			"message", msg.ID.String(), "waiting", m.queue.PendingCount(key))
		m.syncViews()
		return nil
	}
	cmd := m.dispatch(key, item)
	m.syncViews()
	return tea.Batch(cmd, m.ensureStopwatch())
}

// dispatch sends a question that is already shown optimistically.
func (m *Model) dispatch(key conversation.ID, q queuedQuestion) tea.Cmd {
	convID := m.resolve(key)
	ticket := m.recon.Begin(convID, q.MessageID)
	m.queue.SetInFlight(convID, true)

	var documentID string
	if doc, ok := m.store.Document(); ok {
		documentID = doc.ID
	}
	backend := m.backend
	timeout := m.cfg.GetTimeout()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		answer, err := backend.AskQuestion(ctx, convID, q.Text, documentID)
		return AnswerMsg{Ticket: ticket, QueueKey: convID, Answer: answer, Err: err}
	}
}

// SubmitFeedback sends feedback about the current conversation.
func (m *Model) SubmitFeedback(text string) tea.Cmd {
	const op = pqerrors.Op("app.SubmitFeedback")

	text = strings.TrimSpace(text)
	if text == "" {
		return m.flashValidation(pqerrors.Validation(op, "Write some feedback first"))
	}
	cur, ok := m.store.Current()
	if !ok {
		return m.flashValidation(pqerrors.Validation(op, "Select a conversation before sending feedback"))
	}

	var lastAnswerID conversation.ID
	if answer, ok := cur.LastAnswer(); ok {
		lastAnswerID = answer.ID
	}
	backend := m.backend
	timeout := m.cfg.GetTimeout()
	convID := cur.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return FeedbackSentMsg{Err: backend.SubmitFeedback(ctx, text, convID, lastAnswerID)}
	}
}

// UploadDocument uploads the PDF at path and makes it the current document.
func (m *Model) UploadDocument(path string) tea.Cmd {
	const op = pqerrors.Op("app.UploadDocument")

	path = strings.TrimSpace(path)
	if path == "" {
		return m.flashValidation(pqerrors.Validation(op, "Enter the path of a PDF to upload"))
	}
	path = expandHome(path)

	m.uploading = true
	m.syncViews()
	backend := m.backend
	timeout := m.cfg.GetTimeout()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return DocumentUploadedMsg{Err: pqerrors.E(op, pqerrors.KindIO, "failed to open "+path, err)}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		doc, err := backend.UploadDocument(ctx, f, filepath.Base(path))
		return DocumentUploadedMsg{Document: doc, Err: err}
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Refresh reloads the conversation list.
func (m *Model) Refresh() tea.Cmd {
	m.loading = true
	m.header.SetLoading(true)
	backend := m.backend
	timeout := m.cfg.GetTimeout()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		convs, err := backend.FetchConversations(ctx)
		return ConversationsLoadedMsg{Conversations: convs, Err: err}
	}
}

// ToggleLeft shows or hides the conversation list on a narrow terminal.
func (m *Model) ToggleLeft() {
	m.panels.ToggleLeft()
}

// ToggleRight shows or hides the feedback panel on a narrow terminal.
func (m *Model) ToggleRight() {
	m.panels.ToggleRight()
}

// CopyLastAnswer copies the current conversation's last answer.
func (m *Model) CopyLastAnswer() tea.Cmd {
	cur, ok := m.store.Current()
	if !ok {
		return m.ShowFlashInfo("No answer to copy")
	}
	answer, ok := cur.LastAnswer()
	if !ok {
		return m.ShowFlashInfo("No answer to copy")
	}
	if err := m.copyAnswer(answer); err != nil {
		return m.ShowFlashError(fmt.Sprintf("Failed to copy: %v", err))
	}
	return m.ShowFlashSuccess("Answer copied to clipboard")
}

// Logout forgets the stored token and quits.
func (m *Model) Logout() tea.Cmd {
	m.clearCredentials()
	logger.ComponentLogger("app").Info("user logged out")
	return tea.Quit
}

// sessionExpired ends the session after the backend rejected the token.
func (m *Model) sessionExpired() tea.Cmd {
	m.clearCredentials()
	m.exitErr = ErrLoggedOut
	logger.ComponentLogger("app").Warn("session expired, quitting")
	return tea.Quit
}

func (m *Model) clearCredentials() {
	m.cfg.ClearToken()
	if err := m.cfg.Save(); err != nil {
		logger.ComponentLogger("app").Error("failed to save config after logout", "error", err)
	}
}
