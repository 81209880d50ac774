package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/pdfqa/internal/conversation"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/panels"
	"github.com/zhubert/pdfqa/internal/reconcile"
)

func (m *Model) handleConversationsLoaded(msg ConversationsLoadedMsg) (tea.Model, tea.Cmd) {
	log := logger.ComponentLogger("app")
	m.loading = false
	m.header.SetLoading(false)

	if msg.Err != nil {
		if pqerrors.Is(msg.Err, pqerrors.KindUnauthorized) {
			return m, m.sessionExpired()
		}
		log.Warn("failed to fetch conversations", "error", msg.Err)
		m.syncViews()
		return m, m.ShowFlashError("Failed to fetch conversations")
	}

	m.store.LoadAll(msg.Conversations, m.panels.State().Class == panels.Wide)
	for id := range m.unread {
		if _, ok := m.store.Get(id); !ok {
			delete(m.unread, id)
		}
	}
	log.Debug("conversations loaded", "count", len(msg.Conversations), "listed", m.store.Len())
	m.syncViews()
	return m, nil
}

func (m *Model) handleAnswer(msg AnswerMsg) (tea.Model, tea.Cmd) {
	key := msg.QueueKey
	log := logger.WithConversation(key.String())
	var cmds []tea.Cmd

	if msg.Err != nil {
		if pqerrors.Is(msg.Err, pqerrors.KindUnauthorized) {
			return m, m.sessionExpired()
		}
		log.Warn("question failed", "message", msg.Ticket.MessageID.String(), "error", msg.Err)
		if err := m.recon.Rollback(msg.Ticket); err != nil {
			log.Warn("rollback failed", "error", err)
		}
		cmds = append(cmds, m.ShowFlashError("Failed to get answer, please try again"))
	} else {
		final, err := m.recon.Commit(msg.Ticket, reconcile.Result{
			QuestionID:     msg.Answer.QuestionID,
			Answer:         msg.Answer.AnswerMessage(),
			ConversationID: msg.Answer.ConversationID,
		})
		switch {
		case pqerrors.Is(err, pqerrors.KindStale):
			if rbErr := m.recon.Rollback(msg.Ticket); rbErr != nil {
				log.Warn("rollback of stale response failed", "error", rbErr)
			}
			cmds = append(cmds, m.ShowFlashWarning("Discarded an out-of-order answer"))
		case err != nil:
			log.Error("failed to apply answer", "error", err)
			cmds = append(cmds, m.ShowFlashError("Failed to apply answer"))
		default:
			if final != key {
				if m.queue.Rekey(key, final) {
					// The merged conversation is still waiting on its own answer.
					m.answerArrived(final)
					m.syncViews()
					return m, tea.Batch(cmds...)
				}
				key = final
			}
			m.answerArrived(key)
		}
	}

	m.queue.SetInFlight(key, false)
	if next, ok := m.queue.Dequeue(key); ok {
		cmds = append(cmds, m.dispatch(key, next))
	}
	m.syncViews()
	return m, tea.Batch(cmds...)
}

// answerArrived marks an answer for a conversation the user isn't viewing.
func (m *Model) answerArrived(id conversation.ID) {
	convID := m.resolve(id)
	if convID == m.store.CurrentID() {
		return
	}
	m.unread[convID] = true
	if !m.cfg.GetNotificationsEnabled() {
		return
	}
	conv, ok := m.store.Get(convID)
	if !ok {
		return
	}
	if err := m.notify(conv.Title); err != nil {
		logger.ComponentLogger("app").Debug("notification not delivered", "error", err)
	}
}

func (m *Model) handleFeedbackSent(msg FeedbackSentMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if pqerrors.Is(msg.Err, pqerrors.KindUnauthorized) {
			return m, m.sessionExpired()
		}
		logger.ComponentLogger("app").Warn("feedback failed", "error", msg.Err)
		return m, m.ShowFlashError("Failed to submit feedback")
	}
	m.right.ClearFeedback()
	m.panels.FeedbackSubmitted()
	m.syncViews()
	return m, m.ShowFlashSuccess("Thanks for your feedback")
}

func (m *Model) handleDocumentUploaded(msg DocumentUploadedMsg) (tea.Model, tea.Cmd) {
	m.uploading = false
	if msg.Err != nil {
		if pqerrors.Is(msg.Err, pqerrors.KindUnauthorized) {
			return m, m.sessionExpired()
		}
		logger.ComponentLogger("app").Warn("upload failed", "error", msg.Err)
		m.syncViews()
		if pqerrors.Is(msg.Err, pqerrors.KindIO) {
			return m, m.ShowFlashError("Could not read that file")
		}
		return m, m.ShowFlashError("Failed to upload PDF")
	}
	m.store.SetDocument(msg.Document)
	m.right.ClearUpload()
	m.panels.DocumentUploaded()
	m.syncViews()
	return m, m.ShowFlashSuccess("Uploaded " + msg.Document.Name)
}
