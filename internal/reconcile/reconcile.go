// Package reconcile merges backend acknowledgements into the store.
//
// A question is sent against the conversation id current when the user hit
// send. By the time the answer arrives the user may have switched
// conversations, and an earlier response may already have rewritten that id
// from ephemeral to persisted. A Ticket captures the id at issue time; the
// reconciler resolves it through the store's rewrites when the response
// lands, so the right conversation is updated and the current view is only
// touched if it still shows that conversation.
//
// Each ticket also carries a per-conversation sequence number. Completions
// must arrive in issue order; anything else is rejected as stale.
package reconcile

import (
	"fmt"
	"sync"

	"github.com/zhubert/pdfqa/internal/conversation"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/store"
)

// Ticket identifies one in-flight question.
type Ticket struct {
	ConversationID conversation.ID // as captured when the request was issued
	MessageID      conversation.ID // the pending question
	Seq            uint64
}

// Result is the backend's answer to a ticket.
type Result struct {
	QuestionID     conversation.ID // optional
	Answer         conversation.Message
	ConversationID conversation.ID // zero means unchanged
}

// Reconciler applies results and rollbacks to a store.
type Reconciler struct {
	store *store.Store

	mu          sync.Mutex
	lastSeq     map[conversation.ID]uint64
	outstanding map[conversation.ID][]uint64
}

// New creates a reconciler for s.
func New(s *store.Store) *Reconciler {
	return &Reconciler{
		store:       s,
		lastSeq:     make(map[conversation.ID]uint64),
		outstanding: make(map[conversation.ID][]uint64),
	}
}

// lineage returns the key a conversation's sequence is tracked under.
func (r *Reconciler) lineage(id conversation.ID) conversation.ID {
	if resolved, ok := r.store.Resolve(id); ok {
		return resolved
	}
	return id
}

// Begin records an outgoing question for the conversation and returns the
// ticket the response must present.
func (r *Reconciler) Begin(convID, messageID conversation.ID) Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.lineage(convID)
	r.lastSeq[key]++
	seq := r.lastSeq[key]
	r.outstanding[key] = append(r.outstanding[key], seq)

	logger.WithConversation(key.String()).Debug("request issued",
		"message", messageID.String(), "seq", seq, "inFlight", len(r.outstanding[key]))
	return Ticket{ConversationID: convID, MessageID: messageID, Seq: seq}
}

// InFlight returns the number of unresolved tickets for the conversation.
func (r *Reconciler) InFlight(convID conversation.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outstanding[r.lineage(convID)])
}

// Commit applies res for t and returns the conversation's id afterwards.
// A ticket that is not the oldest outstanding one for its conversation is
// rejected with KindStale and changes nothing; the caller should roll it
// back.
func (r *Reconciler) Commit(t Ticket, res Result) (conversation.ID, error) {
	const op = pqerrors.Op("reconcile.Commit")

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.lineage(t.ConversationID)
	queue := r.outstanding[key]
	if len(queue) == 0 || queue[0] != t.Seq {
		logger.WithConversation(key.String()).Warn("stale response rejected",
			"seq", t.Seq, "outstanding", fmt.Sprint(queue))
		return conversation.ID{}, pqerrors.E(op, pqerrors.KindStale,
			fmt.Sprintf("response %d for conversation %s arrived out of order", t.Seq, key))
	}

	final, err := r.store.CommitExchange(store.Exchange{
		ConversationID:      t.ConversationID,
		TempMessageID:       t.MessageID,
		QuestionID:          res.QuestionID,
		Answer:              res.Answer,
		FinalConversationID: res.ConversationID,
	})
	if err != nil {
		// The message is gone (or never existed); free the slot so later
		// tickets aren't blocked behind it.
		r.release(key, t.Seq)
		return conversation.ID{}, err
	}

	r.release(key, t.Seq)
	if final != key {
		r.migrate(key, final)
	}

	logger.WithConversation(final.String()).Debug("response reconciled",
		"captured", t.ConversationID.String(), "seq", t.Seq)
	return final, nil
}

// Rollback removes the pending question for a failed or stale ticket.
func (r *Reconciler) Rollback(t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.lineage(t.ConversationID)
	r.release(key, t.Seq)

	if err := r.store.RollbackMessage(t.ConversationID, t.MessageID); err != nil {
		return err
	}
	logger.WithConversation(key.String()).Debug("request rolled back",
		"message", t.MessageID.String(), "seq", t.Seq)
	return nil
}

// release drops seq from key's outstanding list. Caller must hold mu.
func (r *Reconciler) release(key conversation.ID, seq uint64) {
	queue := r.outstanding[key]
	for i, s := range queue {
		if s == seq {
			queue = append(queue[:i:i], queue[i+1:]...)
			break
		}
	}
	if len(queue) == 0 {
		delete(r.outstanding, key)
		return
	}
	r.outstanding[key] = queue
}

// migrate moves sequence state from a rewritten id to its replacement.
// Caller must hold mu.
func (r *Reconciler) migrate(from, to conversation.ID) {
	if queue, ok := r.outstanding[from]; ok {
		r.outstanding[to] = append(r.outstanding[to], queue...)
		delete(r.outstanding, from)
	}
	if r.lastSeq[from] > r.lastSeq[to] {
		r.lastSeq[to] = r.lastSeq[from]
	}
	delete(r.lastSeq, from)
}
