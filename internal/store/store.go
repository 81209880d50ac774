// Package store owns the client-side conversation collection and the
// currently selected conversation.
//
// Conversations live in a single map keyed by id; the display order is a
// slice of keys and the current conversation is a key into the same map.
// The list entry and the current view are therefore one object and cannot
// drift apart, however mutations interleave.
//
// Mutations are expected from a single event loop. The mutex only makes
// reads from other goroutines (rendering, CLI output) safe.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zhubert/pdfqa/internal/conversation"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
)

// maxAliasHops bounds alias resolution; a chain longer than this means a cycle.
const maxAliasHops = 16

// Store is the single source of truth for conversations.
type Store struct {
	mu       sync.RWMutex
	ids      conversation.IDSource
	convs    map[conversation.ID]*conversation.Conversation
	order    []conversation.ID
	current  conversation.ID
	aliases  map[conversation.ID]conversation.ID // rewritten id -> replacement
	document *conversation.Document
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		convs:   make(map[conversation.ID]*conversation.Conversation),
		aliases: make(map[conversation.ID]conversation.ID),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func log() *slog.Logger {
	return logger.ComponentLogger("store")
}

// NextMessageID returns a fresh ephemeral id for an optimistic message.
func (s *Store) NextMessageID() conversation.ID {
	return s.ids.Next()
}

// LoadAll replaces the collection with a freshly fetched list.
//
// Local drafts the backend cannot know about yet are kept at the head of the
// list while they are current or have questions in flight, and pending
// messages of a persisted conversation survive the refresh so their
// eventual commit or rollback still finds them.
// When nothing is selected (or the selection vanished) and the viewport is
// wide, the first entry becomes current; an empty result clears selection.
func (s *Store) LoadAll(list []conversation.Conversation, wide bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs := make(map[conversation.ID]*conversation.Conversation, len(list))
	order := make([]conversation.ID, 0, len(list))

	// Drafts first, in their existing order. Only the current draft and
	// drafts still waiting on the backend survive; abandoned empty ones go.
	dropped := 0
	for _, id := range s.order {
		if !id.IsEphemeral() {
			continue
		}
		if id != s.current && !s.convs[id].HasPending() {
			dropped++
			continue
		}
		convs[id] = s.convs[id]
		order = append(order, id)
	}

	for _, incoming := range list {
		id := s.resolveLocked(incoming.ID)
		if id.IsZero() {
			dropped++
			continue
		}
		if _, dup := convs[id]; dup {
			dropped++
			continue
		}
		c := incoming.Clone()
		c.ID = id
		if prev, ok := s.convs[id]; ok {
			keepPending(&c, prev)
		}
		convs[id] = &c
		order = append(order, id)
	}

	s.convs = convs
	s.order = order

	if _, ok := s.convs[s.current]; !ok {
		s.current = conversation.ID{}
	}
	if len(s.order) == 0 {
		s.current = conversation.ID{}
	} else if s.current.IsZero() && wide {
		s.current = s.order[0]
	}

	log().Debug("collection loaded",
		"received", len(list),
		"kept", len(s.order),
		"dropped", dropped,
		"current", s.current.String(),
	)
}

// keepPending re-appends messages still awaiting the backend that the fresh
// server copy doesn't contain.
func keepPending(dst *conversation.Conversation, prev *conversation.Conversation) {
	for _, m := range prev.Messages {
		if m.Status == conversation.StatusPending && dst.IndexOf(m.ID) < 0 {
			dst.Messages = append(dst.Messages, m.Clone())
		}
	}
}

// SelectDraftConversation creates a new local conversation, prepends it and
// makes it current. The current document is cleared; a new chat starts
// without one.
func (s *Store) SelectDraftConversation() conversation.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := conversation.NewDraft(s.ids.Next(), s.now())
	s.convs[c.ID] = &c
	s.order = append([]conversation.ID{c.ID}, s.order...)
	s.current = c.ID
	s.document = nil

	log().Debug("draft created", "conversation", c.ID.String())
	return c.Clone()
}

// Select makes the conversation current. Selecting the current conversation
// is a no-op; an unknown id returns a KindNotFound error and changes nothing.
func (s *Store) Select(id conversation.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved := s.resolveLocked(id)
	if _, ok := s.convs[resolved]; !ok {
		return pqerrors.ConversationNotFound("store.Select", id.String())
	}
	if s.current == resolved {
		return nil
	}
	s.current = resolved
	log().Debug("selected", "conversation", resolved.String())
	return nil
}

// AppendOptimisticMessage appends msg, tagged pending, to the conversation.
// A zero message id is replaced with a fresh ephemeral one. The stored
// message is returned.
func (s *Store) AppendOptimisticMessage(convID conversation.ID, msg conversation.Message) (conversation.Message, error) {
	const op = pqerrors.Op("store.AppendOptimisticMessage")

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookupLocked(convID)
	if !ok {
		return conversation.Message{}, pqerrors.ConversationNotFound(op, convID.String())
	}
	if msg.ID.IsZero() {
		msg.ID = s.ids.Next()
	}
	if c.IndexOf(msg.ID) >= 0 {
		return conversation.Message{}, pqerrors.E(op, pqerrors.KindInvalid, "duplicate message id "+msg.ID.String())
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	msg.Status = conversation.StatusPending
	msg = msg.Clone()

	if len(c.Messages) == 0 && c.Title == conversation.DefaultTitle && msg.Type == conversation.TypeQuestion {
		c.Title = conversation.TitleFromQuestion(msg.Content)
	}
	c.Messages = append(c.Messages, msg)

	log().Debug("optimistic message appended",
		"conversation", c.ID.String(),
		"message", msg.ID.String(),
		"count", len(c.Messages),
	)
	return msg.Clone(), nil
}

// Exchange describes a completed question/answer round-trip.
type Exchange struct {
	// ConversationID is the id captured when the request was issued. It may
	// have been rewritten since; the store follows its aliases.
	ConversationID conversation.ID
	// TempMessageID is the pending question being confirmed.
	TempMessageID conversation.ID
	// QuestionID is the backend id for the question, if it sent one.
	QuestionID conversation.ID
	// Answer is appended after the confirmed question.
	Answer conversation.Message
	// FinalConversationID is the backend id for the conversation. Zero means
	// unchanged.
	FinalConversationID conversation.ID
}

// CommitMessage confirms the pending message tempMsgID, appends final and
// rewrites the conversation id to finalConvID if it differs.
func (s *Store) CommitMessage(convID, tempMsgID conversation.ID, final conversation.Message, finalConvID conversation.ID) (conversation.ID, error) {
	return s.CommitExchange(Exchange{
		ConversationID:      convID,
		TempMessageID:       tempMsgID,
		Answer:              final,
		FinalConversationID: finalConvID,
	})
}

// CommitExchange applies a completed round-trip and returns the
// conversation's id after any rewrite.
//
// The pending question stays in place, confirmed, under a persisted id (the
// backend's question id, or one derived from the answer id). The current
// selection follows the rewrite only if it still points at this
// conversation.
func (s *Store) CommitExchange(ex Exchange) (conversation.ID, error) {
	const op = pqerrors.Op("store.CommitMessage")

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookupLocked(ex.ConversationID)
	if !ok {
		return conversation.ID{}, pqerrors.ConversationNotFound(op, ex.ConversationID.String())
	}
	idx := c.IndexOf(ex.TempMessageID)
	if idx < 0 {
		return conversation.ID{}, pqerrors.MessageNotFound(op, c.ID.String(), ex.TempMessageID.String())
	}

	answer := ex.Answer.Clone()
	if answer.ID.IsZero() {
		answer.ID = s.ids.Next()
	}
	if c.IndexOf(answer.ID) >= 0 {
		return conversation.ID{}, pqerrors.E(op, pqerrors.KindInvalid, "duplicate message id "+answer.ID.String())
	}
	questionID := ex.QuestionID
	if questionID.IsZero() {
		questionID = questionIDFor(answer.ID, ex.TempMessageID)
	}
	if questionID != ex.TempMessageID && c.IndexOf(questionID) >= 0 {
		return conversation.ID{}, pqerrors.E(op, pqerrors.KindInvalid, "duplicate message id "+questionID.String())
	}
	if answer.Timestamp.IsZero() {
		answer.Timestamp = s.now()
	}
	answer.Type = conversation.TypeAnswer
	answer.Status = conversation.StatusConfirmed

	c.Messages[idx].ID = questionID
	c.Messages[idx].Status = conversation.StatusConfirmed
	c.Messages = append(c.Messages, answer)

	final := c.ID
	if !ex.FinalConversationID.IsZero() && ex.FinalConversationID != c.ID {
		final = s.rekeyLocked(c, ex.FinalConversationID)
	}

	log().Debug("message committed",
		"conversation", final.String(),
		"captured", ex.ConversationID.String(),
		"question", questionID.String(),
		"answer", answer.ID.String(),
		"count", len(c.Messages),
	)
	return final, nil
}

// questionIDFor derives a persisted question id from the answer id. If the
// answer itself is unconfirmed the temporary id is kept.
func questionIDFor(answerID, tempID conversation.ID) conversation.ID {
	if answerID.IsPersisted() {
		return conversation.Persisted(answerID.String() + "/q")
	}
	return tempID
}

// rekeyLocked moves c under newID everywhere: map, order, current and
// aliases. A server copy already stored under newID (fetched while the
// request was in flight) is merged into c. Caller must hold the write lock.
func (s *Store) rekeyLocked(c *conversation.Conversation, newID conversation.ID) conversation.ID {
	oldID := c.ID

	if existing, ok := s.convs[newID]; ok && existing != c {
		mergeServerCopy(c, existing)
		s.order = removeID(s.order, newID)
		log().Warn("conversation already present under persisted id, merging",
			"old", oldID.String(), "new", newID.String(), "count", len(c.Messages))
	}

	delete(s.convs, oldID)
	c.ID = newID
	s.convs[newID] = c
	for i, id := range s.order {
		if id == oldID {
			s.order[i] = newID
		}
	}
	if s.current == oldID {
		s.current = newID
	}

	s.aliases[oldID] = newID
	for from, to := range s.aliases {
		if to == oldID {
			s.aliases[from] = newID
		}
	}

	log().Debug("conversation rekeyed", "old", oldID.String(), "new", newID.String())
	return newID
}

// mergeServerCopy folds a server copy of the same conversation into c.
// Confirmed history c lacks goes first; a confirmed message equal in type
// and content to one of c's is the server's record of the local exchange
// and is skipped. Pending messages c lacks go last, in their order, so
// their commit or rollback still finds them.
func mergeServerCopy(c, server *conversation.Conversation) {
	var history, pending []conversation.Message
	for _, m := range server.Messages {
		if c.IndexOf(m.ID) >= 0 {
			continue
		}
		if m.Status == conversation.StatusPending {
			pending = append(pending, m.Clone())
			continue
		}
		if hasSameContent(c, m) {
			continue
		}
		history = append(history, m.Clone())
	}
	merged := make([]conversation.Message, 0, len(history)+len(c.Messages)+len(pending))
	merged = append(merged, history...)
	merged = append(merged, c.Messages...)
	merged = append(merged, pending...)
	c.Messages = merged
	if c.Title == conversation.DefaultTitle && server.Title != "" {
		c.Title = server.Title
	}
}

func hasSameContent(c *conversation.Conversation, m conversation.Message) bool {
	for _, own := range c.Messages {
		if own.Type == m.Type && own.Content == m.Content {
			return true
		}
	}
	return false
}

func removeID(ids []conversation.ID, id conversation.ID) []conversation.ID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// RollbackMessage removes the pending message tempMsgID, leaving the rest of
// the conversation exactly as it was before the append.
func (s *Store) RollbackMessage(convID, tempMsgID conversation.ID) error {
	const op = pqerrors.Op("store.RollbackMessage")

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.lookupLocked(convID)
	if !ok {
		return pqerrors.ConversationNotFound(op, convID.String())
	}
	idx := c.IndexOf(tempMsgID)
	if idx < 0 {
		return pqerrors.MessageNotFound(op, c.ID.String(), tempMsgID.String())
	}
	removed := c.Messages[idx]
	c.Messages = append(c.Messages[:idx:idx], c.Messages[idx+1:]...)

	if len(c.Messages) == 0 && c.ID.IsEphemeral() && c.Title == conversation.TitleFromQuestion(removed.Content) {
		c.Title = conversation.DefaultTitle
	}

	log().Debug("optimistic message rolled back",
		"conversation", c.ID.String(),
		"message", tempMsgID.String(),
		"count", len(c.Messages),
	)
	return nil
}

// Resolve follows id rewrites. It reports false if the resolved id is not in
// the collection.
func (s *Store) Resolve(id conversation.ID) (conversation.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := s.resolveLocked(id)
	_, ok := s.convs[resolved]
	return resolved, ok
}

func (s *Store) resolveLocked(id conversation.ID) conversation.ID {
	for i := 0; i < maxAliasHops; i++ {
		next, ok := s.aliases[id]
		if !ok {
			return id
		}
		id = next
	}
	return id
}

func (s *Store) lookupLocked(id conversation.ID) (*conversation.Conversation, bool) {
	c, ok := s.convs[s.resolveLocked(id)]
	return c, ok
}

// Conversations returns copies of all conversations in display order.
func (s *Store) Conversations() []conversation.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]conversation.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.convs[id].Clone())
	}
	return out
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns a copy of the conversation, following id rewrites.
func (s *Store) Get(id conversation.ID) (conversation.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.lookupLocked(id)
	if !ok {
		return conversation.Conversation{}, false
	}
	return c.Clone(), true
}

// Current returns a copy of the current conversation.
func (s *Store) Current() (conversation.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current.IsZero() {
		return conversation.Conversation{}, false
	}
	c, ok := s.convs[s.current]
	if !ok {
		return conversation.Conversation{}, false
	}
	return c.Clone(), true
}

// CurrentID returns the id of the current conversation, zero if none.
func (s *Store) CurrentID() conversation.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetDocument records the uploaded document.
func (s *Store) SetDocument(doc conversation.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := doc
	s.document = &d
	log().Debug("document set", "id", doc.ID, "name", doc.Name)
}

// Document returns the current document, if any.
func (s *Store) Document() (conversation.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.document == nil {
		return conversation.Document{}, false
	}
	return *s.document, true
}

// ClearDocument forgets the current document.
func (s *Store) ClearDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = nil
}
