package app

import (
	"sync"

	"github.com/zhubert/pdfqa/internal/conversation"
)

// queuedQuestion is a question already shown optimistically that waits
// for the conversation's in-flight request to finish.
type queuedQuestion struct {
	MessageID conversation.ID
	Text      string
}

// ConversationState holds the request state of one conversation.
type ConversationState struct {
	InFlight bool
	Pending  []queuedQuestion
}

// RequestQueue serializes questions per conversation: at most one is in
// flight, later ones wait in order.
type RequestQueue struct {
	mu     sync.RWMutex
	states map[conversation.ID]*ConversationState
}

// NewRequestQueue creates an empty queue.
func NewRequestQueue() *RequestQueue {
	return &RequestQueue{states: make(map[conversation.ID]*ConversationState)}
}

// getOrCreate returns the state for id. Caller must hold mu.
func (q *RequestQueue) getOrCreate(id conversation.ID) *ConversationState {
	if state, ok := q.states[id]; ok {
		return state
	}
	state := &ConversationState{}
	q.states[id] = state
	return state
}

// gc drops empty state. Caller must hold mu.
func (q *RequestQueue) gc(id conversation.ID) {
	if state, ok := q.states[id]; ok && !state.InFlight && len(state.Pending) == 0 {
		delete(q.states, id)
	}
}

// IsInFlight reports whether a question is outstanding for id.
func (q *RequestQueue) IsInFlight(id conversation.ID) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	state, ok := q.states[id]
	return ok && state.InFlight
}

// SetInFlight marks whether a question is outstanding for id.
func (q *RequestQueue) SetInFlight(id conversation.ID, inFlight bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.getOrCreate(id).InFlight = inFlight
	q.gc(id)
}

// Enqueue appends a question to wait behind the in-flight one.
func (q *RequestQueue) Enqueue(id conversation.ID, item queuedQuestion) {
	q.mu.Lock()
	defer q.mu.Unlock()
	state := q.getOrCreate(id)
	state.Pending = append(state.Pending, item)
}

// Dequeue removes and returns the oldest waiting question for id.
func (q *RequestQueue) Dequeue(id conversation.ID) (queuedQuestion, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	state, ok := q.states[id]
	if !ok || len(state.Pending) == 0 {
		return queuedQuestion{}, false
	}
	next := state.Pending[0]
	state.Pending = state.Pending[1:]
	q.gc(id)
	return next, true
}

// PendingCount returns the number of waiting questions for id.
func (q *RequestQueue) PendingCount(id conversation.ID) int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if state, ok := q.states[id]; ok {
		return len(state.Pending)
	}
	return 0
}

// Rekey moves state from a rewritten conversation id to its replacement.
// It reports whether the replacement already had its own question in
// flight; that request still owns the flag and releases the queue when its
// answer arrives.
func (q *RequestQueue) Rekey(from, to conversation.ID) (busy bool) {
	if from == to {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if dst, ok := q.states[to]; ok {
		busy = dst.InFlight
	}
	state, ok := q.states[from]
	if !ok {
		return busy
	}
	delete(q.states, from)
	dst := q.getOrCreate(to)
	dst.InFlight = dst.InFlight || state.InFlight
	dst.Pending = append(dst.Pending, state.Pending...)
	return busy
}

// Delete removes all state for id.
func (q *RequestQueue) Delete(id conversation.ID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.states, id)
}
