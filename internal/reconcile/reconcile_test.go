package reconcile

import (
	"testing"

	"github.com/zhubert/pdfqa/internal/conversation"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/store"
)

func ask(t *testing.T, s *store.Store, r *Reconciler, convID conversation.ID, text string) Ticket {
	t.Helper()
	msg, err := s.AppendOptimisticMessage(convID, conversation.Message{Content: text, Type: conversation.TypeQuestion})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return r.Begin(convID, msg.ID)
}

func result(answerID, content, convID string) Result {
	return Result{
		Answer:         conversation.Message{ID: conversation.Persisted(answerID), Content: content, Type: conversation.TypeAnswer},
		ConversationID: conversation.Persisted(convID),
	}
}

func TestCommit_RewritesDraft(t *testing.T) {
	s := store.New()
	r := New(s)
	draft := s.SelectDraftConversation()

	tk := ask(t, s, r, draft.ID, "What is X?")
	final, err := r.Commit(tk, result("m1", "X is Y", "42"))
	if err != nil {
		t.Fatal(err)
	}
	if final != conversation.Persisted("42") {
		t.Errorf("final = %v", final)
	}
	if s.CurrentID() != final {
		t.Errorf("current should follow the rewrite, got %v", s.CurrentID())
	}
	for _, c := range s.Conversations() {
		if c.ID == draft.ID {
			t.Error("ephemeral id still readable after rewrite")
		}
	}
	if r.InFlight(draft.ID) != 0 || r.InFlight(final) != 0 {
		t.Error("ticket not released")
	}
}

func TestCommit_UserNavigatedAway(t *testing.T) {
	s := store.New()
	r := New(s)
	s.LoadAll([]conversation.Conversation{{ID: conversation.Persisted("1"), Title: "other", Messages: []conversation.Message{}}}, true)
	draft := s.SelectDraftConversation()
	tk := ask(t, s, r, draft.ID, "q")

	if err := s.Select(conversation.Persisted("1")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Commit(tk, result("m1", "a", "42")); err != nil {
		t.Fatal(err)
	}

	if s.CurrentID() != conversation.Persisted("1") {
		t.Errorf("current view changed retroactively: %v", s.CurrentID())
	}
	c, ok := s.Get(conversation.Persisted("42"))
	if !ok || len(c.Messages) != 2 {
		t.Errorf("collection entry not reconciled: %+v", c)
	}
}

func TestCommit_SecondTicketFollowsRewrite(t *testing.T) {
	s := store.New()
	r := New(s)
	draft := s.SelectDraftConversation()

	first := ask(t, s, r, draft.ID, "one")
	second := ask(t, s, r, draft.ID, "two")
	if r.InFlight(draft.ID) != 2 {
		t.Fatalf("InFlight = %d", r.InFlight(draft.ID))
	}

	if _, err := r.Commit(first, result("a1", "first answer", "42")); err != nil {
		t.Fatal(err)
	}
	// second still carries the ephemeral id it was issued with.
	final, err := r.Commit(second, result("a2", "second answer", "42"))
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if final != conversation.Persisted("42") {
		t.Errorf("final = %v", final)
	}

	c, _ := s.Current()
	var got []string
	for _, m := range c.Messages {
		got = append(got, m.Content)
	}
	want := []string{"one", "two", "first answer", "second answer"}
	if len(got) != len(want) {
		t.Fatalf("messages = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("messages = %v, want %v", got, want)
		}
	}
}

func TestCommit_OutOfOrderIsStale(t *testing.T) {
	s := store.New()
	r := New(s)
	s.LoadAll([]conversation.Conversation{{ID: conversation.Persisted("7"), Title: "t", Messages: []conversation.Message{}}}, true)
	id := conversation.Persisted("7")

	first := ask(t, s, r, id, "one")
	second := ask(t, s, r, id, "two")

	_, err := r.Commit(second, result("a2", "late", "7"))
	if !pqerrors.Is(err, pqerrors.KindStale) {
		t.Fatalf("expected KindStale, got %v", err)
	}
	c, _ := s.Get(id)
	if len(c.Messages) != 2 || c.Messages[1].Status != conversation.StatusPending {
		t.Error("stale commit must not change the store")
	}

	if _, err := r.Commit(first, result("a1", "ok", "7")); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if err := r.Rollback(second); err != nil {
		t.Fatalf("rollback stale: %v", err)
	}
	c, _ = s.Get(id)
	if len(c.Messages) != 2 || c.Messages[0].Content != "one" || c.Messages[1].Content != "ok" {
		t.Errorf("unexpected messages %+v", c.Messages)
	}
	if r.InFlight(id) != 0 {
		t.Errorf("InFlight = %d", r.InFlight(id))
	}
}

func TestRollback_ReleasesSlot(t *testing.T) {
	s := store.New()
	r := New(s)
	draft := s.SelectDraftConversation()

	failed := ask(t, s, r, draft.ID, "one")
	next := ask(t, s, r, draft.ID, "two")

	if err := r.Rollback(failed); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Commit(next, result("a2", "answer", "9")); err != nil {
		t.Fatalf("commit after rollback: %v", err)
	}
	c, _ := s.Current()
	if len(c.Messages) != 2 || c.Messages[0].Content != "two" {
		t.Errorf("unexpected messages %+v", c.Messages)
	}
}

func TestCommit_MissingMessageFreesSlot(t *testing.T) {
	s := store.New()
	r := New(s)
	draft := s.SelectDraftConversation()

	tk := r.Begin(draft.ID, conversation.Ephemeral(12345))
	if _, err := r.Commit(tk, result("a", "b", "1")); !pqerrors.Is(err, pqerrors.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if r.InFlight(draft.ID) != 0 {
		t.Error("failed commit should release its slot")
	}
}
