package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown error"},
		{KindNotFound, "not found"},
		{KindInvalid, "invalid"},
		{KindValidation, "validation failed"},
		{KindUnauthorized, "unauthorized"},
		{KindTransport, "transport error"},
		{KindStale, "stale response"},
		{KindConfig, "configuration error"},
		{KindIO, "I/O error"},
		{Kind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"with op and context", &Error{Op: "api.Ask", Context: "POST /api/questions", Err: errors.New("boom")}, "api.Ask: POST /api/questions: boom"},
		{"with op only", &Error{Op: "api.Ask", Err: errors.New("boom")}, "api.Ask: boom"},
		{"without op", &Error{Err: errors.New("boom")}, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestE_ContextOnly(t *testing.T) {
	err := E(Op("store.Select"), KindNotFound, "conversation 7 not found")
	if err.Error() != "store.Select: conversation 7 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !Is(err, KindNotFound) {
		t.Error("expected KindNotFound")
	}
}

func TestIs_WalksChain(t *testing.T) {
	inner := Unauthorized(Op("api.FetchConversations"))
	outer := E(Op("app.refresh"), KindTransport, inner)
	wrapped := fmt.Errorf("refresh: %w", outer)

	if !Is(wrapped, KindTransport) {
		t.Error("expected outer kind to match")
	}
	if !Is(wrapped, KindUnauthorized) {
		t.Error("expected inner kind to match through the chain")
	}
	if Is(wrapped, KindStale) {
		t.Error("unexpected kind match")
	}
	if GetKind(wrapped) != KindTransport {
		t.Errorf("GetKind = %v, want transport", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("plain errors have unknown kind")
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"conversation not found", ConversationNotFound("store.Get", "9"), KindNotFound},
		{"message not found", MessageNotFound("store.Rollback", "9", "temp-msg-1"), KindNotFound},
		{"validation", Validation("app.SendQuestion", "empty question"), KindValidation},
		{"unauthorized", Unauthorized("api.Ask"), KindUnauthorized},
		{"transport", Transport("api.Ask", "POST", errors.New("reset")), KindTransport},
		{"config load", ConfigLoadFailed("/x", errors.New("nope")), KindConfig},
		{"config invalid", ConfigInvalid("bad"), KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if GetKind(tt.err) != tt.kind {
				t.Errorf("kind = %v, want %v", GetKind(tt.err), tt.kind)
			}
		})
	}
}
