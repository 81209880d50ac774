package clipboard

import (
	"errors"
	"testing"

	"github.com/zhubert/pdfqa/internal/conversation"
)

func stubWrite(t *testing.T, fn func(string) error) {
	t.Helper()
	orig := write
	write = fn
	t.Cleanup(func() { write = orig })
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		name string
		msg  conversation.Message
		want string
	}{
		{
			name: "no citations",
			msg:  conversation.Message{Content: "X is Y"},
			want: "X is Y",
		},
		{
			name: "with citations",
			msg: conversation.Message{
				Content: "Ten",
				Citations: []conversation.Citation{
					{Document: "plan.pdf", Page: 3, Text: "ten dollars"},
				},
			},
			want: "Ten\n\nCitations:\n- " + conversation.Citation{Document: "plan.pdf", Page: 3, Text: "ten dollars"}.String(),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatAnswer(tc.msg); got != tc.want {
				t.Errorf("FormatAnswer() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCopyAnswer(t *testing.T) {
	var got string
	stubWrite(t, func(s string) error {
		got = s
		return nil
	})

	if err := CopyAnswer(conversation.Message{Content: "hello"}); err != nil {
		t.Fatalf("CopyAnswer: %v", err)
	}
	if got != "hello" {
		t.Errorf("clipboard got %q", got)
	}
}

func TestWriteText_Error(t *testing.T) {
	stubWrite(t, func(string) error { return errors.New("no display") })
	if err := WriteText("x"); err == nil {
		t.Error("expected error")
	}
}
