package ui

import (
	"regexp"
	"strings"
	"testing"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI escape codes from a string for testing
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestHeader_View(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		username string
		loading  bool
		contains []string
	}{
		{"app name only", "", "", false, []string{"pdfqa"}},
		{"with conversation", "Budget review", "", false, []string{"pdfqa", "Budget review"}},
		{"with user", "", "ana", false, []string{"pdfqa", "ana"}},
		{"loading", "", "ana", true, []string{"loading", "ana"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHeader()
			h.SetWidth(80)
			h.SetConversationTitle(tc.title)
			h.SetUsername(tc.username)
			h.SetLoading(tc.loading)

			view := stripANSI(h.View())
			for _, want := range tc.contains {
				if !strings.Contains(view, want) {
					t.Errorf("header %q does not contain %q", view, want)
				}
			}
		})
	}
}

func TestHeader_TruncatesLongTitle(t *testing.T) {
	h := NewHeader()
	h.SetWidth(40)
	h.SetUsername("ana")
	h.SetConversationTitle(strings.Repeat("very long title ", 10))

	view := stripANSI(h.View())
	if !strings.Contains(view, "ana") {
		t.Errorf("username pushed out of view: %q", view)
	}
	if !strings.Contains(view, "…") {
		t.Errorf("expected truncation marker in %q", view)
	}
}
