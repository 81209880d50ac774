// Package clipboard copies answers to the system clipboard.
package clipboard

import (
	"fmt"
	"strings"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/pdfqa/internal/conversation"
	"github.com/zhubert/pdfqa/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error

	// write is swapped out in tests; the real clipboard needs a display.
	write = func(text string) error {
		initOnce.Do(func() {
			if err := clipboard.Init(); err != nil {
				initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			}
		})
		if initErr != nil {
			return initErr
		}
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}
)

// WriteText places text on the clipboard.
func WriteText(text string) error {
	log := logger.ComponentLogger("clipboard")
	if err := write(text); err != nil {
		log.Warn("clipboard write failed", "error", err)
		return err
	}
	log.Debug("copied to clipboard", "bytes", len(text))
	return nil
}

// FormatAnswer renders an answer with its citations as plain text.
func FormatAnswer(m conversation.Message) string {
	if len(m.Citations) == 0 {
		return m.Content
	}
	var b strings.Builder
	b.WriteString(m.Content)
	b.WriteString("\n\nCitations:")
	for _, c := range m.Citations {
		b.WriteString("\n- ")
		b.WriteString(c.String())
	}
	return b.String()
}

// CopyAnswer copies an answer with its citations.
func CopyAnswer(m conversation.Message) error {
	return WriteText(FormatAnswer(m))
}
