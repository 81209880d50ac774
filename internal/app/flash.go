package app

import (
	"errors"

	tea "charm.land/bubbletea/v2"
	pqerrors "github.com/zhubert/pdfqa/internal/errors"
	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/ui"
)

// ShowFlash displays a flash message in the footer and returns a command to start the auto-dismiss timer
func (m *Model) ShowFlash(text string, flashType ui.FlashType) tea.Cmd {
	m.footer.SetFlash(text, flashType)
	if m.flashTick == nil {
		return nil
	}
	return m.flashTick()
}

// ShowFlashError displays an error flash message
func (m *Model) ShowFlashError(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashError)
}

// ShowFlashWarning displays a warning flash message
func (m *Model) ShowFlashWarning(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashWarning)
}

// ShowFlashInfo displays an info flash message
func (m *Model) ShowFlashInfo(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashInfo)
}

// ShowFlashSuccess displays a success flash message
func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashSuccess)
}

// flashValidation shows a rejected action's reason as a warning.
func (m *Model) flashValidation(err error) tea.Cmd {
	logger.ComponentLogger("app").Debug("action rejected", "error", err)
	text := err.Error()
	var e *pqerrors.Error
	if errors.As(err, &e) && e.Err != nil {
		text = e.Err.Error()
	}
	return m.ShowFlashWarning(text)
}
