package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// FlashType is the severity of a footer flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// Flash is a transient footer message.
type Flash struct {
	Text      string
	Type      FlashType
	ExpiresAt time.Time
}

// FlashTickMsg is sent when a flash may have expired.
type FlashTickMsg time.Time

// FlashTick schedules the next expiry check.
func FlashTick() tea.Cmd {
	return tea.Tick(FlashDuration, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}
