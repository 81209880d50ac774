// Package notification sends desktop notifications through beeep.
package notification

import (
	"github.com/gen2brain/beeep"
	"github.com/zhubert/pdfqa/internal/logger"
)

// AppName is the title used for all notifications.
const AppName = "PDF Q&A"

// notifyFunc matches beeep.Notify.
type notifyFunc func(title, message string, icon any) error

var notify notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend (for testing).
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores beeep.
func ResetNotifier() {
	notify = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.ComponentLogger("notification")
	log.Debug("sending notification", "title", title)
	// Empty icon lets beeep pick the platform default.
	err := notify(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// AnswerReady tells the user an answer arrived for a conversation they
// are not looking at.
func AnswerReady(conversationTitle string) error {
	return Send(AppName, "Answer ready in \""+conversationTitle+"\"")
}
