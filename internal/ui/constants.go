// Package ui renders the conversation list, chat, and feedback panels.
package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidePanelWidthRatio is the denominator for each side panel's width
	// on a wide layout (1/4 of the terminal each)
	SidePanelWidthRatio = 4

	// MinSidePanelWidth keeps side panels usable on mid-sized terminals
	MinSidePanelWidth = 24

	// InputTotalHeight is the chat input line plus its border
	InputTotalHeight = 1 + BorderSize

	// FeedbackHeight is the number of lines for the feedback textarea
	FeedbackHeight = 4

	// DefaultWrapWidth is used when the viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight clamp layout calculations
	MinTerminalWidth  = 40
	MinTerminalHeight = 10
)

// Input limits
const (
	QuestionCharLimit = 2000
	FeedbackCharLimit = 2000
	PathCharLimit     = 1024
)

// FlashDuration is how long a flash message stays in the footer.
const FlashDuration = 4 * time.Second
