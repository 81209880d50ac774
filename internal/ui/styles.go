package ui

import "charm.land/lipgloss/v2"

// Color palette
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#7C3AED") // Purple when focused
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorBgSelected  = lipgloss.Color("#4C1D95") // Selected list row
	ColorQuestion    = lipgloss.Color("#A78BFA") // Light purple for questions
	ColorAnswer      = lipgloss.Color("#22D3EE") // Bright cyan for answers
	ColorWarning     = lipgloss.Color("#F59E0B")
	ColorInfo        = lipgloss.Color("#06B6D4")
	ColorError       = lipgloss.Color("#EF4444")
	ColorSuccess     = lipgloss.Color("#10B981")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	HeaderMutedStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Background(ColorPrimary)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)
)

// Sidebar styles
var (
	SidebarItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Background(ColorBgSelected).
				Foreground(ColorText).
				Bold(true).
				Padding(0, 1)

	SidebarCurrentStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Padding(0, 1)

	SidebarActionStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true).
				Padding(0, 1)
)

// Chat styles
var (
	ChatQuestionStyle = lipgloss.NewStyle().
				Foreground(ColorQuestion).
				Bold(true)

	ChatAnswerStyle = lipgloss.NewStyle().
			Foreground(ColorAnswer).
			Bold(true)

	ChatMessageStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	ChatCitationStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)

	ChatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus).
				Padding(0, 1)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)
)

// Status styles
var (
	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)
)

// Flash styles, keyed by severity
var flashStyles = map[FlashType]lipgloss.Style{
	FlashInfo:    lipgloss.NewStyle().Foreground(ColorInfo).Padding(0, 1),
	FlashSuccess: lipgloss.NewStyle().Foreground(ColorSuccess).Padding(0, 1),
	FlashWarning: lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Padding(0, 1),
	FlashError:   lipgloss.NewStyle().Foreground(ColorError).Bold(true).Padding(0, 1),
}
