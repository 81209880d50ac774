package ui

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/zhubert/pdfqa/internal/conversation"
)

// RightField is the input focused inside the right panel.
type RightField int

const (
	FieldNone RightField = iota
	FieldFeedback
	FieldUpload
)

// RightPanel shows the current document, the feedback form, and the
// upload path input.
type RightPanel struct {
	feedback textarea.Model
	upload   textinput.Model

	width  int
	height int
	field  RightField

	document    conversation.Document
	hasDocument bool
	uploading   bool
}

// NewRightPanel creates the right panel
func NewRightPanel() *RightPanel {
	ta := textarea.New()
	ta.Placeholder = "Tell us how the answers could be better..."
	ta.CharLimit = FeedbackCharLimit
	ta.ShowLineNumbers = false
	ta.SetHeight(FeedbackHeight)

	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.CharLimit = PathCharLimit
	ti.Prompt = ""

	return &RightPanel{feedback: ta, upload: ti}
}

// SetSize sets the panel dimensions
func (r *RightPanel) SetSize(width, height int) {
	r.width = width
	r.height = height
	inner := max(GetViewContext().InnerWidth(width)-2, 1)
	r.feedback.SetWidth(inner)
	r.upload.SetWidth(inner)
}

// Focus moves input focus to a field. FieldNone blurs both.
func (r *RightPanel) Focus(field RightField) tea.Cmd {
	r.field = field
	r.feedback.Blur()
	r.upload.Blur()
	switch field {
	case FieldFeedback:
		return r.feedback.Focus()
	case FieldUpload:
		return r.upload.Focus()
	}
	return nil
}

// FocusedField returns the focused field
func (r *RightPanel) FocusedField() RightField {
	return r.field
}

// FeedbackValue returns the feedback text
func (r *RightPanel) FeedbackValue() string {
	return r.feedback.Value()
}

// SetFeedback replaces the feedback text
func (r *RightPanel) SetFeedback(s string) {
	r.feedback.SetValue(s)
}

// ClearFeedback empties the feedback form
func (r *RightPanel) ClearFeedback() {
	r.feedback.Reset()
}

// UploadPath returns the typed document path
func (r *RightPanel) UploadPath() string {
	return r.upload.Value()
}

// SetUploadPath replaces the document path
func (r *RightPanel) SetUploadPath(s string) {
	r.upload.SetValue(s)
}

// ClearUpload empties the path input
func (r *RightPanel) ClearUpload() {
	r.upload.Reset()
}

// SetDocument shows the current document, or none when ok is false
func (r *RightPanel) SetDocument(doc conversation.Document, ok bool) {
	r.document = doc
	r.hasDocument = ok
}

// SetUploading toggles the upload-in-progress marker
func (r *RightPanel) SetUploading(uploading bool) {
	r.uploading = uploading
}

// Update forwards input to the focused field
func (r *RightPanel) Update(msg tea.Msg) (*RightPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch r.field {
	case FieldFeedback:
		r.feedback, cmd = r.feedback.Update(msg)
	case FieldUpload:
		r.upload, cmd = r.upload.Update(msg)
	}
	return r, cmd
}

func (r *RightPanel) renderDocument() string {
	muted := lipgloss.NewStyle().Foreground(ColorTextMuted)
	if r.uploading {
		return StatusLoadingStyle.Render("Uploading...")
	}
	if !r.hasDocument {
		return muted.Italic(true).Render("No document uploaded")
	}
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorText).Bold(true).Render(r.document.Name))
	if !r.document.UploadDate.IsZero() {
		sb.WriteString("\n")
		sb.WriteString(muted.Render("Uploaded " + r.document.UploadDate.Local().Format("Jan 2, 2006 15:04")))
	}
	return sb.String()
}

// View renders the right panel
func (r *RightPanel) View() string {
	style := PanelStyle
	if r.field != FieldNone {
		style = PanelFocusedStyle
	}

	feedbackStyle := ChatInputStyle
	if r.field == FieldFeedback {
		feedbackStyle = ChatInputFocusedStyle
	}
	uploadStyle := ChatInputStyle
	if r.field == FieldUpload {
		uploadStyle = ChatInputFocusedStyle
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		PanelTitleStyle.Render("Document"),
		" "+r.renderDocument(),
		"",
		PanelTitleStyle.Render("Upload PDF"),
		uploadStyle.Render(r.upload.View()),
		"",
		PanelTitleStyle.Render("Feedback"),
		feedbackStyle.Render(r.feedback.View()),
	)
	return style.Width(r.width).Height(r.height).Render(content)
}
