// Package app is the interactive client: a Bubble Tea model that applies
// optimistic updates to the conversation store, runs backend calls as
// commands, and reconciles or rolls back when they complete.
package app

import (
	"context"
	"errors"
	"io"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/pdfqa/internal/api"
	"github.com/zhubert/pdfqa/internal/clipboard"
	"github.com/zhubert/pdfqa/internal/config"
	"github.com/zhubert/pdfqa/internal/conversation"
	"github.com/zhubert/pdfqa/internal/logger"
	"github.com/zhubert/pdfqa/internal/notification"
	"github.com/zhubert/pdfqa/internal/panels"
	"github.com/zhubert/pdfqa/internal/reconcile"
	"github.com/zhubert/pdfqa/internal/store"
	"github.com/zhubert/pdfqa/internal/ui"
)

// ErrLoggedOut is returned by ExitErr when the backend ended the session.
var ErrLoggedOut = errors.New("session expired, run 'pdfqa login' to sign in again")

// Backend is the subset of the API client the app uses.
type Backend interface {
	FetchConversations(ctx context.Context) ([]conversation.Conversation, error)
	AskQuestion(ctx context.Context, convID conversation.ID, question, documentID string) (api.Answer, error)
	SubmitFeedback(ctx context.Context, feedback string, convID, lastAnswerID conversation.ID) error
	UploadDocument(ctx context.Context, r io.Reader, fileName string) (conversation.Document, error)
}

// Focus represents which input has focus
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
	FocusFeedback
	FocusUpload
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	switch f {
	case FocusSidebar:
		return "Sidebar"
	case FocusChat:
		return "Chat"
	case FocusFeedback:
		return "Feedback"
	case FocusUpload:
		return "Upload"
	default:
		return "Unknown"
	}
}

// Options configures a Model.
type Options struct {
	Config  *config.Config
	Backend Backend
	// StartupDocument is uploaded once the UI starts, if set.
	StartupDocument string
	// Store defaults to a fresh store.
	Store *store.Store
}

// Model is the main Bubble Tea model
type Model struct {
	cfg     *config.Config
	backend Backend

	store    *store.Store
	recon    *reconcile.Reconciler
	queue    *RequestQueue
	viewport *panels.TerminalViewport
	panels   *panels.Controller

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	right   *ui.RightPanel

	width  int
	height int
	focus  Focus

	loading          bool
	uploading        bool
	stopwatchRunning bool
	unread           map[conversation.ID]bool

	startupDocument string
	exitErr         error

	// Side effects, swapped in tests.
	notify        func(title string) error
	copyAnswer    func(conversation.Message) error
	flashTick     func() tea.Cmd
	stopwatchTick func() tea.Cmd
}

// New creates the model.
func New(opts Options) *Model {
	s := opts.Store
	if s == nil {
		s = store.New()
	}
	vp := panels.NewTerminalViewport(0)

	m := &Model{
		cfg:             opts.Config,
		backend:         opts.Backend,
		store:           s,
		recon:           reconcile.New(s),
		queue:           NewRequestQueue(),
		viewport:        vp,
		panels:          panels.New(vp, opts.Config.GetNarrowBreakpoint()),
		header:          ui.NewHeader(),
		footer:          ui.NewFooter(),
		sidebar:         ui.NewSidebar(),
		chat:            ui.NewChat(),
		right:           ui.NewRightPanel(),
		focus:           FocusChat,
		unread:          make(map[conversation.ID]bool),
		startupDocument: opts.StartupDocument,
		notify:          notification.AnswerReady,
		copyAnswer:      clipboard.CopyAnswer,
		flashTick:       ui.FlashTick,
		stopwatchTick:   ui.StopwatchTick,
	}
	m.header.SetUsername(opts.Config.GetUsername())
	m.panels.OnChange(func(panels.PanelState) {
		m.updateSizes()
		m.syncFocus()
	})
	m.chat.SetFocused(true)
	m.syncViews()
	return m
}

// Init loads conversations and uploads the startup document, if any.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Refresh()}
	if m.startupDocument != "" {
		cmds = append(cmds, m.UploadDocument(m.startupDocument))
	}
	return tea.Batch(cmds...)
}

// ExitErr returns why the program quit, nil for a normal exit.
func (m *Model) ExitErr() error {
	return m.exitErr
}

// Close releases the panel subscription.
func (m *Model) Close() {
	m.panels.Close()
	logger.ComponentLogger("app").Debug("model closed")
}
