package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/zhubert/pdfqa/internal/api"
	"github.com/zhubert/pdfqa/internal/app"
	"github.com/zhubert/pdfqa/internal/config"
	"github.com/zhubert/pdfqa/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	logFilePath           string
	startupDocument       string
	version, commit, date string

	// loadConfig is swapped in tests.
	loadConfig = config.Load
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "pdfqa",
	Short: "Ask questions about your PDFs from the terminal",
	Long: `pdfqa is a terminal client for the PDF Q&A service.
Upload a PDF, ask questions about it, and browse earlier conversations.
Run 'pdfqa login' first to sign in.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", logger.DefaultLogPath, "Write logs to this file")
	rootCmd.Flags().StringVarP(&startupDocument, "document", "d", "", "Upload this PDF when the client starts")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
	if err := logger.Init(logFilePath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("pdfqa %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("pdfqa %s\n", version)
}

// errNotLoggedIn is returned by commands that need a stored token.
var errNotLoggedIn = errors.New("not logged in, run 'pdfqa login' first")

// newClient builds an API client that authenticates with the stored token.
// A 401 from the backend clears the token.
func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.GetAPIURL(), cfg,
		api.WithTimeout(cfg.GetTimeout()),
		api.OnUnauthorized(func() {
			cfg.ClearToken()
			if err := cfg.Save(); err != nil {
				logger.ComponentLogger("cmd").Error("failed to save config", "error", err)
			}
		}),
	)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if !cfg.IsLoggedIn() {
		return errNotLoggedIn
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	// Create and run the app
	m := app.New(app.Options{
		Config:          cfg,
		Backend:         newClient(cfg),
		StartupDocument: startupDocument,
	})
	defer m.Close()
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return m.ExitErr()
}
