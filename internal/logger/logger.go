package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is for verbose debugging information
	LevelDebug LogLevel = iota
	// LevelInfo is for general operational information
	LevelInfo
	// LevelWarn is for warning conditions
	LevelWarn
	// LevelError is for error conditions
	LevelError
)

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogPath is where the client logs unless Init is called with another path.
const DefaultLogPath = "/tmp/pdfqa-debug.log"

var (
	mu           sync.Mutex
	slogLogger   *slog.Logger
	levelVar     = new(slog.LevelVar)
	logFile      *os.File
	logPath      = DefaultLogPath
	initDone     bool
	currentLevel = LevelInfo
)

// SetLevel sets the minimum log level to output
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	levelVar.Set(level.toSlogLevel())
}

// SetDebug toggles between debug and info level
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelInfo)
	}
}

// Init opens the log file at path. Calling it again without Reset is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if initDone {
		return nil
	}
	return openLocked(path)
}

// openLocked opens the log file and installs the handler. Caller must hold mu.
func openLocked(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	logPath = path
	levelVar.Set(currentLevel.toSlogLevel())
	slogLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true
	slogLogger.Info("Logger initialized", "path", path)
	return nil
}

// ensureInitLocked falls back to DefaultLogPath on first use. Caller must hold mu.
func ensureInitLocked() {
	if initDone {
		return
	}
	if err := openLocked(DefaultLogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		// Avoid retrying on every call.
		initDone = true
	}
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
}

// Reset returns the package to its uninitialized state. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	initDone = false
	slogLogger = nil
	logPath = DefaultLogPath
	currentLevel = LevelInfo
	levelVar = new(slog.LevelVar)
}

// Path returns the log file in use, or the default before Init.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// ClearLogs removes the current log file and any rotated siblings.
func ClearLogs() (int, error) {
	matches, err := filepath.Glob(Path() + "*")
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range matches {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}

// ComponentLogger returns a structured logger tagged with the component name.
//
//	log := logger.ComponentLogger("store")
//	log.Debug("message appended", "conversation", id)
func ComponentLogger(component string) *slog.Logger {
	return with(slog.String("component", component))
}

// WithConversation returns a structured logger tagged with a conversation id.
func WithConversation(id string) *slog.Logger {
	return with(slog.String("conversation", id))
}

func with(attr slog.Attr) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInitLocked()
	if slogLogger == nil {
		return slog.Default().With(attr)
	}
	return slogLogger.With(attr)
}
