package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestLevels(t *testing.T) {
	logPath := setupTestLogger(t)

	log := ComponentLogger("test")
	log.Debug("hidden-debug")
	log.Info("visible-info", "n", 1)
	log.Warn("visible-warn")
	log.Error("visible-error")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-debug") {
		t.Error("debug message should be filtered at info level")
	}
	for _, want := range []string{"visible-info", "n=1", "visible-warn", "visible-error"} {
		if !strings.Contains(content, want) {
			t.Errorf("log should contain %q", want)
		}
	}
}

func TestSetDebug(t *testing.T) {
	logPath := setupTestLogger(t)

	SetDebug(true)
	ComponentLogger("test").Debug("now-visible")
	SetDebug(false)
	ComponentLogger("test").Debug("hidden-again")

	content := readLog(t, logPath)
	if !strings.Contains(content, "now-visible") {
		t.Error("debug message should be written when debug is enabled")
	}
	if strings.Contains(content, "hidden-again") {
		t.Error("debug message should be filtered after SetDebug(false)")
	}
}

func TestSetLevel_AppliesBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetLevel(LevelWarn)
	logPath := filepath.Join(t.TempDir(), "warn.log")
	if err := Init(logPath); err != nil {
		t.Fatal(err)
	}
	ComponentLogger("test").Info("hidden-info")
	ComponentLogger("test").Warn("visible-warn")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden-info") || !strings.Contains(content, "visible-warn") {
		t.Errorf("warn level not applied: %q", content)
	}
}

func TestPathAndClearLogs(t *testing.T) {
	logPath := setupTestLogger(t)
	if got := Path(); got != logPath {
		t.Fatalf("Path() = %q, want %q", got, logPath)
	}
	if err := os.WriteFile(logPath+".1", []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	Close()
	n, err := ClearLogs()
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d files, want 2", n)
	}
	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("log file should be removed")
	}

	Reset()
	if got := Path(); got != DefaultLogPath {
		t.Errorf("Path() after Reset = %q, want default", got)
	}
}

func TestComponentLogger(t *testing.T) {
	logPath := setupTestLogger(t)

	ComponentLogger("store").Info("appended", "conversation", "temp-1")
	WithConversation("42").Warn("rolled back")

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=store") {
		t.Error("expected component attribute")
	}
	if !strings.Contains(content, "conversation=temp-1") {
		t.Error("expected structured attribute")
	}
	if !strings.Contains(content, "conversation=42") {
		t.Error("expected conversation attribute")
	}
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.log")
	second := filepath.Join(dir, "b.log")

	Reset()
	if err := Init(first); err != nil {
		t.Fatal(err)
	}
	ComponentLogger("test").Info("to-first")
	Reset()
	if err := Init(second); err != nil {
		t.Fatal(err)
	}
	ComponentLogger("test").Info("to-second")
	Reset()

	if c := readLog(t, first); strings.Contains(c, "to-second") || !strings.Contains(c, "to-first") {
		t.Errorf("first log has wrong content: %q", c)
	}
	if c := readLog(t, second); strings.Contains(c, "to-first") || !strings.Contains(c, "to-second") {
		t.Errorf("second log has wrong content: %q", c)
	}
}

func TestConcurrentLogging(t *testing.T) {
	setupTestLogger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ComponentLogger("test").Info("concurrent", "n", n, "j", j)
				WithConversation("42").Debug("structured", "n", n)
			}
		}(i)
	}
	wg.Wait()
}
