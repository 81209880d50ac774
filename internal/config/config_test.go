package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pqerrors "github.com/zhubert/pdfqa/internal/errors"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(APIURLEnvVar, "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.GetAPIURL() != DefaultAPIURL {
		t.Errorf("api url = %q, want %q", cfg.GetAPIURL(), DefaultAPIURL)
	}
	if cfg.GetTimeout() != DefaultTimeoutSeconds*time.Second {
		t.Errorf("timeout = %v", cfg.GetTimeout())
	}
	if cfg.GetNarrowBreakpoint() != DefaultNarrowBreakpoint {
		t.Errorf("breakpoint = %d", cfg.GetNarrowBreakpoint())
	}
	if cfg.IsLoggedIn() {
		t.Error("fresh config should not be logged in")
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv(APIURLEnvVar, "")
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg.SetCredentials("tok-123", "ada", "ACME")
	cfg.SetNotificationsEnabled(true)
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.BearerToken() != "tok-123" {
		t.Errorf("token = %q", reloaded.BearerToken())
	}
	if reloaded.GetUsername() != "ada" || reloaded.GetCompanyCode() != "ACME" {
		t.Errorf("identity = %q/%q", reloaded.GetUsername(), reloaded.GetCompanyCode())
	}
	if !reloaded.GetNotificationsEnabled() {
		t.Error("notifications flag not persisted")
	}

	reloaded.ClearToken()
	if reloaded.IsLoggedIn() {
		t.Error("ClearToken should log out")
	}
	if reloaded.GetUsername() != "ada" {
		t.Error("ClearToken should keep the username")
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv(APIURLEnvVar, "https://qa.example.com/")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GetAPIURL() != "https://qa.example.com" {
		t.Errorf("api url = %q", cfg.GetAPIURL())
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Setenv(APIURLEnvVar, "")
	tests := []struct {
		name    string
		content string
		kind    pqerrors.Kind
	}{
		{"malformed json", `{"api_url":`, pqerrors.KindConfig},
		{"bad scheme", `{"api_url":"ftp://x"}`, pqerrors.KindInvalid},
		{"negative timeout", `{"timeout_seconds":-1}`, pqerrors.KindInvalid},
		{"negative breakpoint", `{"narrow_breakpoint":-5}`, pqerrors.KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !pqerrors.Is(err, tt.kind) {
				t.Errorf("error kind = %v, want %v (%v)", pqerrors.GetKind(err), tt.kind, err)
			}
		})
	}
}
