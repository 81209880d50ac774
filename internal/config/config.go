package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pqerrors "github.com/zhubert/pdfqa/internal/errors"
)

const (
	// DefaultAPIURL is used when neither the config file nor the environment names a backend.
	DefaultAPIURL = "http://localhost:37773"

	// APIURLEnvVar overrides the configured backend URL.
	APIURLEnvVar = "PDFQA_API_URL"

	// DefaultTimeoutSeconds bounds every backend call.
	DefaultTimeoutSeconds = 10

	// DefaultNarrowBreakpoint is the terminal width (columns) below which the
	// layout collapses to a single visible panel.
	DefaultNarrowBreakpoint = 100
)

// Config holds the application configuration
type Config struct {
	APIURL               string `json:"api_url,omitempty"`
	Token                string `json:"token,omitempty"`
	Username             string `json:"username,omitempty"`
	CompanyCode          string `json:"company_code,omitempty"`
	TimeoutSeconds       int    `json:"timeout_seconds,omitempty"`
	NarrowBreakpoint     int    `json:"narrow_breakpoint,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notification when a background answer lands

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pdfqa"), nil
}

// Load reads the config from ~/.pdfqa/config.json, or returns defaults if it doesn't exist
func Load() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.json"))
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, pqerrors.ConfigLoadFailed(path, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, pqerrors.ConfigLoadFailed(path, err)
		}
	}

	cfg.applyDefaults()
	if env := strings.TrimSpace(os.Getenv(APIURLEnvVar)); env != "" {
		cfg.APIURL = env
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values. Only called from LoadFrom before the
// Config is shared.
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.NarrowBreakpoint == 0 {
		c.NarrowBreakpoint = DefaultNarrowBreakpoint
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return pqerrors.ConfigInvalid(fmt.Sprintf("api_url %q must be an http(s) URL", c.APIURL))
	}
	if c.TimeoutSeconds < 0 {
		return pqerrors.ConfigInvalid(fmt.Sprintf("timeout_seconds must be positive, got %d", c.TimeoutSeconds))
	}
	if c.NarrowBreakpoint < 0 {
		return pqerrors.ConfigInvalid(fmt.Sprintf("narrow_breakpoint must be positive, got %d", c.NarrowBreakpoint))
	}
	return nil
}

// Save writes the config to disk. The token is stored, so the file is private.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return pqerrors.ConfigSaveFailed("", fmt.Errorf("config has no file path"))
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0700); err != nil {
		return pqerrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return pqerrors.ConfigSaveFailed(c.filePath, err)
	}
	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return pqerrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Path returns the file the config is saved to
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// GetAPIURL returns the backend base URL without a trailing slash
func (c *Config) GetAPIURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimRight(c.APIURL, "/")
}

// GetTimeout returns the per-request timeout
func (c *Config) GetTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetNarrowBreakpoint returns the width below which the viewport is narrow
func (c *Config) GetNarrowBreakpoint() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NarrowBreakpoint
}

// BearerToken returns the stored token, empty when logged out.
// It satisfies api.TokenSource.
func (c *Config) BearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Token
}

// IsLoggedIn reports whether a token is stored
func (c *Config) IsLoggedIn() bool {
	return c.BearerToken() != ""
}

// SetCredentials stores the token and the identity it was issued for
func (c *Config) SetCredentials(token, username, companyCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Token = token
	c.Username = username
	c.CompanyCode = companyCode
}

// ClearToken forgets the bearer token but keeps the username for the next login
func (c *Config) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Token = ""
}

// GetUsername returns the last logged-in username
func (c *Config) GetUsername() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Username
}

// GetCompanyCode returns the last used company code
func (c *Config) GetCompanyCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CompanyCode
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
