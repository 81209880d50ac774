package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/zhubert/pdfqa/internal/conversation"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("username") != "ada" || q.Get("password") != "secret" || q.Get("companyCode") != "ACME" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	}))
	defer server.Close()

	cfg := useConfig(t, server.URL)
	origPrompt := promptCredentials
	defer func() { promptCredentials = origPrompt }()
	promptCredentials = func(c *credentials) error {
		c.Username, c.Password, c.CompanyCode = "ada", "secret", "ACME"
		return nil
	}

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runLogin(cmd, nil); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	if cfg.BearerToken() != "fresh-token" {
		t.Errorf("token = %q", cfg.BearerToken())
	}
	if cfg.GetCompanyCode() != "ACME" {
		t.Errorf("company code = %q", cfg.GetCompanyCode())
	}
	if !strings.Contains(out.String(), "Logged in as ada") {
		t.Errorf("output = %q", out.String())
	}
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := useConfig(t, server.URL)
	err := login(context.Background(), cfg, credentials{Username: "ada", Password: "wrong", CompanyCode: "ACME"})
	if err == nil {
		t.Fatal("expected error")
	}
	if cfg.IsLoggedIn() {
		t.Error("no token should be stored")
	}
}

func TestRequired(t *testing.T) {
	check := required("username")
	if err := check("  "); err == nil {
		t.Error("blank value should fail")
	}
	if err := check("ada"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogout(t *testing.T) {
	cfg := useConfig(t, "")
	cfg.SetCredentials("tok", "ada", "ACME")

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runLogout(cmd, nil); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	if cfg.IsLoggedIn() {
		t.Error("token should be cleared")
	}
	if !strings.Contains(out.String(), "Logged out.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestConversationsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id": 7, "title": "Quarterly report", "timestamp": "2026-03-01T10:00:00Z", "messages": []}]`))
	}))
	defer server.Close()

	cfg := useConfig(t, server.URL)
	cfg.SetCredentials("tok", "ada", "ACME")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runConversations(cmd, nil); err != nil {
		t.Fatalf("runConversations: %v", err)
	}
	if !strings.Contains(out.String(), "Quarterly report") || !strings.Contains(out.String(), "7") {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrintConversations(t *testing.T) {
	var out bytes.Buffer
	printConversations(&out, nil)
	if !strings.Contains(out.String(), "No conversations yet.") {
		t.Errorf("empty output = %q", out.String())
	}

	out.Reset()
	printConversations(&out, []conversation.Conversation{{
		ID:        conversation.Persisted("12"),
		Title:     "Contracts",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}})
	if !strings.Contains(out.String(), "Contracts") || !strings.Contains(out.String(), "0 msgs") {
		t.Errorf("output = %q", out.String())
	}
}
