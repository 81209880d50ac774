package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/huh/v2"
	"github.com/spf13/cobra"
	"github.com/zhubert/pdfqa/internal/api"
	"github.com/zhubert/pdfqa/internal/config"
	"github.com/zhubert/pdfqa/internal/logger"
)

// credentials is what the login form collects.
type credentials struct {
	Username    string
	Password    string
	CompanyCode string
}

// promptCredentials is swapped in tests.
var promptCredentials = runLoginForm

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the PDF Q&A service",
	Long: `Prompts for username, password and company code, exchanges them for a
token and stores it in ~/.pdfqa/config.json.`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	defer logger.Close()

	creds := credentials{Username: cfg.GetUsername(), CompanyCode: cfg.GetCompanyCode()}
	if err := promptCredentials(&creds); err != nil {
		return err
	}
	if err := login(cmd.Context(), cfg, creds); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", creds.Username)
	return nil
}

// login exchanges credentials for a token and saves it.
func login(ctx context.Context, cfg *config.Config, creds credentials) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client := api.New(cfg.GetAPIURL(), api.StaticToken(""), api.WithTimeout(cfg.GetTimeout()))
	token, err := client.Login(ctx, creds.Username, creds.Password, creds.CompanyCode)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.SetCredentials(token, creds.Username, creds.CompanyCode)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	logger.ComponentLogger("cmd").Info("logged in", "username", creds.Username)
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func runLoginForm(creds *credentials) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&creds.Username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(required("password")),
			huh.NewInput().
				Title("Company code").
				Value(&creds.CompanyCode).
				Validate(required("company code")),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("login cancelled")
		}
		return err
	}
	creds.Username = strings.TrimSpace(creds.Username)
	creds.CompanyCode = strings.TrimSpace(creds.CompanyCode)
	return nil
}
