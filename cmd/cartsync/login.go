package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Walmart in the attached browser session",
		Long: `Login checks whether the attached Chrome session is signed in to
Walmart and, if not, fills the sign-in form with the credentials from
Infisical. On success the session's cookies and storage are saved so
later runs can confirm what state the cart session carried.

Walmart may answer a scripted sign-in with a challenge page. When that
happens, solve it manually in the attached browser and re-run login.`,
		Args: cobra.NoArgs,
		RunE: runLoginCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runLoginCmd executes the login command.
func runLoginCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, cancel := signalContext(logger)
	defer cancel()

	secrets, err := loadSecrets(ctx, cfg)
	if err != nil {
		return err
	}

	session, err := connectSession(ctx, cfg, secrets, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	statePath := filepath.Join(cfg.ArtifactDir, "storage_state.json")
	if err := session.EnsureLoggedIn(ctx, secrets.WalmartEmail, secrets.WalmartPassword, statePath); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("Signed in.")
	fmt.Printf("Session state saved to %s\n", statePath)
	return nil
}
