package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewHomeCmd creates the home command.
func NewHomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Open the Walmart home page and save a screenshot",
		Long: `Home navigates the attached Chrome session to the Walmart home page
and saves a screenshot to the artifact directory. This is the quickest
way to confirm the browser connection works and to see whether the
session is currently stuck on a challenge page.`,
		Args: cobra.NoArgs,
		RunE: runHomeCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runHomeCmd executes the home command.
func runHomeCmd(cmd *cobra.Command, _ []string) error {
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
		if cfg.CDPURL == "" {
			return err
		}
		logger.Debug("continuing without secrets", "error", err)
		secrets = nil
	}

	session, err := connectSession(ctx, cfg, secrets, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	shotPath := filepath.Join(cfg.ArtifactDir, "home.png")
	if err := session.HomeScreenshot(ctx, shotPath); err != nil {
		return fmt.Errorf("failed to capture home page: %w", err)
	}

	fmt.Printf("Screenshot saved to %s\n", shotPath)
	return nil
}
