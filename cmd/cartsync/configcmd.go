package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cartsync/internal/config"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the Infisical-backed configuration",
	}

	cmd.AddCommand(newConfigKeysCmd())
	cmd.AddCommand(newConfigCheckCmd())

	return cmd
}

// newConfigKeysCmd creates the config keys subcommand.
func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the secret keys a run requires",
		Long: `Keys prints the Infisical secret names a sync run cannot start
without. Use it when provisioning a new Infisical project.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, key := range config.RequiredKeys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
		},
	}
}

// newConfigCheckCmd creates the config check subcommand.
func newConfigCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every required secret is present in Infisical",
		Long: `Check authenticates against Infisical and verifies every required
secret exists with a real value. Secret values are never printed.

Examples:
  cartsync config check
  cartsync config check --env prod`,
		Args: cobra.NoArgs,
		RunE: runConfigCheckCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runConfigCheckCmd executes the config check subcommand.
func runConfigCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if _, err := loadSecrets(ctx, cfg); err != nil {
		return err
	}

	fmt.Printf("All %d required secrets are present in environment %q.\n",
		len(config.RequiredKeys), cfg.Environment)
	return nil
}
