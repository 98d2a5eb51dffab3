// Package main provides the entry point for the cartsync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for cartsync.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cartsync",
		Short: "Sync a Mealie shopping list into a Walmart cart",
		Long: `cartsync reads a Mealie shopping list, normalizes each free-text item
into a product search query, picks the best-fitting product by size and
relevance, and adds it to the signed-in Walmart cart through an attached
Chrome session.

Credentials are read from Infisical; only the Infisical connection
settings come from the environment (or a dotenv file).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewAddCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewHomeCmd())
	cmd.AddCommand(NewItemsCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
