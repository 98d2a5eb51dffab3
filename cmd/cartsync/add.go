package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <product-url>",
		Short: "Add a single product page to the cart",
		Long: `Add navigates to one product page in the attached Chrome session and
clicks "Add to cart", verifying the cart actually changed.

Useful for smoke-testing the cart flow against a known product before
running a full sync.

Example:
  cartsync add https://www.walmart.com/ip/123456789`,
		Args: cobra.ExactArgs(1),
		RunE: runAddCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runAddCmd executes the add command.
func runAddCmd(cmd *cobra.Command, args []string) error {
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

	ok, err := session.AddToCart(ctx, args[0])
	if err != nil {
		return fmt.Errorf("add to cart failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("could not verify the cart changed for %s", args[0])
	}

	fmt.Println("Added to cart.")
	return nil
}
