package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cartsync/internal/match"
	"cartsync/internal/normalize"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <item line>",
		Short: "Search Walmart for one item line and show the candidates",
		Long: `Search runs a single list line through the same path a sync run uses:
normalize it into a query, search Walmart through the attached Chrome
session, and score the returned product tiles. Nothing is added to the
cart.

Useful for checking what a line would match before syncing a whole list.

Examples:
  cartsync search "2 cups (250 grams) all-purpose flour"
  cartsync search "olive oil" --cdp http://127.0.0.1:9222`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
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
		// An explicit endpoint works without Infisical.
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

	raw := strings.Join(args, " ")
	item := normalize.Line(raw)

	fmt.Printf("Query: %q", item.Query)
	if item.AltQuery != "" {
		fmt.Printf("  (alternate: %q)", item.AltQuery)
	}
	fmt.Println()

	candidates, err := session.Search(ctx, item.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(candidates) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, c := range candidates {
		line := fmt.Sprintf("  %d. %s  %s", i+1, c.Title, c.Price)
		fmt.Println(strings.TrimRight(line, " "))
		fmt.Printf("     relevance=%.2f", match.Relevance(item.Query, c.Title))
		if sz, ok := match.ParseSize(c.SizeText); ok {
			fmt.Printf("  size=%.4g oz", sz)
		} else if sz, ok := match.ParseSize(c.Title); ok {
			fmt.Printf("  size=%.4g oz", sz)
		}
		fmt.Printf("  %s\n", c.URL)
	}

	if chosen := match.ChooseBest(item, candidates); chosen != nil {
		fmt.Printf("\nBest match: %s  %s", chosen.Candidate.Title, chosen.Candidate.Price)
		if chosen.Undersized {
			fmt.Printf("  (undersized)")
		}
		fmt.Println()
	} else {
		fmt.Println("\nNo candidate fits.")
	}

	return nil
}
