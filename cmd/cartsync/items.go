package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cartsync/internal/config"
	"cartsync/internal/mealie"
	"cartsync/internal/normalize"
)

// NewItemsCmd creates the items command.
func NewItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Show the shopping list and the queries it would produce",
		Long: `Items fetches the configured Mealie shopping list and prints each raw
line next to the search query normalization would produce for it. No
browser session is opened and nothing is searched.

Examples:
  cartsync items
  cartsync items --list "Party Supplies"`,
		Args: cobra.NoArgs,
		RunE: runItemsCmd,
	}

	addCommonFlags(cmd)

	cmd.Flags().StringP("list", "l", config.DefaultListName,
		"Mealie shopping list name (matched case-insensitively)")

	return cmd
}

// runItemsCmd executes the items command.
func runItemsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("list") {
		cfg.ListName, err = cmd.Flags().GetString("list")
		if err != nil {
			return err
		}
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

	client := mealie.NewClient(secrets.MealieURL, secrets.MealieAPIKey)
	list, err := client.ShoppingListByName(ctx, cfg.ListName)
	if err != nil {
		return fmt.Errorf("failed to resolve shopping list %q: %w", cfg.ListName, err)
	}

	items, err := client.ListItems(ctx, list.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch items for %q: %w", list.Name, err)
	}

	fmt.Printf("%s (%d items)\n\n", list.Name, len(items))
	for i, item := range items {
		normalized := normalize.Line(item.Display)
		fmt.Printf("  %d. %s\n", i+1, item.Display)
		fmt.Printf("     query: %q", normalized.Query)
		if normalized.AltQuery != "" {
			fmt.Printf("  alternate: %q", normalized.AltQuery)
		}
		if normalized.Ounces != nil {
			fmt.Printf("  size: %.4g oz", *normalized.Ounces)
		} else if normalized.Grams != nil {
			fmt.Printf("  size: %.4g g", *normalized.Grams)
		}
		fmt.Println()
	}

	return nil
}
