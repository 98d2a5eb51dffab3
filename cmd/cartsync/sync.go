package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cartsync/internal/browser"
	"cartsync/internal/config"
	"cartsync/internal/database"
	"cartsync/internal/log"
	"cartsync/internal/mealie"
	"cartsync/internal/model"
	"cartsync/internal/pipeline"
	"cartsync/internal/report"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the shopping list into the Walmart cart",
		Long: `Sync reads the configured Mealie shopping list and processes every item:
normalize the free-text line into a search query, search Walmart through
the attached Chrome session, pick the best-fitting product by size and
relevance, and add it to the cart.

A bot block latches the run: the blocked item fails, and all later items
are recorded as skipped without touching the site again. Use --skip to
resume from where a blocked run stopped.

Examples:
  # Preview without touching the cart
  cartsync sync --dry-run

  # Sync a different list with a pause between items
  cartsync sync --list "Party Supplies" --delay 5s

  # Resume a run that was cut short after item 12
  cartsync sync --skip 12

  # Write a Markdown report to a file
  cartsync sync --markdown --output report.md`,
		Args: cobra.NoArgs,
		RunE: runSyncCmd,
	}

	addCommonFlags(cmd)

	cmd.Flags().BoolP("dry-run", "n", false,
		"Select products but never add them to the cart")
	cmd.Flags().StringP("list", "l", config.DefaultListName,
		"Mealie shopping list name (matched case-insensitively)")
	cmd.Flags().Int("limit", 0,
		"Process at most this many items (0 means all)")
	cmd.Flags().Int("skip", 0,
		"Skip the first N items before processing")
	cmd.Flags().DurationP("delay", "d", config.DefaultItemDelay,
		"Pause between items")
	cmd.Flags().Int("search-limit", config.DefaultSearchLimit,
		"Product tiles read per search results page")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// addCommonFlags registers the flags shared by every command that talks
// to Infisical or the browser.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("cdp", "",
		"Chrome DevTools endpoint (default: browserless gateway from Infisical, then "+config.DefaultCDPURL+")")
	cmd.Flags().StringP("env", "e", config.DefaultEnvironment,
		"Infisical environment slug to read secrets from")
	cmd.Flags().String("env-file", "",
		"Dotenv file with the Infisical connection settings")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: "+config.DefaultConfigFile+" in current or home directory)")
}

// runSyncCmd executes the sync command.
func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	// list, delay and search-limit have config file counterparts; only an
	// explicitly set flag overrides the file.
	if cmd.Flags().Changed("list") {
		cfg.ListName, err = cmd.Flags().GetString("list")
		if err != nil {
			return err
		}
	}
	cfg.Limit, err = cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	cfg.Skip, err = cmd.Flags().GetInt("skip")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("delay") {
		cfg.ItemDelay, err = cmd.Flags().GetDuration("delay")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("search-limit") {
		cfg.SearchLimit, err = cmd.Flags().GetInt("search-limit")
		if err != nil {
			return err
		}
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runSync(ctx, cfg, logger)
}

// runSync executes the sync run.
func runSync(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	secrets, err := loadSecrets(ctx, cfg)
	if err != nil {
		return err
	}

	list, lines, err := fetchListLines(ctx, cfg, secrets)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Printf("Shopping list %q is empty, nothing to do.\n", list.Name)
		return nil
	}

	logger.Info("starting sync",
		"list", list.Name,
		"items", len(lines),
		"dryRun", cfg.DryRun,
	)

	session, err := connectSession(ctx, cfg, secrets, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to close browser session", "error", err)
		}
	}()

	runReport := model.NewRunReport(list.Name, cfg.DryRun)

	fmt.Printf("Syncing %d items from %q...\n", len(lines), list.Name)
	startTime := time.Now()

	runner := pipeline.NewRunner(session, cfg.DryRun, cfg.ItemDelay, logger)
	if err := runner.Run(ctx, lines, runReport); err != nil {
		// Still report what completed before cancellation.
		if outErr := outputReport(cfg, runReport); outErr != nil {
			logger.Error("report failed", "error", outErr)
		}
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Sync completed in %s\n\n", elapsed.Round(time.Millisecond))

	if err := outputReport(cfg, runReport); err != nil {
		logger.Error("report failed", "error", err)
	}

	if err := saveRunReport(ctx, cfg, runReport, logger); err != nil {
		logger.Error("failed to save run report", "error", err)
	}

	if runReport.HasFailures() {
		return fmt.Errorf("completed with %d failed items (%d never attempted after a bot block)",
			runReport.Failed, runReport.BotBlocked)
	}
	return nil
}

// fetchListLines resolves the shopping list and returns its item lines
// with the configured skip and limit applied.
func fetchListLines(ctx context.Context, cfg *config.Config, secrets *config.Secrets) (mealie.ShoppingList, []string, error) {
	client := mealie.NewClient(secrets.MealieURL, secrets.MealieAPIKey)

	list, err := client.ShoppingListByName(ctx, cfg.ListName)
	if err != nil {
		return mealie.ShoppingList{}, nil, fmt.Errorf("failed to resolve shopping list %q: %w", cfg.ListName, err)
	}

	items, err := client.ListItems(ctx, list.ID)
	if err != nil {
		return mealie.ShoppingList{}, nil, fmt.Errorf("failed to fetch items for %q: %w", list.Name, err)
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Display)
	}

	if cfg.Skip > 0 {
		if cfg.Skip >= len(lines) {
			lines = nil
		} else {
			lines = lines[cfg.Skip:]
		}
	}
	if cfg.Limit > 0 && cfg.Limit < len(lines) {
		lines = lines[:cfg.Limit]
	}

	return list, lines, nil
}

// buildConfig creates a Config from the common cobra flags plus the
// optional config file. Command-specific flags are read by the caller.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently skip when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags win over the file, so apply them only when explicitly set.
	if cmd.Flags().Changed("cdp") {
		cfg.CDPURL, err = cmd.Flags().GetString("cdp")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("env") {
		cfg.Environment, err = cmd.Flags().GetString("env")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("env-file") {
		cfg.EnvFile, err = cmd.Flags().GetString("env-file")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates a credential-masking structured logger based on
// the verbose flag.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadSecrets fetches the required credentials from Infisical.
func loadSecrets(ctx context.Context, cfg *config.Config) (*config.Secrets, error) {
	client, err := config.NewInfisicalClientFromEnv(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	secrets, err := client.LoadSecrets(ctx, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return secrets, nil
}

// connectSession attaches to the Chrome session the run drives.
// An explicit --cdp endpoint wins; otherwise the browserless gateway
// from Infisical is used, falling back to the local default.
func connectSession(ctx context.Context, cfg *config.Config, secrets *config.Secrets, logger *slog.Logger) (*browser.Session, error) {
	cdpURL, err := resolveCDPURL(cfg, secrets)
	if err != nil {
		return nil, err
	}

	session, err := browser.Connect(ctx, browser.Options{
		CDPURL:            cdpURL,
		NavigationTimeout: cfg.NavigationTimeout,
		BlockPollInterval: cfg.BlockPollInterval,
		BlockTimeout:      cfg.BlockTimeout,
		SearchLimit:       cfg.SearchLimit,
		ArtifactDir:       cfg.ArtifactDir,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to browser: %w", err)
	}
	return session, nil
}

// resolveCDPURL picks the DevTools endpoint for this run.
func resolveCDPURL(cfg *config.Config, secrets *config.Secrets) (string, error) {
	if cfg.CDPURL != "" {
		return cfg.CDPURL, nil
	}
	if secrets != nil && secrets.BrowserlessURL != "" {
		return browser.GatewayEndpoint(secrets.BrowserlessURL, secrets.BrowserlessToken)
	}
	return config.DefaultCDPURL, nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports carry the account's shopping history, so restrict them
		// to the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(runReport)
	return err
}

// saveRunReport persists the run to the history database.
// A missing DBDir disables persistence.
func saveRunReport(ctx context.Context, cfg *config.Config, runReport *model.RunReport, logger *slog.Logger) error {
	if cfg.DBDir == "" {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRunReport(ctx, runReport); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Info("run report saved", "runID", runReport.RunID, "dir", cfg.DBDir)
	return nil
}
