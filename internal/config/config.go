// Package config holds runtime configuration for cartsync: CLI options,
// the optional YAML config file, and credentials pulled from Infisical.
package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the pacing a careful human shopper produces and are
// deliberately conservative: the retailer's bot detection punishes speed.
const (
	// DefaultCDPURL is where a locally launched Chrome exposes the
	// DevTools protocol. A remote browserless gateway discovered via
	// Infisical takes precedence when available.
	DefaultCDPURL = "http://127.0.0.1:9222"

	// DefaultListName is the Mealie shopping list cartsync reads when no
	// --list flag is given. The list is matched case-insensitively.
	DefaultListName = "Walmart"

	// DefaultSearchLimit caps how many product tiles are read from each
	// search results page. Five covers the above-the-fold results; deeper
	// results are rarely relevant and reading them costs time per item.
	DefaultSearchLimit = 5

	// DefaultItemDelay is the pause between items. Processing a long list
	// back-to-back with no gaps is a bot signature.
	DefaultItemDelay = 3 * time.Second

	// DefaultBlockPollInterval is how often a blocked session re-checks
	// whether the challenge page has cleared.
	DefaultBlockPollInterval = 10 * time.Second

	// DefaultBlockTimeout is the longest a run waits on a single
	// challenge page before giving up on the session. Five minutes is
	// enough for a human to solve a challenge in an attached browser.
	DefaultBlockTimeout = 5 * time.Minute

	// DefaultNavigationTimeout bounds each page navigation. Retail pages
	// are heavy; shorter values produce spurious failures on slow proxies.
	DefaultNavigationTimeout = 45 * time.Second

	// DefaultEnvironment is the Infisical environment slug secrets are
	// read from.
	DefaultEnvironment = "dev"

	// AppName is the application name used for XDG directory paths.
	AppName = "cartsync"
)

// Config holds all configuration options for cartsync.
// It is populated from CLI flags plus the optional config file and passed
// through the application via dependency injection rather than global state.
//
// Like the rest of this codebase we keep a single flat struct: the option
// count is small enough that nesting would add noise without benefit.
type Config struct {
	// ListName is the Mealie shopping list to sync, matched
	// case-insensitively against the lists the server returns.
	ListName string

	// DryRun selects everything but never clicks "Add to cart".
	// Useful for previewing what a run would do to the cart.
	DryRun bool

	// Limit caps how many list items are processed. Zero means all.
	Limit int

	// Skip drops the first N list items before processing. Combined with
	// Limit this resumes a run that was cut short by a block.
	Skip int

	// CDPURL is the Chrome DevTools endpoint to attach to. When empty,
	// the browserless gateway from Infisical is used, and failing that,
	// DefaultCDPURL.
	CDPURL string

	// Environment is the Infisical environment slug to read secrets from.
	Environment string

	// EnvFile is an optional dotenv file loaded before reading the
	// Infisical connection settings from the process environment.
	EnvFile string

	// SearchLimit caps product tiles read per search results page.
	SearchLimit int

	// ItemDelay is the pause between items.
	ItemDelay time.Duration

	// BlockPollInterval is how often a blocked session re-checks the page.
	BlockPollInterval time.Duration

	// BlockTimeout bounds how long a run waits on one challenge page.
	BlockTimeout time.Duration

	// NavigationTimeout bounds each page navigation.
	NavigationTimeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .cartsync in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the human-readable
	// summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory for the run history SQLite database.
	// When empty, runs are not persisted.
	// Defaults to the XDG data directory.
	DBDir string

	// ArtifactDir is where failure screenshots and storage-state dumps
	// are written. Defaults to the XDG cache directory.
	ArtifactDir string
}

// NewConfig creates a new Config with default values.
// Many defaults are non-zero, so relying on zero values would be wrong;
// the constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		ListName:          DefaultListName,
		Environment:       DefaultEnvironment,
		SearchLimit:       DefaultSearchLimit,
		ItemDelay:         DefaultItemDelay,
		BlockPollInterval: DefaultBlockPollInterval,
		BlockTimeout:      DefaultBlockTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		DBDir:             XDGDataDir(),
		ArtifactDir:       XDGCacheDir(),
	}
}

// XDGDataDir returns the XDG data directory for cartsync.
// On Linux: ~/.local/share/cartsync
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for cartsync.
// On Linux: ~/.config/cartsync
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for cartsync.
// On Linux: ~/.cache/cartsync
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error; fixing one
// error often makes the others irrelevant, so we do not collect them.
func (c *Config) Validate() error {
	if c.ListName == "" {
		return ErrNoListName
	}
	if c.Limit < 0 || c.Skip < 0 {
		return ErrInvalidItemRange
	}
	if c.SearchLimit <= 0 {
		return ErrInvalidSearchLimit
	}
	if c.ItemDelay < 0 {
		return ErrInvalidItemDelay
	}
	if c.BlockPollInterval <= 0 || c.BlockTimeout <= 0 {
		return ErrInvalidBlockTiming
	}
	if c.NavigationTimeout <= 0 {
		return ErrInvalidNavigationTimeout
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
