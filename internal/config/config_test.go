package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.ListName != DefaultListName {
		t.Errorf("got list name %q, expected %q", c.ListName, DefaultListName)
	}
	if c.SearchLimit != DefaultSearchLimit {
		t.Errorf("got search limit %d, expected %d", c.SearchLimit, DefaultSearchLimit)
	}
	if c.ItemDelay != DefaultItemDelay {
		t.Errorf("got item delay %v, expected %v", c.ItemDelay, DefaultItemDelay)
	}
	if c.BlockTimeout != DefaultBlockTimeout {
		t.Errorf("got block timeout %v, expected %v", c.BlockTimeout, DefaultBlockTimeout)
	}
	if c.Environment != DefaultEnvironment {
		t.Errorf("got environment %q, expected %q", c.Environment, DefaultEnvironment)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}, wantErr: nil},
		{name: "empty list name", mutate: func(c *Config) { c.ListName = "" }, wantErr: ErrNoListName},
		{name: "negative limit", mutate: func(c *Config) { c.Limit = -1 }, wantErr: ErrInvalidItemRange},
		{name: "negative skip", mutate: func(c *Config) { c.Skip = -1 }, wantErr: ErrInvalidItemRange},
		{name: "zero search limit", mutate: func(c *Config) { c.SearchLimit = 0 }, wantErr: ErrInvalidSearchLimit},
		{name: "negative item delay", mutate: func(c *Config) { c.ItemDelay = -time.Second }, wantErr: ErrInvalidItemDelay},
		{name: "zero block poll interval", mutate: func(c *Config) { c.BlockPollInterval = 0 }, wantErr: ErrInvalidBlockTiming},
		{name: "zero block timeout", mutate: func(c *Config) { c.BlockTimeout = 0 }, wantErr: ErrInvalidBlockTiming},
		{name: "zero navigation timeout", mutate: func(c *Config) { c.NavigationTimeout = 0 }, wantErr: ErrInvalidNavigationTimeout},
		{name: "conflicting report formats", mutate: func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, wantErr: ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewConfig()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got error %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("applies overrides", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		body := "list_name: Groceries\nsearch_limit: 8\nitem_delay: 5s\n"
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v, expected nil", err)
		}

		c := NewConfig()
		if err := cf.ApplyTo(c); err != nil {
			t.Fatalf("ApplyTo() error = %v, expected nil", err)
		}
		if c.ListName != "Groceries" {
			t.Errorf("got list name %q, expected Groceries", c.ListName)
		}
		if c.SearchLimit != 8 {
			t.Errorf("got search limit %d, expected 8", c.SearchLimit)
		}
		if c.ItemDelay != 5*time.Second {
			t.Errorf("got item delay %v, expected 5s", c.ItemDelay)
		}
		// Untouched values keep their defaults.
		if c.BlockTimeout != DefaultBlockTimeout {
			t.Errorf("got block timeout %v, expected default %v", c.BlockTimeout, DefaultBlockTimeout)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("item_delay: soon\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v, expected nil", err)
		}
		if err := cf.ApplyTo(NewConfig()); err == nil {
			t.Error("ApplyTo() expected an error for an unparsable duration")
		}
	})
}

func TestFindConfigFileExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")
	if err := os.WriteFile(path, []byte("list_name: X\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(path); got != path {
		t.Errorf("got %q, expected %q", got, path)
	}
	if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yml")); got != "" {
		t.Errorf("got %q, expected empty for a missing explicit path", got)
	}
}
