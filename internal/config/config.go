// Package config resolves qrscout settings from an optional TOML file and
// QRSCOUT_* environment variables. The environment always wins.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/qrscout/internal/record"
)

// Store backends.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Store       string `toml:"store"`        // QRSCOUT_STORE (default "file")
	StateDir    string `toml:"state_dir"`    // QRSCOUT_STATE_DIR (default ~/.local/state/qrscout)
	DatabaseURL string `toml:"database_url"` // QRSCOUT_DATABASE_URL (required for postgres)
	StoreKey    string `toml:"store_key"`    // QRSCOUT_STORE_KEY (default "QRScoutUserConfig")
	NATSURL     string `toml:"nats_url"`     // QRSCOUT_NATS_URL (optional, empty = no events)
	ResetPolicy string `toml:"reset_policy"` // QRSCOUT_RESET_POLICY (all|preserve, default "all")
	RecordUnset string `toml:"record_unset"` // QRSCOUT_RECORD_UNSET (literal|empty, default "literal")

	Publish Publish `toml:"publish"`

	path string
}

// Publish configures where exported snapshots are distributed.
type Publish struct {
	Interval time.Duration `toml:"interval"` // QRSCOUT_PUBLISH_INTERVAL (0 = publish once)
	S3       S3            `toml:"s3"`
	Git      Git           `toml:"git"`
}

type S3 struct {
	Bucket   string `toml:"bucket"`   // QRSCOUT_PUBLISH_S3_BUCKET (enables S3 when set)
	Endpoint string `toml:"endpoint"` // QRSCOUT_PUBLISH_S3_ENDPOINT (custom endpoint for MinIO)
	Region   string `toml:"region"`   // QRSCOUT_PUBLISH_S3_REGION (default "us-east-1")
	Prefix   string `toml:"prefix"`   // QRSCOUT_PUBLISH_S3_PREFIX (default "qrscout")
}

type Git struct {
	Repo   string `toml:"repo"`   // QRSCOUT_PUBLISH_GIT_REPO (enables git when set; path to clone)
	Dir    string `toml:"dir"`    // QRSCOUT_PUBLISH_GIT_DIR (default repo root)
	Branch string `toml:"branch"` // QRSCOUT_PUBLISH_GIT_BRANCH (default "main")
}

// Load reads the file named by QRSCOUT_CONFIG, or ~/.config/qrscout/config.toml
// when that exists, then applies the environment.
func Load() (*Config, error) {
	path := os.Getenv("QRSCOUT_CONFIG")
	explicit := path != ""
	if !explicit {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "qrscout", "config.toml")
		}
	}

	c := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else {
			c.path = path
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the config file that was read, or "" when none was.
func (c *Config) Path() string { return c.path }

func (c *Config) applyEnv() error {
	c.Store = envOrDefault("QRSCOUT_STORE", c.Store)
	c.StateDir = envOrDefault("QRSCOUT_STATE_DIR", c.StateDir)
	c.DatabaseURL = envOrDefault("QRSCOUT_DATABASE_URL", c.DatabaseURL)
	c.StoreKey = envOrDefault("QRSCOUT_STORE_KEY", c.StoreKey)
	c.NATSURL = envOrDefault("QRSCOUT_NATS_URL", c.NATSURL)
	c.ResetPolicy = envOrDefault("QRSCOUT_RESET_POLICY", c.ResetPolicy)
	c.RecordUnset = envOrDefault("QRSCOUT_RECORD_UNSET", c.RecordUnset)

	c.Publish.S3.Bucket = envOrDefault("QRSCOUT_PUBLISH_S3_BUCKET", c.Publish.S3.Bucket)
	c.Publish.S3.Endpoint = envOrDefault("QRSCOUT_PUBLISH_S3_ENDPOINT", c.Publish.S3.Endpoint)
	c.Publish.S3.Region = envOrDefault("QRSCOUT_PUBLISH_S3_REGION", c.Publish.S3.Region)
	c.Publish.S3.Prefix = envOrDefault("QRSCOUT_PUBLISH_S3_PREFIX", c.Publish.S3.Prefix)
	c.Publish.Git.Repo = envOrDefault("QRSCOUT_PUBLISH_GIT_REPO", c.Publish.Git.Repo)
	c.Publish.Git.Dir = envOrDefault("QRSCOUT_PUBLISH_GIT_DIR", c.Publish.Git.Dir)
	c.Publish.Git.Branch = envOrDefault("QRSCOUT_PUBLISH_GIT_BRANCH", c.Publish.Git.Branch)

	if s := os.Getenv("QRSCOUT_PUBLISH_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("QRSCOUT_PUBLISH_INTERVAL: %w", err)
		}
		c.Publish.Interval = d
	}
	return nil
}

func (c *Config) applyDefaults() error {
	c.Store = orDefault(c.Store, StoreFile)
	c.StoreKey = orDefault(c.StoreKey, "QRScoutUserConfig")
	c.ResetPolicy = orDefault(c.ResetPolicy, "all")
	c.RecordUnset = orDefault(c.RecordUnset, "literal")
	c.Publish.S3.Region = orDefault(c.Publish.S3.Region, "us-east-1")
	c.Publish.S3.Prefix = orDefault(c.Publish.S3.Prefix, "qrscout")
	c.Publish.Git.Branch = orDefault(c.Publish.Git.Branch, "main")

	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving state dir: %w", err)
		}
		c.StateDir = filepath.Join(home, ".local", "state", "qrscout")
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreFile, StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("QRSCOUT_DATABASE_URL is required when QRSCOUT_STORE=postgres")
		}
	default:
		return fmt.Errorf("QRSCOUT_STORE: unknown store %q (want file, memory, sqlite or postgres)", c.Store)
	}
	switch c.ResetPolicy {
	case "all", "preserve":
	default:
		return fmt.Errorf("QRSCOUT_RESET_POLICY: %q is not all or preserve", c.ResetPolicy)
	}
	switch c.RecordUnset {
	case "literal", "empty":
	default:
		return fmt.Errorf("QRSCOUT_RECORD_UNSET: %q is not literal or empty", c.RecordUnset)
	}
	if c.Publish.Interval < 0 {
		return fmt.Errorf("QRSCOUT_PUBLISH_INTERVAL: must not be negative")
	}
	return nil
}

// RecordOptions returns the record encoding selected by RecordUnset.
func (c *Config) RecordOptions() record.Options {
	if c.RecordUnset == "empty" {
		return record.EmptyOptions
	}
	return record.DefaultOptions
}

// SQLitePath is the database file used by the sqlite store.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.StateDir, "qrscout.db")
}

// Publishing reports whether any snapshot destination is configured.
func (c *Config) Publishing() bool {
	return c.Publish.S3.Bucket != "" || c.Publish.Git.Repo != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
