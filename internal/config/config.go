// Package config holds the settings of one loader invocation. Values come
// from command-line flags; the sink connection string is read from the
// environment (or a dotenv file) under URIKey.
package config

import (
	"fmt"
	"strings"

	"bizloader/internal/etl"
)

// Fixed sink coordinates. The flags that override them exist for tests
// and staging; production loads always use these.
const (
	DefaultDatabase   = "hba"
	DefaultCollection = "businesses"
	DefaultURIKey     = "MONGO_URI"
)

// Config is the resolved configuration for a run.
type Config struct {
	InputPath  string
	SourceType string // "" picks by file extension
	Delimiter  string

	IDColumn     string
	SkipBackfill bool
	Renames      []string // "old=new" column aliases

	Database   string
	Collection string
	URIKey     string
	EnvFiles   []string

	RunsDB  string // run history database; "" disables the run log
	Verbose bool
}

// Default returns a Config with the documented defaults.
func Default() Config {
	return Config{
		IDColumn:   etl.DefaultIDColumn,
		Database:   DefaultDatabase,
		Collection: DefaultCollection,
		URIKey:     DefaultURIKey,
	}
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("input file is required")
	}
	if c.IDColumn == "" {
		return fmt.Errorf("id column must not be empty")
	}
	if c.Database == "" || c.Collection == "" {
		return fmt.Errorf("database and collection must not be empty")
	}
	if len(c.Delimiter) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if _, err := etl.ParseRenames(c.Renames); err != nil {
		return err
	}
	return nil
}

// SourceConfig returns the options handed to the file source.
func (c *Config) SourceConfig() etl.SourceConfig {
	cfg := etl.SourceConfig{"filePath": c.InputPath}
	if c.Delimiter != "" {
		cfg["delimiter"] = c.Delimiter
	}
	return cfg
}
