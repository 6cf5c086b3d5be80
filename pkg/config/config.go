// Package config loads daybook settings from a YAML file under the user's
// config directory. Every field has a sensible default, so a missing file is
// a valid configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daybook-sh/daybook/pkg/journal"
	"github.com/daybook-sh/daybook/pkg/utils"
)

// Config stores daybook configuration loaded from ~/.config/daybook/config.yaml.
type Config struct {
	Journal JournalConfig `yaml:"journal"`
	Export  ExportConfig  `yaml:"export"`
}

// JournalConfig holds storage paths and category behavior.
type JournalConfig struct {
	DBPath             string   `yaml:"db_path"`
	PhotoDir           string   `yaml:"photo_dir"`
	Categories         []string `yaml:"categories"`
	FreeFormCategories bool     `yaml:"free_form_categories"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// GetDBPath returns the configured database path, defaulting to the
// system-appropriate data location.
func (c *Config) GetDBPath() (string, error) {
	if c.Journal.DBPath != "" {
		return ExpandPath(c.Journal.DBPath)
	}
	return utils.DefaultDBPath(), nil
}

// GetPhotoDir returns the configured photo directory, defaulting to a
// photos/ directory next to the database.
func (c *Config) GetPhotoDir() (string, error) {
	if c.Journal.PhotoDir != "" {
		return ExpandPath(c.Journal.PhotoDir)
	}
	return utils.DefaultPhotoDir(), nil
}

// GetCategories returns the configured category list, defaulting to the
// built-in set. With free-form categories enabled the list is advisory only.
func (c *Config) GetCategories() []string {
	if len(c.Journal.Categories) > 0 {
		return c.Journal.Categories
	}
	return journal.DefaultCategories
}

// AllowsCategory reports whether the given category may be attached to a new
// entry. Imports bypass this check: unknown categories from export files are
// always tolerated.
func (c *Config) AllowsCategory(name string) bool {
	if c.Journal.FreeFormCategories {
		return true
	}
	for _, cat := range c.GetCategories() {
		if cat == name {
			return true
		}
	}
	return false
}

// GetExportDir returns the directory export files are written to, defaulting
// to the current directory.
func (c *Config) GetExportDir() (string, error) {
	if c.Export.Dir != "" {
		return ExpandPath(c.Export.Dir)
	}
	return ".", nil
}

// GetConfigPath returns the config file path, honoring XDG_CONFIG_HOME.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "daybook", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
