package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

//go:embed feeds.toml
var defaultConfig []byte

// Routes already taken by the server
var reservedIds = map[string]bool{
	"export-opml": true,
	"health":      true,
	"metrics":     true,
}

var validId = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// TomlFeed represents a single feed definition
type TomlFeed struct {
	Id          string `toml:"id"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Label       string `toml:"label"` // Prefix of every item description, e.g. "[Fan TL]"

	// Use the release alttitle (original or localized name) when present
	PreferAltTitle bool `toml:"prefer_alttitle"`

	Languages        []string `toml:"languages,omitempty"`         // Release must have one of these
	ExcludeLanguages []string `toml:"exclude_languages,omitempty"` // Release must have none of these
	OriginalLanguage string   `toml:"original_language,omitempty"` // Original language of the VN
	Freeware         bool     `toml:"freeware"`
	Official         bool     `toml:"official"`

	// Apply the configured release type exclusions (EXCLUDE_VERSION) to this feed
	ExcludeVersions bool `toml:"exclude_versions"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Title    string     `toml:"title"`    // OPML and homepage title
	Language string     `toml:"language"` // RSS channel language
	Feeds    []TomlFeed `toml:"feeds"`
}

// LoadConfig reads feed definitions from path, or the embedded defaults
// when path is empty.
func LoadConfig(path string) (*TomlConfig, error) {
	if path == "" {
		return ParseConfig(defaultConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*TomlConfig, error) {
	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func validateConfig(config *TomlConfig) error {
	if config.Title == "" {
		config.Title = "VNDB RSS Subscription"
	}
	if config.Language == "" {
		config.Language = "zh"
	}

	if len(config.Feeds) == 0 {
		return errors.New("at least one feed must be defined")
	}

	seen := make(map[string]bool, len(config.Feeds))
	for i, feed := range config.Feeds {
		if feed.Id == "" {
			return fmt.Errorf("feed #%d has no id", i+1)
		}
		if !validId.MatchString(feed.Id) {
			return fmt.Errorf("feed id %q may only contain letters, digits, '-' and '_'", feed.Id)
		}
		if reservedIds[feed.Id] {
			return fmt.Errorf("feed id %q is reserved", feed.Id)
		}
		if seen[feed.Id] {
			return fmt.Errorf("duplicate feed id %q", feed.Id)
		}
		seen[feed.Id] = true

		if feed.Title == "" {
			return fmt.Errorf("feed %q has no title", feed.Id)
		}
	}

	return nil
}
