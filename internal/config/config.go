// Package config loads audiotag settings from TOML files.
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/audiotag/internal/track"
)

const (
	appName        = "audiotag"
	configFileName = "config.toml"
	localFileName  = "audiotag.toml"
)

// Editing modes for interactive prompts.
const (
	EditingEmacs = "emacs"
	EditingVi    = "vi"
)

type Config struct {
	EditingMode       string `koanf:"editing_mode"`        // "emacs" or "vi"
	ValueSeparator    string `koanf:"value_separator"`     // single character, doubled in tag lists
	PatternSingleDisc string `koanf:"pattern_single_disc"` // default rename pattern
	PatternMultiDisc  string `koanf:"pattern_multi_disc"`  // default rename pattern when DISCTOTAL > 1
}

// InvalidConfigError reports a config value outside its allowed set.
type InvalidConfigError struct {
	Key   string
	Value string
	Hint  string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid value for config.%s '%s'. %s", e.Key, e.Value, e.Hint)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		EditingMode:       EditingEmacs,
		ValueSeparator:    string(track.DefaultSeparator),
		PatternSingleDisc: track.PatternSingleDisc,
		PatternMultiDisc:  track.PatternMultiDisc,
	}
}

// Load reads the config files that exist, in priority order (last wins),
// on top of the defaults. A non-empty explicit path replaces the search
// and must exist.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	paths := getConfigPaths()
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, err
		}
		paths = []string{explicit}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/audiotag/config.toml
	if p, err := xdg.SearchConfigFile(appName + "/" + configFileName); err == nil {
		paths = append(paths, p)
	}

	// 2. ./audiotag.toml (pwd, highest priority)
	paths = append(paths, localFileName)

	return paths
}

// Validate checks editing mode and separator and fills empty patterns.
func (c *Config) Validate() error {
	c.EditingMode = strings.ToLower(c.EditingMode)
	if c.EditingMode != EditingEmacs && c.EditingMode != EditingVi {
		return &InvalidConfigError{
			Key:   "editing_mode",
			Value: c.EditingMode,
			Hint:  fmt.Sprintf("Possible values [%s, %s]", EditingEmacs, EditingVi),
		}
	}
	if utf8.RuneCountInString(c.ValueSeparator) != 1 {
		return &InvalidConfigError{
			Key:   "value_separator",
			Value: c.ValueSeparator,
			Hint:  "Separator must be a single character.",
		}
	}
	if c.PatternSingleDisc == "" {
		c.PatternSingleDisc = track.PatternSingleDisc
	}
	if c.PatternMultiDisc == "" {
		c.PatternMultiDisc = track.PatternMultiDisc
	}
	return nil
}

// Separator returns the tag-list separator character.
func (c *Config) Separator() rune {
	r, _ := utf8.DecodeRuneInString(c.ValueSeparator)
	return r
}

// Patterns returns the default rename patterns.
func (c *Config) Patterns() track.Patterns {
	return track.Patterns{SingleDisc: c.PatternSingleDisc, MultiDisc: c.PatternMultiDisc}
}
