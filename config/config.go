package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memfs/internal/util"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultMaxNameLen bounds a single path component, not counting the
	// separators around it
	DefaultMaxNameLen = 31

	// DefaultMaxChildren is the directory fan-out limit
	DefaultMaxChildren = 64

	// DefaultMaxDescriptors is the size of the open-descriptor table
	DefaultMaxDescriptors = 32

	// DefaultMinFileCapacity is the starting allocation for a file buffer;
	// growth doubles from here
	DefaultMinFileCapacity = 64

	// DefaultLogLvl is the default logger verbosity
	DefaultLogLvl = util.InfoLevel
)

// CLI verbosity values; mapped onto internal [util.LogLevel] in Merge
const (
	ErrorVerbose = 1
	WarnVerbose  = 2
	InfoVerbose  = 3
	DebugVerbose = 4
	TraceVerbose = 5
)

// Config contains runtime configuration values for an in-memory filesystem
// instance. All capacities are fixed for the lifetime of the instance.
type Config struct {
	MaxNameLen      int           // Maximum length of a single node name in bytes (Default 31)
	MaxChildren     int           // Maximum entries per directory (Default 64)
	MaxDescriptors  int           // Open-descriptor table size (Default 32)
	MinFileCapacity int           // Initial file buffer allocation in bytes (Default 64)
	LogLvl          util.LogLevel // Logger verbosity (Default info)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions.
//
// LogLvl here is the CLI verbosity (1 error .. 5 trace), not the internal
// log level.
type ConfigOverride struct {
	MaxNameLen      *int `yaml:"max_name_len,omitempty" json:"max_name_len,omitempty"`
	MaxChildren     *int `yaml:"max_children,omitempty" json:"max_children,omitempty"`
	MaxDescriptors  *int `yaml:"max_descriptors,omitempty" json:"max_descriptors,omitempty"`
	MinFileCapacity *int `yaml:"min_file_capacity,omitempty" json:"min_file_capacity,omitempty"`
	LogLvl          *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MaxNameLen:      DefaultMaxNameLen,
		MaxChildren:     DefaultMaxChildren,
		MaxDescriptors:  DefaultMaxDescriptors,
		MinFileCapacity: DefaultMinFileCapacity,
		LogLvl:          DefaultLogLvl,
	}
}

// NewConfig creates a Config from defaults with the override, if any,
// applied on top.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.MaxNameLen != nil {
		c.MaxNameLen = *override.MaxNameLen
	}
	if override.MaxChildren != nil {
		c.MaxChildren = *override.MaxChildren
	}
	if override.MaxDescriptors != nil {
		c.MaxDescriptors = *override.MaxDescriptors
	}
	if override.MinFileCapacity != nil {
		c.MinFileCapacity = *override.MinFileCapacity
	}
	if override.LogLvl != nil {
		verbose := *override.LogLvl
		if verbose < ErrorVerbose {
			verbose = ErrorVerbose
		}
		if verbose > TraceVerbose {
			verbose = TraceVerbose
		}
		lvls := [...]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
		c.LogLvl = lvls[verbose-1]
	}
}

// Validate reports the first nonsensical capacity value, if any.
func (c *Config) Validate() error {
	if c.MaxNameLen < 1 {
		return fmt.Errorf("max_name_len must be at least 1, got %d", c.MaxNameLen)
	}
	if c.MaxChildren < 1 {
		return fmt.Errorf("max_children must be at least 1, got %d", c.MaxChildren)
	}
	if c.MaxDescriptors < 1 {
		return fmt.Errorf("max_descriptors must be at least 1, got %d", c.MaxDescriptors)
	}
	if c.MinFileCapacity < 1 {
		return fmt.Errorf("min_file_capacity must be at least 1, got %d", c.MinFileCapacity)
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
