package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration locations.
const (
	EnvPrefix    = "UGH_"
	AppDirName   = "ugh"
	FileName     = "config.yaml"
	PromptsDir   = "prompts"
	envConfigDir = EnvPrefix + "CONFIG_DIR"
)

// Dir returns the configuration directory: $UGH_CONFIG_DIR, else
// $XDG_CONFIG_HOME/ugh, else ~/.config/ugh.
func Dir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ResolverConfig configures the hierarchical config resolver.
type ResolverConfig struct {
	// EnvPrefix is prepended to key names for environment variable lookup.
	// With EnvPrefix "UGH_", key "jira_token" maps to UGH_JIRA_TOKEN.
	EnvPrefix string

	// Path is the config file. Empty disables the file layer.
	Path string

	// Defaults provides the default values for configuration keys.
	Defaults map[string]string

	// ValidKeys lists keys read from the file and the environment.
	// If nil, every key in Defaults or the file is accepted.
	ValidKeys []string

	// Logger receives warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Resolver handles hierarchical configuration resolution.
type Resolver struct {
	config ResolverConfig

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a new configuration resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Resolver{config: cfg}
}

// warn records a warning and logs it.
func (r *Resolver) warn(msg string, args ...any) {
	r.Warnings = append(r.Warnings, msg)
	r.config.Logger.Warn(msg, args...)
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// GetWithSource returns both the value and its source.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	return c.values[key], c.sources[key]
}

// All returns a copy of all key-value pairs.
func (c *Resolved) All() map[string]string {
	result := make(map[string]string, len(c.values))
	for k, v := range c.values {
		result[k] = v
	}
	return result
}

// Keys returns all configuration keys, sorted.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Resolve builds the final config by merging all sources.
// Priority (highest to lowest): env > file > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	r.applyDefaults(cfg)
	r.applyFile(cfg)
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithFlags resolves config and applies flag overrides.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	cfg := r.Resolve()

	for key, value := range flags {
		if value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceFlag
		}
	}

	return cfg
}

// Path returns the path to the config file.
func (r *Resolver) Path() string {
	return r.config.Path
}

func (r *Resolver) applyDefaults(cfg *Resolved) {
	for key, value := range r.config.Defaults {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}
}

func (r *Resolver) applyFile(cfg *Resolved) {
	if r.config.Path == "" {
		return
	}

	parsed, err := readFile(r.config.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.warn("could not read config file", "path", r.config.Path, "error", err)
		}
		return
	}

	for key, value := range parsed {
		if !r.validKey(key) {
			r.warn("ignoring unknown config key", "path", r.config.Path, "key", key)
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = SourceGlobal
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	if r.config.EnvPrefix == "" {
		return
	}

	keys := make(map[string]bool)
	for _, k := range r.config.ValidKeys {
		keys[k] = true
	}
	for k := range r.config.Defaults {
		keys[k] = true
	}
	for k := range cfg.values {
		keys[k] = true
	}

	for key := range keys {
		if value := os.Getenv(EnvName(r.config.EnvPrefix, key)); value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
		}
	}
}

func (r *Resolver) validKey(key string) bool {
	if r.config.ValidKeys == nil {
		return true
	}
	return slices.Contains(r.config.ValidKeys, key)
}

// EnvName returns the environment variable overriding key.
func EnvName(prefix, key string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// readFile parses a YAML config file into a flat map.
func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, nil
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}
