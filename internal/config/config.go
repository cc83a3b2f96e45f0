package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ShellConfig selects the shell whose start-up script is managed.
type ShellConfig struct {
	Kind   string `toml:"kind" json:"kind"`       // "bash", "zsh" or "fish"; empty = from $SHELL
	RCFile string `toml:"rc_file" json:"rc_file"` // empty = the dialect's usual script
}

// KeysConfig controls key handling around add and apply.
type KeysConfig struct {
	AddToAgent     bool `toml:"add_to_agent" json:"add_to_agent"`         // load new keys into ssh-agent
	TestAfterApply bool `toml:"test_after_apply" json:"test_after_apply"` // run ssh -T for every account after apply
}

// ThemeConfig holds UI color settings.
type ThemeConfig struct {
	Name     string `toml:"name" json:"name"` // preset name
	Mode     string `toml:"mode" json:"mode"` // "auto", "light" or "dark"
	Primary  string `toml:"primary" json:"primary"`
	Accent   string `toml:"accent" json:"accent"`
	Success  string `toml:"success" json:"success"`
	Error    string `toml:"error" json:"error"`
	Muted    string `toml:"muted" json:"muted"`
	Warning  string `toml:"warning" json:"warning"`
	Nerdfont bool   `toml:"nerdfont" json:"nerdfont"`
}

// Config holds the ghmm configuration. Paths are absolute after Load.
type Config struct {
	StoreDir    string      `toml:"store_dir" json:"store_dir"`
	SSHConfig   string      `toml:"ssh_config" json:"ssh_config"`
	GitConfig   string      `toml:"git_config" json:"git_config"`
	IdentityDir string      `toml:"identity_dir" json:"identity_dir"`
	Shell       ShellConfig `toml:"shell" json:"shell"`
	Keys        KeysConfig  `toml:"keys" json:"keys"`
	Theme       ThemeConfig `toml:"theme" json:"theme"`

	home string
}

// Home returns the home directory paths were resolved against.
func (c *Config) Home() string {
	return c.home
}

// Default returns the default configuration for home.
func Default(home string) Config {
	return Config{
		StoreDir:    filepath.Join(home, ".ghmm"),
		SSHConfig:   filepath.Join(home, ".ssh", "config"),
		GitConfig:   filepath.Join(home, ".gitconfig"),
		IdentityDir: home,
		Keys:        KeysConfig{AddToAgent: true},
		home:        home,
	}
}

// expandPath expands a leading ~ against home.
func expandPath(path, home string) string {
	switch {
	case path == "~":
		return home
	case len(path) >= 2 && path[:2] == "~/":
		return filepath.Join(home, path[2:])
	}
	return path
}

// Path returns the config file location: $GHMM_CONFIG or
// ~/.config/ghmm/config.toml.
func Path() (string, error) {
	if p := os.Getenv("GHMM_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ghmm", "config.toml"), nil
}

// Load reads the config file for the current user.
// Returns Default() if the file doesn't exist (no error).
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("get home directory: %w", err)
	}
	path, err := Path()
	if err != nil {
		return Default(home), nil
	}
	return LoadFrom(path, home)
}

// LoadFrom reads the config at path, resolving ~ against home.
// Returns error only if the file exists but is invalid.
func LoadFrom(path, home string) (Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Default(home), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(home), err
	}
	if err := cfg.resolve(); err != nil {
		return Default(home), err
	}
	return cfg, nil
}

// resolve validates settings, expands paths and fills empty paths with
// their defaults. Every invalid setting is reported.
func (c *Config) resolve() error {
	def := Default(c.home)
	paths := []struct {
		field string
		value *string
		def   string
	}{
		{"store_dir", &c.StoreDir, def.StoreDir},
		{"ssh_config", &c.SSHConfig, def.SSHConfig},
		{"git_config", &c.GitConfig, def.GitConfig},
		{"identity_dir", &c.IdentityDir, def.IdentityDir},
		{"shell.rc_file", &c.Shell.RCFile, ""},
	}

	var p problems
	for _, f := range paths {
		p.path(f.field, *f.value)
		*f.value = expandPath(*f.value, c.home)
		if *f.value == "" {
			*f.value = f.def
		}
	}
	p.enum("shell.kind", c.Shell.Kind, ValidShells)
	p.enum("theme.name", c.Theme.Name, ValidThemeNames)
	p.enum("theme.mode", c.Theme.Mode, ValidThemeModes)
	return p.err()
}

// applyEnvOverrides applies GHMM_* environment variables.
func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("GHMM_SHELL"); v != "" {
		c.Shell.Kind = v
	}
	if v := os.Getenv("GHMM_THEME"); v != "" {
		c.Theme.Name = v
	}
	if v := os.Getenv("GHMM_THEME_MODE"); v != "" {
		c.Theme.Mode = v
	}
	return nil
}

// Write encodes the effective configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

const defaultConfig = `# ghmm configuration
#
# Paths must be absolute or start with ~ (no relative paths like "." or "..").

# Where the account list (config.yaml) is stored
# store_dir = "~/.ghmm"

# Files whose ghmm managed block is rewritten by "ghmm apply".
# Everything outside the block is left untouched.
# ssh_config = "~/.ssh/config"
# git_config = "~/.gitconfig"

# Directory for the per-account identity files (.gitconfig-<name>)
# identity_dir = "~"

[shell]
# Shell dialect: "bash", "zsh" or "fish". Empty = detect from $SHELL.
# kind = "zsh"
# Start-up script to manage. Empty = ~/.bashrc, ~/.zshrc or
# ~/.config/fish/config.fish depending on kind.
# rc_file = "~/.zshrc"

[keys]
# Load newly generated keys into ssh-agent
add_to_agent = true
# Run "ssh -T" against every account after "ghmm apply"
test_after_apply = false

[theme]
# Preset: "none", "default", "nord" or "catppuccin"
# name = "default"
# Mode: "auto", "light" or "dark"
# mode = "auto"
# nerdfont = false
`

// DefaultConfig returns the commented default configuration file.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates the default config file at Path().
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type configKey struct{}

// WithConfig returns a new context with the config stored in it.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config from context.
// Returns nil if no config is stored.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}
