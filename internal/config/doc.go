// Package config handles loading and validation of ghmm configuration.
//
// Configuration is read from ~/.config/ghmm/config.toml. The file is
// optional: every setting has a default derived from the home directory.
//
// # Configuration Sources (highest priority first)
//
//   - GHMM_CONFIG env var: path of the config file itself
//   - GHMM_SHELL env var: shell dialect override
//   - GHMM_THEME / GHMM_THEME_MODE env vars: theme overrides
//   - Config file settings
//   - Default values ($SHELL decides the shell dialect)
//
// # Key Settings
//
//   - store_dir: where the account list lives (default ~/.ghmm)
//   - ssh_config: SSH client config to manage (default ~/.ssh/config)
//   - git_config: global git config to manage (default ~/.gitconfig)
//   - identity_dir: where .gitconfig-<name> files go (default ~)
//   - [shell] kind/rc_file: dialect and start-up script
//   - [keys] add_to_agent/test_after_apply: key handling after add/apply
//   - [theme]: colors for tables and prompts
//
// # Path Validation
//
// Paths must be absolute or start with ~ (no relative paths like "." or
// "..") to avoid confusion about the working directory.
package config
