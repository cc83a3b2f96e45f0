package git

import (
	"context"
	"strings"

	"github.com/raphi011/ghmm/internal/cmd"
)

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes a git command with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

// outputGit executes a git command with context support and verbose logging,
// returning stdout.
func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
}

// ConfigValue returns the effective value of key as git resolves it inside
// dir, including conditional includes. A missing key returns "" and false.
func ConfigValue(ctx context.Context, dir, key string) (string, bool, error) {
	out, err := outputGit(ctx, dir, "config", "--get", key)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, err
		}
		// exit code 1 means the key is unset
		if cmd.ExitCode(err) == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(out)), true, nil
}

// RemoteURL returns the URL of the origin remote of the repository at dir.
func RemoteURL(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
