// Package sshconfig keeps one Host stanza per account in the managed block
// of the SSH client configuration.
package sshconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/region"
)

// Reconciler rewrites the managed block of an SSH client config file.
type Reconciler struct {
	path string
}

// New creates a Reconciler for the file at path (usually ~/.ssh/config).
func New(path string) *Reconciler {
	return &Reconciler{path: path}
}

// Path returns the target file.
func (r *Reconciler) Path() string {
	return r.path
}

// Render returns the managed block body for accounts, in order.
// IdentitiesOnly keeps ssh from offering every loaded key, which would let
// GitHub authenticate the wrong account first.
func Render(accounts []account.Account) string {
	var b strings.Builder
	for i, a := range accounts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Host %s\n", a.HostAlias)
		fmt.Fprintf(&b, "    HostName %s\n", account.HostBase)
		b.WriteString("    User git\n")
		fmt.Fprintf(&b, "    IdentityFile %s\n", quote(a.SSHKeyPath))
		b.WriteString("    IdentitiesOnly yes\n")
	}
	return b.String()
}

// quote wraps values containing spaces, which ssh_config(5) accepts in double quotes.
func quote(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}

// Reconcile writes one stanza per account into the managed block.
// A missing file (and ~/.ssh) is created private to the user.
func (r *Reconciler) Reconcile(ctx context.Context, accounts []account.Account) (region.Result, error) {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return region.Result{Path: r.path}, &region.WriteError{Path: r.path, Err: err}
	}
	return region.Apply(ctx, r.path, Render(accounts), 0o600)
}

// Aliases parses the managed block and returns the host aliases it routes,
// mapped to their identity file.
func (r *Reconciler) Aliases() (map[string]string, error) {
	body, ok, err := region.Read(r.path)
	if err != nil || !ok {
		return map[string]string{}, err
	}
	cfg, err := ssh_config.Decode(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse managed block of %s: %w", r.path, err)
	}

	out := make(map[string]string)
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if !strings.HasPrefix(alias, account.HostBase+"-") {
				continue
			}
			keyPath, err := cfg.Get(alias, "IdentityFile")
			if err != nil {
				return nil, fmt.Errorf("read IdentityFile for %s: %w", alias, err)
			}
			out[alias] = strings.Trim(keyPath, `"`)
		}
	}
	return out, nil
}

// DefaultPath returns ~/.ssh/config under home.
func DefaultPath(home string) string {
	return filepath.Join(home, ".ssh", "config")
}
