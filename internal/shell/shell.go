// Package shell keeps per-account session helpers in the managed block of
// the user's interactive shell start-up script.
//
// A helper pins the author and committer identity for the rest of the
// session. Those variables take precedence over the includeIf routing, so
// after switching, commits in another account's directory still use the
// switched-to identity until the shell exits.
package shell

import (
	"context"
	"strings"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/region"
)

// FuncPrefix prefixes the name of every per-account helper.
const FuncPrefix = "ghmm-"

// DefaultAliasVar holds the default account's host alias.
const DefaultAliasVar = "GHMM_DEFAULT_HOST_ALIAS"

// SlotVar remembers which GIT_CONFIG_KEY_<n>/GIT_CONFIG_VALUE_<n> pair the
// helpers own in the current session. The first helper takes the slot at
// ${GIT_CONFIG_COUNT:-0}; switching accounts reuses it, so entries the
// user exported before stay intact.
const SlotVar = "GHMM_GIT_CONFIG_INDEX"

// Reconciler rewrites the managed block of one shell start-up script.
type Reconciler struct {
	dialect Dialect
	path    string
}

// New creates a Reconciler writing dialect syntax to the script at path.
func New(dialect Dialect, path string) *Reconciler {
	return &Reconciler{dialect: dialect, path: path}
}

// Kind returns the shell name.
func (r *Reconciler) Kind() string {
	return string(r.dialect)
}

// ConfigFile returns the target script.
func (r *Reconciler) ConfigFile() string {
	return r.path
}

// ReloadCommand returns the command that applies the rewritten script to a
// running shell.
func (r *Reconciler) ReloadCommand() string {
	return "source " + r.dialect.quote(r.path)
}

// FuncName returns the helper name for an account.
func FuncName(name string) string {
	return FuncPrefix + name
}

// Render returns the managed block body: one helper per account in registry
// order, the clone helper, and the default alias when defaultName names an
// account.
func (r *Reconciler) Render(accounts []account.Account, defaultName string) string {
	d := r.dialect
	var b strings.Builder
	var defaultAlias string

	for _, a := range accounts {
		if a.Name == defaultName {
			defaultAlias = a.HostAlias
		}
		d.writeAccount(&b, FuncName(a.Name), [][2]string{
			{"GHMM_ACCOUNT", a.Name},
			{"GHMM_HOST_ALIAS", a.HostAlias},
			{"GIT_AUTHOR_NAME", a.Username},
			{"GIT_AUTHOR_EMAIL", a.Email},
			{"GIT_COMMITTER_NAME", a.Username},
			{"GIT_COMMITTER_EMAIL", a.Email},
		}, route{
			key:   "url.git@" + a.HostAlias + ":.insteadOf",
			value: "git@" + account.HostBase + ":",
		}, a.Directory)
		b.WriteByte('\n')
	}

	if len(accounts) > 0 {
		d.writeClone(&b, account.HostBase)
	}
	if defaultAlias != "" {
		b.WriteByte('\n')
		d.export(&b, "", DefaultAliasVar, defaultAlias)
	}
	return b.String()
}

// Reconcile writes the helpers for accounts into the managed block.
func (r *Reconciler) Reconcile(ctx context.Context, accounts []account.Account, defaultName string) (region.Result, error) {
	return region.Apply(ctx, r.path, r.Render(accounts, defaultName), 0o644)
}
