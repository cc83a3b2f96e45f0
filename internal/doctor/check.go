package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/git"
	"github.com/raphi011/ghmm/internal/gitidentity"
	"github.com/raphi011/ghmm/internal/region"
	"github.com/raphi011/ghmm/internal/sshconfig"
	"github.com/raphi011/ghmm/internal/sshkey"
)

type collector struct {
	stats IssueStats
}

func newCollector() *collector {
	return &collector{stats: IssueStats{Passed: make(map[IssueCategory]int)}}
}

func (c *collector) pass(cat IssueCategory) {
	c.stats.Passed[cat]++
}

func (c *collector) add(cat IssueCategory, sev Severity, key, format string, args ...any) {
	c.stats.Issues = append(c.stats.Issues, Issue{
		Key:         key,
		Description: fmt.Sprintf(format, args...),
		Category:    cat,
		Severity:    sev,
	})
}

func (c *collector) addFixable(cat IssueCategory, sev Severity, key, format string, args ...any) {
	c.add(cat, sev, key, format, args...)
	c.stats.Issues[len(c.stats.Issues)-1].Fixable = true
}

// checkTools verifies git is installed. Returns whether git can be used by
// later checks.
func checkTools(ctx context.Context, c *collector) bool {
	if err := git.CheckGit(); err != nil {
		c.add(CategoryTools, Error, "git", "%v", err)
		return false
	}
	if _, err := git.Version(ctx); err != nil {
		c.add(CategoryTools, Error, "git", "git --version failed: %v", err)
		return false
	}
	c.pass(CategoryTools)
	return true
}

// checkAccounts loads the raw store state, reports invariant violations, and
// opens the registry. A nil registry means later account checks are skipped.
func checkAccounts(store account.Store, home string, c *collector) *account.Registry {
	st, err := store.Load()
	if err != nil {
		c.add(CategoryAccounts, Error, "store", "cannot load accounts: %v", err)
		return nil
	}
	c.pass(CategoryAccounts)

	seen := make(map[string]bool, len(st.Accounts))
	for _, a := range st.Accounts {
		switch {
		case seen[a.Name]:
			c.add(CategoryAccounts, Error, a.Name, "duplicate account name")
		case a.Name == "" || a.Username == "" || a.Email == "" || a.Directory == "":
			c.add(CategoryAccounts, Error, a.Name, "account is missing name, username, email or directory")
		case !filepath.IsAbs(a.Directory):
			c.add(CategoryAccounts, Error, a.Name, "directory %q is not absolute", a.Directory)
		case a.HostAlias != "" && a.HostAlias != account.HostAliasFor(a.Name):
			c.add(CategoryAccounts, Warning, a.Name, "host alias %q differs from %q", a.HostAlias, account.HostAliasFor(a.Name))
		default:
			c.pass(CategoryAccounts)
		}
		seen[a.Name] = true
	}

	switch {
	case len(st.Accounts) == 0 && st.DefaultAccount != "":
		c.add(CategoryAccounts, Warning, "default", "default account %q set without any accounts", st.DefaultAccount)
	case len(st.Accounts) > 0 && st.DefaultAccount == "":
		c.add(CategoryAccounts, Warning, "default", "no default account; run 'ghmm set-default <name>'")
	case st.DefaultAccount != "" && !seen[st.DefaultAccount]:
		c.add(CategoryAccounts, Error, "default", "default account %q does not exist", st.DefaultAccount)
	default:
		c.pass(CategoryAccounts)
	}

	reg, err := account.Open(store, home)
	if err != nil {
		c.add(CategoryAccounts, Error, "store", "%v", err)
		return nil
	}
	return reg
}

// checkKeys verifies each key pair exists and, when an agent is reachable,
// that it holds the key.
func checkKeys(accounts []account.Account, keys KeyChecker, c *collector) {
	agentUsable := keys != nil
	for _, a := range accounts {
		if _, err := os.Stat(a.SSHKeyPath); err != nil {
			c.add(CategoryKeys, Error, a.Name, "private key %s missing; run 'ghmm generate-key %s'", a.SSHKeyPath, a.Name)
			continue
		}
		if _, err := os.Stat(a.PublicKeyPath()); err != nil {
			c.add(CategoryKeys, Warning, a.Name, "public key %s missing", a.PublicKeyPath())
		}
		if !agentUsable {
			c.pass(CategoryKeys)
			continue
		}

		loaded, err := keys.AgentHasKey(a.SSHKeyPath)
		switch {
		case errors.Is(err, sshkey.ErrNoAgent):
			c.add(CategoryTools, Warning, "ssh-agent", "ssh-agent not running (SSH_AUTH_SOCK unset)")
			agentUsable = false
			c.pass(CategoryKeys)
		case err != nil:
			c.add(CategoryKeys, Warning, a.Name, "cannot query ssh-agent: %v", err)
		case !loaded:
			c.add(CategoryKeys, Warning, a.Name, "key not loaded in ssh-agent; run 'ssh-add %s'", a.SSHKeyPath)
		default:
			c.pass(CategoryKeys)
		}
	}
}

// target is one managed file and the block body apply would write to it.
type target struct {
	label string
	path  string
	want  string
}

// checkRegion reports a corrupt, missing or stale managed block.
// Returns false when the block cannot be read.
func checkRegion(t target, wantBlock bool, c *collector) bool {
	body, ok, err := region.Read(t.path)
	switch {
	case errors.Is(err, region.ErrCorrupt):
		c.add(CategoryRegions, Error, t.path, "%s: %v; fix the markers by hand", t.label, err)
		return false
	case err != nil:
		c.add(CategoryRegions, Error, t.path, "%s: %v", t.label, err)
		return false
	case !ok && wantBlock:
		c.addFixable(CategoryRegions, Warning, t.path, "%s has no managed block", t.label)
	case ok && normalize(body) != normalize(t.want):
		c.addFixable(CategoryRegions, Warning, t.path, "%s managed block is out of date", t.label)
	default:
		c.pass(CategoryRegions)
	}
	return true
}

func normalize(body string) string {
	return strings.TrimRight(body, "\n")
}

// checkAliases compares the host aliases in the SSH managed block with the
// registry.
func checkAliases(ssh *sshconfig.Reconciler, accounts []account.Account, c *collector) {
	aliases, err := ssh.Aliases()
	if err != nil {
		c.add(CategoryRegions, Error, ssh.Path(), "%v", err)
		return
	}

	want := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		want[a.HostAlias] = true
		keyPath, ok := aliases[a.HostAlias]
		switch {
		case !ok:
			c.addFixable(CategoryRegions, Error, a.Name, "host %s missing from %s", a.HostAlias, ssh.Path())
		case keyPath != a.SSHKeyPath:
			c.addFixable(CategoryRegions, Error, a.Name, "host %s uses key %s, want %s", a.HostAlias, keyPath, a.SSHKeyPath)
		default:
			c.pass(CategoryRegions)
		}
	}
	for alias := range aliases {
		if !want[alias] {
			c.addFixable(CategoryRegions, Warning, alias, "host %s has no account", alias)
		}
	}
}

// checkIdentities verifies each account's identity file holds its user.
func checkIdentities(gitR *gitidentity.Reconciler, accounts []account.Account, c *collector) {
	for _, a := range accounts {
		path := gitR.IdentityPath(a.Name)
		have, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			c.addFixable(CategoryRegions, Error, a.Name, "identity file %s missing", path)
		case err != nil:
			c.add(CategoryRegions, Error, a.Name, "%v", err)
		case string(have) != string(gitidentity.RenderIdentity(a)):
			c.addFixable(CategoryRegions, Warning, a.Name, "identity file %s is out of date", path)
		default:
			c.pass(CategoryRegions)
		}
	}
}

// checkRouting verifies each account directory resolves to that account.
// With git available, repositories are also asked which email git applies.
func checkRouting(ctx context.Context, accounts []account.Account, useGit bool, c *collector) {
	for _, a := range accounts {
		got, ok := gitidentity.Resolve(accounts, a.Directory)
		if !ok || got.Name != a.Name {
			c.add(CategoryRouting, Error, a.Name, "%s routes to account %q", a.Directory, got.Name)
			continue
		}

		info, err := os.Stat(a.Directory)
		if err != nil || !info.IsDir() {
			c.add(CategoryRouting, Warning, a.Name, "directory %s does not exist", a.Directory)
			continue
		}
		if !useGit || !git.IsInsideRepoPath(ctx, a.Directory) {
			c.pass(CategoryRouting)
			continue
		}

		email, set, err := git.ConfigValue(ctx, a.Directory, "user.email")
		switch {
		case err != nil:
			c.add(CategoryRouting, Warning, a.Name, "git config in %s: %v", a.Directory, err)
		case !set || email != a.Email:
			c.add(CategoryRouting, Error, a.Name, "git uses email %q in %s, want %q", email, a.Directory, a.Email)
		default:
			c.pass(CategoryRouting)
		}
	}
}
