// Package discover reconstructs accounts from a hand-made multi-account
// setup: github.com-* hosts in the SSH config and gitdir conditional
// includes in the global git config.
package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gopasspw/gitconfig"
	"github.com/kevinburke/ssh_config"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/log"
)

const noreplyDomain = "@users.noreply.github.com"

var includeIfHeader = regexp.MustCompile(`(?im)^\s*\[includeIf\s+"(gitdir(?:/i)?:[^"]+)"\s*\]`)

// Sources names the files Detect reads.
type Sources struct {
	Home      string
	SSHConfig string
	GitConfig string
}

// Detect returns one candidate account per gitdir include whose identity
// file names a user, enriched with the SSH host alias and key that best
// match it. Candidates keep the git config's order. Missing files yield no
// candidates.
func Detect(ctx context.Context, src Sources) ([]account.Account, error) {
	l := log.FromContext(ctx)

	hosts, err := sshHosts(src.SSHConfig, src.Home)
	if err != nil {
		return nil, err
	}
	l.Debug("scanned ssh config", "path", src.SSHConfig, "hosts", len(hosts))

	accounts, err := gitAccounts(src.GitConfig, src.Home)
	if err != nil {
		return nil, err
	}
	l.Debug("scanned git config", "path", src.GitConfig, "accounts", len(accounts))

	for i := range accounts {
		if h, ok := matchHost(accounts[i], hosts); ok {
			accounts[i].HostAlias = h.alias
			accounts[i].SSHKeyPath = h.identityFile
		}
	}
	return accounts, nil
}

type sshHost struct {
	alias        string
	identityFile string
}

// sshHosts returns github.com-* hosts with an IdentityFile, sorted by alias.
func sshHosts(path, home string) ([]sshHost, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ssh config: %w", err)
	}
	cfg, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var hosts []sshHost
	for _, h := range cfg.Hosts {
		for _, p := range h.Patterns {
			alias := p.String()
			if !strings.HasPrefix(alias, account.HostBase+"-") {
				continue
			}
			identity, err := cfg.Get(alias, "IdentityFile")
			if err != nil || identity == "" {
				continue
			}
			hosts = append(hosts, sshHost{alias: alias, identityFile: expand(strings.Trim(identity, `"`), home)})
		}
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].alias < hosts[j].alias })
	return hosts, nil
}

// gitAccounts reads gitdir includes and the user section of each included file.
func gitAccounts(path, home string) ([]account.Account, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read git config: %w", err)
	}
	cfg := gitconfig.ParseConfig(bytes.NewReader(data))

	var accounts []account.Account
	seen := make(map[string]bool)
	for _, m := range includeIfHeader.FindAllStringSubmatch(string(data), -1) {
		condition := m[1]
		if seen[condition] {
			continue
		}
		seen[condition] = true

		includes, ok := cfg.GetAll("includeIf." + condition + ".path")
		if !ok {
			continue
		}
		dir := conditionDir(condition, home)
		for _, inc := range includes {
			a, ok := identity(resolveInclude(inc, path, home), dir, home)
			if ok {
				accounts = append(accounts, a)
			}
		}
	}
	return accounts, nil
}

// conditionDir turns "gitdir:~/work/**" into an absolute directory.
func conditionDir(condition, home string) string {
	_, dir, _ := strings.Cut(condition, ":")
	dir = strings.TrimSuffix(dir, "**")
	dir = strings.TrimSuffix(dir, "/")
	return expand(dir, home)
}

func resolveInclude(inc, configPath, home string) string {
	inc = expand(inc, home)
	if !filepath.IsAbs(inc) {
		inc = filepath.Join(filepath.Dir(configPath), inc)
	}
	return inc
}

// identity builds a candidate from an identity file holding user.name and user.email.
func identity(path, dir, home string) (account.Account, bool) {
	cfg, err := gitconfig.LoadConfig(path)
	if err != nil {
		return account.Account{}, false
	}
	name, _ := cfg.Get("user.name")
	email, _ := cfg.Get("user.email")
	if name == "" || email == "" {
		return account.Account{}, false
	}
	return account.Account{
		Name:      accountName(path, home),
		Username:  githubUsername(name, email),
		Email:     email,
		Directory: dir,
	}, true
}

// accountName derives a name from ~/.gitconfig-<name> or <dir>/<name>/.gitconfig.
func accountName(path, home string) string {
	base := filepath.Base(path)
	if name, ok := strings.CutPrefix(base, ".gitconfig-"); ok && name != "" {
		return name
	}
	if base == ".gitconfig" {
		parent := filepath.Base(filepath.Dir(path))
		if parent != "." && parent != "/" && parent != filepath.Base(home) {
			return parent
		}
	}
	return strings.TrimPrefix(base, ".")
}

// githubUsername prefers the login embedded in a noreply address
// (12345+login@users.noreply.github.com) over the display name.
func githubUsername(name, email string) string {
	local, ok := strings.CutSuffix(email, noreplyDomain)
	if !ok {
		return name
	}
	if _, login, found := strings.Cut(local, "+"); found && login != "" {
		return login
	}
	return local
}

// matchHost picks the SSH host that most plausibly belongs to a. Strategies
// in order: alias suffix equals the name, alias contains the username, the
// key file mentions the name or username, the name starts with the suffix.
func matchHost(a account.Account, hosts []sshHost) (sshHost, bool) {
	name := strings.ToLower(a.Name)
	user := strings.ToLower(a.Username)
	strategies := []func(h sshHost, suffix string) bool{
		func(_ sshHost, suffix string) bool { return suffix == name },
		func(_ sshHost, suffix string) bool { return user != "" && strings.Contains(suffix, user) },
		func(h sshHost, _ string) bool {
			key := strings.ToLower(filepath.Base(h.identityFile))
			return strings.Contains(key, name) || (user != "" && strings.Contains(key, user))
		},
		func(_ sshHost, suffix string) bool { return len(name) > 2 && strings.HasPrefix(name, suffix) },
	}
	for _, match := range strategies {
		for _, h := range hosts {
			suffix := strings.ToLower(strings.TrimPrefix(h.alias, account.HostBase+"-"))
			if match(h, suffix) {
				return h, true
			}
		}
	}
	return sshHost{}, false
}

func expand(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}
