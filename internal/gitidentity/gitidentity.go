package gitidentity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/region"
	"github.com/raphi011/ghmm/internal/storage"
)

// IdentityPrefix is the file name prefix of per-account identity files.
const IdentityPrefix = ".gitconfig-"

// Reconciler rewrites the managed block of the global git config and
// maintains the per-account identity files next to it.
type Reconciler struct {
	configPath  string
	identityDir string
}

// New creates a Reconciler for the git config at configPath. Identity files
// are written to identityDir.
func New(configPath, identityDir string) *Reconciler {
	return &Reconciler{configPath: configPath, identityDir: identityDir}
}

// Path returns the global git config file.
func (r *Reconciler) Path() string {
	return r.configPath
}

// IdentityPath returns the identity file for the named account.
func (r *Reconciler) IdentityPath(name string) string {
	return filepath.Join(r.identityDir, IdentityPrefix+name)
}

// Order returns accounts in directive order: registry order, stably moved so
// that deeper directories come after their ancestors.
func Order(accounts []account.Account) []account.Account {
	ordered := slices.Clone(accounts)
	slices.SortStableFunc(ordered, func(a, b account.Account) int {
		return depth(a.Directory) - depth(b.Directory)
	})
	return ordered
}

func depth(dir string) int {
	clean := filepath.ToSlash(filepath.Clean(dir))
	if clean == "/" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(clean, "/"), "/")
}

// gitdir returns the includeIf pattern for dir. The trailing slash makes git
// match everything below dir but not siblings sharing its prefix.
func gitdir(dir string) string {
	return "gitdir:" + strings.TrimSuffix(filepath.ToSlash(filepath.Clean(dir)), "/") + "/"
}

// Render returns the managed block body for accounts.
func (r *Reconciler) Render(accounts []account.Account) string {
	var b strings.Builder
	for _, a := range Order(accounts) {
		fmt.Fprintf(&b, "[includeIf %s]\n", quote(gitdir(a.Directory)))
		fmt.Fprintf(&b, "\tpath = %s\n", value(r.IdentityPath(a.Name)))
	}
	return b.String()
}

// Reconcile writes one conditional include per account into the managed block.
func (r *Reconciler) Reconcile(ctx context.Context, accounts []account.Account) (region.Result, error) {
	return region.Apply(ctx, r.configPath, r.Render(accounts), 0o644)
}

// RenderIdentity returns the content of an account's identity file.
func RenderIdentity(a account.Account) []byte {
	var b bytes.Buffer
	b.WriteString("[user]\n")
	fmt.Fprintf(&b, "\tname = %s\n", value(a.Username))
	fmt.Fprintf(&b, "\temail = %s\n", value(a.Email))
	return b.Bytes()
}

// MaterializeIdentity writes the account's identity file. An identical file
// is left alone.
func (r *Reconciler) MaterializeIdentity(ctx context.Context, a account.Account) (region.Result, error) {
	path := r.IdentityPath(a.Name)
	res := region.Result{Path: path}
	want := RenderIdentity(a)

	have, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Created = true
	case err != nil:
		return res, &region.WriteError{Path: path, Err: err}
	case bytes.Equal(have, want):
		return res, nil
	}

	if err := storage.WriteFileAtomic(path, want, 0o644); err != nil {
		return res, &region.WriteError{Path: path, Err: err}
	}
	res.Changed = true
	log.FromContext(ctx).Debug("wrote identity file", "account", a.Name, "path", path)
	return res, nil
}

// PurgeIdentity deletes the identity file of the named account.
// A missing file is not an error.
func (r *Reconciler) PurgeIdentity(ctx context.Context, name string) (region.Result, error) {
	path := r.IdentityPath(name)
	res := region.Result{Path: path}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, nil
		}
		return res, &region.WriteError{Path: path, Err: err}
	}
	res.Changed = true
	log.FromContext(ctx).Debug("removed identity file", "account", name, "path", path)
	return res, nil
}

// Resolve returns the account git applies inside dir under the directives
// Render emits: the last matching directive in directive order.
func Resolve(accounts []account.Account, dir string) (account.Account, bool) {
	target := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(dir)), "/") + "/"

	var match account.Account
	found := false
	for _, a := range Order(accounts) {
		if strings.HasPrefix(target, strings.TrimPrefix(gitdir(a.Directory), "gitdir:")) {
			match, found = a, true
		}
	}
	return match, found
}

// quote returns s as a double-quoted git config string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// value quotes a config value only when git would otherwise misread it.
func value(s string) string {
	if s == "" || strings.ContainsAny(s, "#;\"\\") || strings.TrimSpace(s) != s {
		return quote(s)
	}
	return s
}

// DefaultPath returns ~/.gitconfig under home.
func DefaultPath(home string) string {
	return filepath.Join(home, ".gitconfig")
}
