package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/config"
	"github.com/raphi011/ghmm/internal/doctor"
	"github.com/raphi011/ghmm/internal/gitidentity"
	"github.com/raphi011/ghmm/internal/reconcile"
	"github.com/raphi011/ghmm/internal/shell"
	"github.com/raphi011/ghmm/internal/sshconfig"
	"github.com/raphi011/ghmm/internal/sshkey"
)

// app bundles the registry and the collaborators every command works with.
type app struct {
	cfg   *config.Config
	store *account.YAMLStore
	reg   *account.Registry
	ssh   *sshconfig.Reconciler
	git   *gitidentity.Reconciler
	shell *shell.Reconciler
	keys  *sshkey.Manager
}

// shellDialect picks the dialect from config, falling back to $SHELL.
func shellDialect(cfg *config.Config) (shell.Dialect, error) {
	if cfg.Shell.Kind != "" {
		return shell.ParseDialect(cfg.Shell.Kind)
	}
	return shell.Detect(os.Getenv("SHELL")), nil
}

// newApp opens the account store named by the config in ctx.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	dialect, err := shellDialect(cfg)
	if err != nil {
		return nil, err
	}
	rcFile := cfg.Shell.RCFile
	if rcFile == "" {
		rcFile = dialect.ConfigFile(cfg.Home())
	}

	store := account.NewYAMLStore(cfg.StoreDir)
	reg, err := account.Open(store, cfg.Home())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		store: store,
		reg:   reg,
		ssh:   sshconfig.New(cfg.SSHConfig),
		git:   gitidentity.New(cfg.GitConfig, cfg.IdentityDir),
		shell: shell.New(dialect, rcFile),
		keys:  sshkey.New(),
	}, nil
}

func (a *app) orchestrator() *reconcile.Orchestrator {
	return reconcile.New(a.ssh, a.git, a.shell)
}

// apply rewrites every target from the current registry.
func (a *app) apply(ctx context.Context) (reconcile.Report, error) {
	def, _ := a.reg.Default()
	return a.orchestrator().ApplyAll(ctx, a.reg.List(), def)
}

func (a *app) doctorEnv() doctor.Env {
	return doctor.Env{
		Store: a.store,
		Home:  a.cfg.Home(),
		SSH:   a.ssh,
		Git:   a.git,
		Shell: a.shell,
		Keys:  a.keys,
	}
}

// account looks up name and adds a "did you mean" hint when it is unknown.
func (a *app) account(name string) (account.Account, error) {
	if acc, ok := a.reg.Get(name); ok {
		return acc, nil
	}
	return account.Account{}, notFoundError(name, a.reg.Names())
}

// notFoundError wraps account.ErrNotFound with the closest known name.
func notFoundError(name string, names []string) error {
	if hint := closest(name, names); hint != "" {
		return fmt.Errorf("%w: %s (did you mean %q?)", account.ErrNotFound, name, hint)
	}
	return fmt.Errorf("%w: %s", account.ErrNotFound, name)
}

// closest returns the best fuzzy match for name, or "".
func closest(name string, names []string) string {
	matches := fuzzy.Find(name, names)
	if len(matches) > 0 {
		return matches[0].Str
	}
	// fuzzy matching needs the pattern's letters in order; fall back to
	// the reverse direction for names typed too long
	for _, n := range names {
		if len(fuzzy.Find(n, []string{name})) > 0 {
			return n
		}
	}
	return ""
}

// interactive reports whether stdin is a terminal a prompt can read from.
func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
