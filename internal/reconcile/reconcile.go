// Package reconcile applies the account list to every managed file in a
// fixed order, stopping at the first failure.
package reconcile

import (
	"context"
	"fmt"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/region"
)

// Stage names, in execution order.
const (
	StageSSH      = "ssh-config"
	StageGit      = "git-config"
	StageIdentity = "git-identity"
	StageShell    = "shell-config"
)

// StageError reports which stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// SSHConfig rewrites the SSH client config.
type SSHConfig interface {
	Reconcile(ctx context.Context, accounts []account.Account) (region.Result, error)
}

// GitConfig rewrites the global git config and per-account identity files.
type GitConfig interface {
	Reconcile(ctx context.Context, accounts []account.Account) (region.Result, error)
	MaterializeIdentity(ctx context.Context, a account.Account) (region.Result, error)
}

// ShellConfig rewrites the shell start-up script.
type ShellConfig interface {
	Reconcile(ctx context.Context, accounts []account.Account, defaultName string) (region.Result, error)
}

// Step is the outcome of one completed stage on one file.
type Step struct {
	Stage   string
	Account string // set for git-identity steps
	region.Result
}

// Report lists completed steps in execution order.
type Report struct {
	Steps []Step
}

// Changed returns the number of files that were written.
func (r Report) Changed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Changed {
			n++
		}
	}
	return n
}

// Orchestrator runs the reconcilers against one account snapshot.
type Orchestrator struct {
	ssh   SSHConfig
	git   GitConfig
	shell ShellConfig
}

// New creates an Orchestrator.
func New(ssh SSHConfig, git GitConfig, shell ShellConfig) *Orchestrator {
	return &Orchestrator{ssh: ssh, git: git, shell: shell}
}

// ApplyAll runs ssh-config, git-config, git-identity for each account and
// shell-config. The first failure stops the run and is returned as a
// *StageError; earlier writes stay in place and a rerun converges.
func (o *Orchestrator) ApplyAll(ctx context.Context, accounts []account.Account, defaultName string) (Report, error) {
	l := log.FromContext(ctx)
	var report Report

	run := func(stage, name string, fn func() (region.Result, error)) error {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: stage, Err: err}
		}
		res, err := fn()
		if err != nil {
			return &StageError{Stage: stage, Err: err}
		}
		l.Debug("stage done", "stage", stage, "path", res.Path, "changed", res.Changed)
		report.Steps = append(report.Steps, Step{Stage: stage, Account: name, Result: res})
		return nil
	}

	if err := run(StageSSH, "", func() (region.Result, error) {
		return o.ssh.Reconcile(ctx, accounts)
	}); err != nil {
		return report, err
	}

	if err := run(StageGit, "", func() (region.Result, error) {
		return o.git.Reconcile(ctx, accounts)
	}); err != nil {
		return report, err
	}

	for _, a := range accounts {
		if err := run(StageIdentity, a.Name, func() (region.Result, error) {
			return o.git.MaterializeIdentity(ctx, a)
		}); err != nil {
			return report, err
		}
	}

	if err := run(StageShell, "", func() (region.Result, error) {
		return o.shell.Reconcile(ctx, accounts, defaultName)
	}); err != nil {
		return report, err
	}

	return report, nil
}
