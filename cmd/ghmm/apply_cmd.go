package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/reconcile"
	"github.com/raphi011/ghmm/internal/ui/static"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newApplyCmd() *cobra.Command {
	var test bool

	cmd := &cobra.Command{
		Use:     "apply",
		Short:   "Write SSH, git and shell configuration for all accounts",
		GroupID: GroupSync,
		Args:    cobra.NoArgs,
		Long: `Rewrite the ghmm managed block of each target file from the account list:

  1. ~/.ssh/config       one Host github.com-<name> stanza per account
  2. ~/.gitconfig        one includeIf "gitdir:<dir>/" per account
  3. ~/.gitconfig-<name> the account's user.name and user.email
  4. shell script       ghmm-<name> functions and the default host alias

Content outside the blocks is never touched and unchanged files are not
rewritten. The first failure stops the run; rerunning converges.

Calling ghmm-<name> pins that account's author and committer for the rest
of the shell session, overriding the directory routing of ~/.gitconfig.
Its github.com URL rewrite is added after any GIT_CONFIG_COUNT entries
already exported and switching accounts reuses the same slot.`,
		Example: `  ghmm apply
  ghmm apply --test    # also run ssh -T for every account`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return runApply(cmd, a, test || a.cfg.Keys.TestAfterApply)
		},
	}

	cmd.Flags().BoolVar(&test, "test", false, "Test SSH authentication afterwards")
	return cmd
}

// runApply reconciles every target and prints one line per step.
func runApply(cmd *cobra.Command, a *app, test bool) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)
	home := a.cfg.Home()

	out.Println()
	out.Println(styles.Bold.Render("Applying configuration"))
	report, err := a.apply(ctx)
	printReport(out, report, home)
	if err != nil {
		var stageErr *reconcile.StageError
		if errors.As(err, &stageErr) {
			out.Step(styles.Fail(), stageErr.Stage, "failed")
			out.Println("Earlier steps were kept; rerun 'ghmm apply' after fixing the problem.")
		}
		return err
	}

	out.Println()
	if report.Changed() == 0 {
		out.Printf("%s Everything up to date\n", styles.OK())
	} else {
		out.Printf("%s Updated %d files\n", styles.OK(), report.Changed())
		out.Printf("\nReload your shell: %s\n", styles.AccentStyle.Render(a.shell.ReloadCommand()))
	}

	if test && a.reg.Len() > 0 {
		out.Println()
		return testAccounts(cmd, a, a.reg.List())
	}
	return nil
}

func printReport(out *output.Printer, report reconcile.Report, home string) {
	for _, step := range report.Steps {
		label := step.Stage
		if step.Account != "" {
			label += " " + step.Account
		}
		detail := static.ShortenHome(step.Path, home)
		switch {
		case step.Created:
			detail += styles.MutedStyle.Render(" (created)")
		case !step.Changed:
			detail += styles.MutedStyle.Render(" (unchanged)")
		}
		out.Step(styles.OK(), label, detail)
	}
}
