package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/doctor"
	"github.com/raphi011/ghmm/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair issues",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Diagnose the account list and every managed file.

Checks:
- git is installed
- the account list loads and has exactly one default
- each account's SSH key exists and is loaded in ssh-agent
- each managed block is intact and up to date
- SSH host aliases match the account list
- each account directory routes to its own account

With --fix, out-of-date or missing managed blocks are rewritten as
'ghmm apply' would. Corrupt blocks (unbalanced markers) are never touched.`,
		Example: `  ghmm doctor          # Check for issues
  ghmm doctor --fix    # Rewrite stale managed blocks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			env := a.doctorEnv()
			env.Out = out.Writer()

			var applier doctor.Applier
			if fix {
				applier = a.orchestrator()
			}

			stats, err := doctor.Run(ctx, env, applier)
			if err != nil {
				return err
			}
			remaining := stats.Errors()
			if fix {
				remaining -= stats.FixableErrors()
			}
			if remaining > 0 {
				return fmt.Errorf("%d problems need attention", remaining)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Rewrite stale managed blocks")
	return cmd
}
