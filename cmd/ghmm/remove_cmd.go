package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/prompt"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newRemoveCmd() *cobra.Command {
	var (
		yes   bool
		apply bool
	)

	cmd := &cobra.Command{
		Use:               "remove <name>",
		Aliases:           []string{"rm"},
		Short:             "Remove an account",
		GroupID:           GroupAccounts,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAccountNames,
		Long: `Remove an account from the registry and delete its identity file.

The SSH key is kept. Removing the default account makes the first remaining
account the default. Run 'ghmm apply' (or pass --apply) to drop the account
from the managed blocks.`,
		Example: `  ghmm remove work
  ghmm rm work -y --apply`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			acc, err := a.account(args[0])
			if err != nil {
				return err
			}

			if !yes && interactive() {
				res, err := prompt.Confirm(fmt.Sprintf("Remove account %s (%s)?", acc.Name, acc.Email))
				if err != nil {
					return err
				}
				if res.Cancelled || !res.Confirmed {
					return errCancelled
				}
			}

			if err := a.reg.Remove(acc.Name); err != nil {
				return err
			}
			if _, err := a.git.PurgeIdentity(ctx, acc.Name); err != nil {
				l.Printf("Warning: %v\n", err)
			}
			out.Printf("%s Removed account %s\n", styles.OK(), acc.Name)
			if def, ok := a.reg.Default(); ok {
				out.Step("", "default", def)
			}
			out.Step("", "key kept", acc.SSHKeyPath)

			if apply {
				return runApply(cmd, a, false)
			}
			out.Hint("Run 'ghmm apply' to update your SSH, git and shell configuration.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&apply, "apply", false, "Run 'ghmm apply' after removing")
	return cmd
}
