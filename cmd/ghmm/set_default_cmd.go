package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/prompt"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newSetDefaultCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:               "set-default [name]",
		Short:             "Choose the account used outside account directories",
		GroupID:           GroupAccounts,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeAccountNames,
		Long: `Mark an account as the default.

The shell script exports the default account's host alias as
GHMM_DEFAULT_HOST_ALIAS; 'ghmm-clone' uses it outside any account function.
Without a name, pick from a list when running in a terminal.`,
		Example: `  ghmm set-default personal
  ghmm set-default            # choose interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			var name string
			switch {
			case len(args) == 1:
				name = args[0]
			case !interactive():
				return errors.New("account name required")
			case a.reg.Len() == 0:
				return errors.New("no accounts; add one with 'ghmm add'")
			default:
				accounts := a.reg.List()
				options := make([]prompt.Option, len(accounts))
				def, _ := a.reg.Default()
				current := 0
				for i, acc := range accounts {
					options[i] = prompt.Option{Label: acc.Name, Detail: acc.Username + " <" + acc.Email + ">"}
					if acc.Name == def {
						current = i
					}
				}
				res, err := prompt.Select("Default account", options, current)
				if err != nil {
					return err
				}
				if res.Cancelled {
					return errCancelled
				}
				name = accounts[res.Index].Name
			}

			if _, err := a.account(name); err != nil {
				return err
			}
			if err := a.reg.SetDefault(name); err != nil {
				return err
			}
			out.Printf("%s Default account is now %s\n", styles.OK(), name)

			if apply {
				return runApply(cmd, a, false)
			}
			out.Println("Run 'ghmm apply' to update your shell configuration.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Run 'ghmm apply' afterwards")
	return cmd
}
