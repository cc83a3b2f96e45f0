package main

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/discover"
	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/sshkey"
	"github.com/raphi011/ghmm/internal/ui/prompt"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   "Interactively set up accounts",
		GroupID: GroupAccounts,
		Args:    cobra.NoArgs,
		Long: `Walk through the first-time setup:

  1. import an existing hand-made setup, if one is found
  2. add accounts one by one, generating a key for each
  3. copy each public key to the clipboard for GitHub
  4. apply the configuration and test every account`,
		Example: `  ghmm setup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if !interactive() {
				return errors.New("setup needs a terminal; use 'ghmm add' and 'ghmm apply' instead")
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			candidates, err := discover.Detect(ctx, discover.Sources{
				Home:      a.cfg.Home(),
				SSHConfig: a.cfg.SSHConfig,
				GitConfig: a.cfg.GitConfig,
			})
			if err != nil {
				l.Printf("Warning: scanning existing setup: %v\n", err)
			}
			if len(candidates) > 0 {
				printCandidates(out, a, candidates)
				ok, err := confirm("Import these accounts?", true)
				if err != nil {
					return err
				}
				if ok {
					n, err := a.reg.Import(candidates)
					if err != nil {
						return err
					}
					out.Printf("%s Imported %d accounts\n\n", styles.OK(), n)
				}
			}

			for {
				more := "Add an account?"
				if a.reg.Len() > 0 {
					more = "Add another account?"
				}
				ok, err := confirm(more, a.reg.Len() == 0)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				if err := setupAccount(cmd, a); err != nil {
					if errors.Is(err, errCancelled) {
						return err
					}
					l.Printf("Error: %v\n", err)
				}
			}

			if a.reg.Len() == 0 {
				out.Println("No accounts configured.")
				return nil
			}
			return runApply(cmd, a, true)
		},
	}
	return cmd
}

// setupAccount adds one account and waits until its key is on GitHub.
func setupAccount(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)

	var acc account.Account
	if err := fillAccount(&acc, a.cfg.Home()); err != nil {
		return err
	}
	if err := a.reg.Add(acc); err != nil {
		return err
	}
	acc, _ = a.reg.Get(acc.Name)
	out.Printf("%s Added account %s\n", styles.OK(), styles.Bold.Render(acc.Name))

	if err := ensureKey(cmd, a, acc); err != nil {
		return err
	}
	if pub, ok := sshkey.PublicKeyText(acc.SSHKeyPath); ok && clipboard.WriteAll(pub) == nil {
		out.Printf("%s Public key copied to clipboard\n", styles.OK())
	}

	for {
		ok, err := confirm("Added the key to "+acc.Username+" on GitHub?", true)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		out.Printf("Open %s while signed in as %s and paste the key.\n", githubKeysURL, acc.Username)
	}
	out.Println()
	return nil
}

// confirm asks a yes/no question; cancelling aborts the wizard.
func confirm(question string, def bool) (bool, error) {
	res, err := prompt.ConfirmDefault(question, def)
	if err != nil {
		return false, err
	}
	if res.Cancelled {
		return false, errCancelled
	}
	return res.Confirmed, nil
}
