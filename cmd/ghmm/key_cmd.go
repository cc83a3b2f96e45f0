package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/sshkey"
	"github.com/raphi011/ghmm/internal/ui/progress"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

const githubKeysURL = "https://github.com/settings/keys"

func newGenerateKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "generate-key <name>",
		Short:             "Generate the SSH key of an account",
		GroupID:           GroupKeys,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAccountNames,
		Long: `Generate an ed25519 key pair at the account's key path.

An existing key is never overwritten. With keys.add_to_agent the new key is
loaded into ssh-agent.`,
		Example: `  ghmm generate-key work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			acc, err := a.account(args[0])
			if err != nil {
				return err
			}
			return ensureKey(cmd, a, acc)
		},
	}
	return cmd
}

func newShowKeyCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:               "show-key <name>",
		Short:             "Print the public key of an account",
		GroupID:           GroupKeys,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAccountNames,
		Example: `  ghmm show-key work          # print the key
  ghmm show-key work --copy   # also copy it to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			acc, err := a.account(args[0])
			if err != nil {
				return err
			}
			return printPublicKey(cmd, acc, copyToClipboard)
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "Copy the key to the clipboard")
	return cmd
}

// printPublicKey prints the key with instructions for adding it to GitHub.
func printPublicKey(cmd *cobra.Command, acc account.Account, copyToClipboard bool) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	pub, ok := sshkey.PublicKeyText(acc.SSHKeyPath)
	if !ok {
		return fmt.Errorf("no public key at %s; run 'ghmm generate-key %s'", acc.PublicKeyPath(), acc.Name)
	}

	out.Println()
	out.Println(styles.KeyBox.Render(pub))
	if fp, err := sshkey.Fingerprint(acc.SSHKeyPath); err == nil {
		out.Println(styles.MutedStyle.Render(fp))
	}

	if copyToClipboard {
		if err := clipboard.WriteAll(pub); err != nil {
			l.Printf("Warning: failed to copy to clipboard: %v\n", err)
		} else {
			out.Printf("%s Copied to clipboard\n", styles.OK())
		}
	}

	out.Printf("\nAdd it to the %s GitHub account at %s\n", acc.Username, githubKeysURL)
	return nil
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "test [name...]",
		Short:             "Test SSH authentication with GitHub",
		GroupID:           GroupKeys,
		ValidArgsFunction: completeAccountNames,
		Long: `Run 'ssh -T git@github.com-<name>' for each account and report whether
GitHub accepts its key. Without names every account is tested.

Requires 'ghmm apply' so the host aliases exist in ~/.ssh/config.`,
		Example: `  ghmm test            # test every account
  ghmm test work       # test one account`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			accounts := a.reg.List()
			if len(args) > 0 {
				accounts = accounts[:0]
				for _, name := range args {
					acc, err := a.account(name)
					if err != nil {
						return err
					}
					accounts = append(accounts, acc)
				}
			}
			if len(accounts) == 0 {
				return errors.New("no accounts; add one with 'ghmm add'")
			}
			return testAccounts(cmd, a, accounts)
		},
	}
	return cmd
}

// testAccounts probes each account and fails if any probe fails.
func testAccounts(cmd *cobra.Command, a *app, accounts []account.Account) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)

	spinner := progress.NewSpinner("Testing connection...")
	spinner.Start()

	type result struct {
		acc account.Account
		msg string
		err error
	}
	results := make([]result, 0, len(accounts))
	for i, acc := range accounts {
		spinner.Step(i+1, len(accounts), "Testing "+acc.HostAlias+"...")
		msg, err := a.keys.TestConnectivity(ctx, acc.HostAlias)
		results = append(results, result{acc, msg, err})
		if ctx.Err() != nil {
			break
		}
	}
	spinner.Stop()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			out.Step(styles.Fail(), r.acc.Name, r.err.Error())
			continue
		}
		out.Step(styles.OK(), r.acc.Name, r.msg)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d accounts failed to authenticate", failed, len(results))
	}
	return nil
}
