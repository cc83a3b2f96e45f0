package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/sshkey"
	"github.com/raphi011/ghmm/internal/ui/prompt"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

// errCancelled is returned when the user aborts a prompt.
var errCancelled = errors.New("cancelled")

func newAddCmd() *cobra.Command {
	var (
		username string
		email    string
		dir      string
		keyPath  string
		noKey    bool
		apply    bool
	)

	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Add a GitHub account",
		GroupID: GroupAccounts,
		Args:    cobra.MaximumNArgs(1),
		Long: `Add a GitHub account and generate its SSH key.

The account's host alias is github.com-<name> and its key defaults to
~/.ssh/<name>_ssh. Missing fields are prompted for when running in a
terminal. The first account becomes the default.

Nothing outside ~/.ghmm is changed until 'ghmm apply' (or --apply).`,
		Example: `  ghmm add                      # prompt for everything
  ghmm add work -u alice-corp -e alice@corp.com -d ~/code/work
  ghmm add oss -u alice -e alice@example.com -d ~/oss --key ~/.ssh/id_ed25519
  ghmm add work ... --apply     # write configs right away`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			acc := account.Account{
				Username:   username,
				Email:      email,
				Directory:  dir,
				SSHKeyPath: keyPath,
			}
			if len(args) == 1 {
				acc.Name = args[0]
			}
			if err := fillAccount(&acc, a.cfg.Home()); err != nil {
				return err
			}

			if err := a.reg.Add(acc); err != nil {
				return err
			}
			acc, _ = a.reg.Get(acc.Name)
			out.Printf("%s Added account %s\n", styles.OK(), styles.Bold.Render(acc.Name))
			out.Step("", "host", acc.HostAlias)
			out.Step("", "directory", acc.Directory)

			if !noKey {
				if err := ensureKey(cmd, a, acc); err != nil {
					l.Printf("Warning: %v\n", err)
					l.Printf("Generate it later with: ghmm generate-key %s\n", acc.Name)
				}
			}

			if apply {
				return runApply(cmd, a, false)
			}
			out.Hint("Run 'ghmm apply' to update your SSH, git and shell configuration.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "GitHub username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Commit email address")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory whose repositories use this account (default ~/code/<name>)")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Existing or new private key path (default ~/.ssh/<name>_ssh)")
	cmd.Flags().BoolVar(&noKey, "no-key", false, "Do not generate a key")
	cmd.Flags().BoolVar(&apply, "apply", false, "Run 'ghmm apply' after adding")
	cmd.MarkFlagDirname("dir")
	cmd.MarkFlagFilename("key")

	return cmd
}

// fillAccount prompts for missing fields when interactive, or reports them.
func fillAccount(acc *account.Account, home string) error {
	if !interactive() {
		var missing []string
		if acc.Name == "" {
			missing = append(missing, "name")
		}
		if acc.Username == "" {
			missing = append(missing, "--username")
		}
		if acc.Email == "" {
			missing = append(missing, "--email")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", account.ErrInvalidAccount, strings.Join(missing, ", "))
		}
		if acc.Directory == "" {
			acc.Directory = defaultDir(home, acc.Name)
		}
		return nil
	}

	fields := []struct {
		value    *string
		label    string
		def      func() string
		required bool
	}{
		{&acc.Name, "Account name (e.g. work, personal):", nil, true},
		{&acc.Username, "GitHub username:", nil, true},
		{&acc.Email, "Commit email:", nil, true},
		{&acc.Directory, "Directory:", func() string { return defaultDir(home, acc.Name) }, true},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		def := ""
		if f.def != nil {
			def = f.def()
		}
		res, err := prompt.TextInput(f.label, def, f.required)
		if err != nil {
			return err
		}
		if res.Cancelled {
			return errCancelled
		}
		*f.value = res.Value
	}
	return nil
}

func defaultDir(home, name string) string {
	return filepath.Join(home, "code", name)
}

// ensureKey generates the account's key unless one exists, loads it into
// ssh-agent when configured, and prints the public key.
func ensureKey(cmd *cobra.Command, a *app, acc account.Account) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)

	if _, err := os.Stat(acc.SSHKeyPath); err == nil {
		out.Step(styles.OK(), "key", acc.SSHKeyPath+" (existing)")
	} else {
		if _, err := a.keys.GenerateKey(ctx, acc.SSHKeyPath, acc.Email); err != nil {
			return err
		}
		out.Step(styles.OK(), "key", acc.SSHKeyPath)
	}

	if a.cfg.Keys.AddToAgent {
		if err := a.keys.RegisterWithAgent(ctx, acc.SSHKeyPath); err != nil {
			if !errors.Is(err, sshkey.ErrNoAgent) {
				return err
			}
			log.FromContext(ctx).Debug("skipped ssh-agent", "reason", err)
		} else {
			out.Step(styles.OK(), "ssh-agent", "key loaded")
		}
	}

	return printPublicKey(cmd, acc, false)
}
