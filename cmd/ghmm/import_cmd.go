package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/discover"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/static"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newImportCmd() *cobra.Command {
	var (
		dryRun bool
		apply  bool
	)

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Import accounts from an existing hand-made setup",
		GroupID: GroupAccounts,
		Args:    cobra.NoArgs,
		Long: `Reconstruct accounts from an existing multi-account setup.

Every [includeIf "gitdir:<dir>"] in the git config whose included file sets
user.name/user.email becomes a candidate; the matching github.com-* host in
the SSH config supplies the key. Accounts whose name is already registered
are skipped.

Imported accounts use the host alias github.com-<name>. Existing hand-written
Host entries stay outside the ghmm block; remove them once 'ghmm apply' has
written the new ones.`,
		Example: `  ghmm import --dry-run   # show what would be imported
  ghmm import --apply     # import and write configs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

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
				return err
			}
			if len(candidates) == 0 {
				out.Println("No existing accounts found.")
				return nil
			}

			printCandidates(out, a, candidates)

			if dryRun {
				return nil
			}
			n, err := a.reg.Import(candidates)
			if err != nil {
				return err
			}
			out.Println()
			out.Printf("%s Imported %d accounts\n", styles.OK(), n)
			if n == 0 {
				return nil
			}
			if apply {
				return runApply(cmd, a, false)
			}
			out.Println("Run 'ghmm apply' to update your SSH, git and shell configuration.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show candidates without importing")
	cmd.Flags().BoolVar(&apply, "apply", false, "Run 'ghmm apply' after importing")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "apply")
	return cmd
}

// printCandidates lists discovered accounts, marking those already registered.
func printCandidates(out *output.Printer, a *app, candidates []account.Account) {
	home := a.cfg.Home()
	headers := []string{"", "NAME", "USERNAME", "EMAIL", "DIRECTORY", "KEY"}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		mark := "+"
		if _, exists := a.reg.Get(c.Name); exists {
			mark = styles.MutedStyle.Render("=")
		}
		key := c.SSHKeyPath
		if key == "" {
			key = account.DefaultKeyPath(home, c.Name)
		}
		rows = append(rows, []string{
			mark,
			c.Name,
			c.Username,
			c.Email,
			static.ShortenHome(c.Directory, home),
			static.ShortenHome(key, home),
		})
	}
	out.Print(static.RenderTable(headers, rows))
}
