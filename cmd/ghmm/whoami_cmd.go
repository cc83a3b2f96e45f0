package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/git"
	"github.com/raphi011/ghmm/internal/gitidentity"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "whoami [dir]",
		Short:   "Show which account applies in a directory",
		GroupID: GroupUtility,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show the account git uses inside a directory (default: the current one).

The answer follows the includeIf directives written by 'ghmm apply': the
most deeply nested account directory containing dir wins. Inside a git
repository the effective user.email and origin URL are shown as well.`,
		Example: `  ghmm whoami
  ghmm whoami ~/code/work/api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err = filepath.Abs(dir)
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("directory %s: %w", dir, err)
			}

			acc, ok := gitidentity.Resolve(a.reg.List(), dir)
			if !ok {
				def, hasDefault := a.reg.Default()
				out.Printf("%s No account directory contains %s\n", styles.Warn(), dir)
				if hasDefault {
					out.Step("", "default", def+" (used by ghmm-clone outside account directories)")
				}
				return nil
			}

			out.Printf("%s %s\n", styles.OK(), styles.Bold.Render(acc.Name))
			out.Step("", "username", acc.Username)
			out.Step("", "email", acc.Email)
			out.Step("", "host", acc.HostAlias)
			out.Step("", "directory", acc.Directory)

			if err := git.CheckGit(); err != nil || !git.IsInsideRepoPath(ctx, dir) {
				return nil
			}
			if email, set, err := git.ConfigValue(ctx, dir, "user.email"); err == nil {
				switch {
				case !set:
					out.Step(styles.Warn(), "git email", "unset; run 'ghmm apply'")
				case email != acc.Email:
					out.Step(styles.Warn(), "git email", email+" (expected "+acc.Email+"; run 'ghmm apply')")
				default:
					out.Step(styles.OK(), "git email", email)
				}
			}
			if url, err := git.RemoteURL(ctx, dir); err == nil {
				out.Step("", "origin", url)
			}
			return nil
		},
	}
	return cmd
}
