package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/config"
	"github.com/raphi011/ghmm/internal/log"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupAccounts = "accounts"
	GroupSync     = "sync"
	GroupKeys     = "keys"
	GroupUtility  = "utility"
	GroupConfig   = "config"
)

// skipSetup lists commands that run without loading the config.
var skipSetup = map[string]bool{
	"completion":                    true,
	"help":                          true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

func newRootCmd() *cobra.Command {
	var verbose, quiet bool

	cmd := &cobra.Command{
		Use:   "ghmm",
		Short: "Manage multiple GitHub accounts on one machine",
		Long: `ghmm keeps your SSH config, git config and shell start-up script in sync
with one list of GitHub accounts.

Each account gets its own SSH key, a host alias (github.com-<name>) and a
directory. Inside that directory git commits with the account's identity,
and clones through the alias push with the account's key.

ghmm only ever rewrites a delimited block in each file:

  # >>> ghmm managed block >>>
  ...
  # <<< ghmm managed block <<<

Everything outside the block is left byte-for-byte untouched.`,
		Example: `  ghmm add work --username alice-corp --email alice@corp.com --dir ~/code/work
  ghmm apply                 # rewrite ~/.ssh/config, ~/.gitconfig, shell script
  ghmm whoami                # which account applies here?`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = log.WithLogger(ctx, log.New(cmd.ErrOrStderr(), verbose, quiet))
			ctx = output.WithPrinter(ctx, cmd.OutOrStdout())

			if !skipSetup[cmd.Name()] {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				styles.Init(cfg.Theme)
				ctx = config.WithConfig(ctx, &cfg)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands and file writes")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupAccounts, Title: "Account Commands:"},
		&cobra.Group{ID: GroupSync, Title: "Sync Commands:"},
		&cobra.Group{ID: GroupKeys, Title: "Key Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Account commands
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSetDefaultCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newSetupCmd())

	// Sync commands
	cmd.AddCommand(newApplyCmd())

	// Key commands
	cmd.AddCommand(newGenerateKeyCmd())
	cmd.AddCommand(newShowKeyCmd())
	cmd.AddCommand(newTestCmd())

	// Utility commands
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newInfoCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// Execute runs the root command with a signal-aware context.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'ghmm -h' for help")
		cancel()
		os.Exit(1)
	}
}
