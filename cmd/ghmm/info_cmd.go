package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/config"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/static"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info",
		Short:   "Show the files ghmm manages",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Example: `  ghmm info`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			home := a.cfg.Home()

			cfgPath, err := config.Path()
			if err != nil {
				cfgPath = "(unknown)"
			}
			def, ok := a.reg.Default()
			if !ok {
				def = "(none)"
			}

			rows := [][]string{
				{"version", versionString()},
				{"config", static.ShortenHome(cfgPath, home)},
				{"accounts", static.ShortenHome(a.store.Path(), home)},
				{"ssh config", static.ShortenHome(a.ssh.Path(), home)},
				{"git config", static.ShortenHome(a.git.Path(), home)},
				{"shell", a.shell.Kind()},
				{"shell script", static.ShortenHome(a.shell.ConfigFile(), home)},
				{"account count", strconv.Itoa(a.reg.Len())},
				{"default", def},
			}
			for _, r := range rows {
				out.Field(r[0], r[1], 14, styles.MutedStyle.Render)
			}
			return nil
		},
	}
	return cmd
}
