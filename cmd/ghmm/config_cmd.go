package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/config"
	"github.com/raphi011/ghmm/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Inspect or create the ghmm config file",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `The config file (~/.config/ghmm/config.toml, or $GHMM_CONFIG) holds
tool settings: which files are managed, the shell dialect and the theme.
Accounts live separately in <store_dir>/config.yaml.`,
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigPathCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force, toStdout bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the commented default config file",
		Args:  cobra.NoArgs,
		Example: `  ghmm config init
  ghmm config init --force
  ghmm config init --stdout > my-config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			if toStdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, err := config.Init(force)
			switch {
			case err != nil && !force:
				return fmt.Errorf("%w (use --force to overwrite)", err)
			case err != nil:
				return err
			}
			out.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	cmd.Flags().BoolVarP(&toStdout, "stdout", "s", false, "Print the default config instead of writing it")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config after defaults and GHMM_* overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := output.FromContext(ctx).Writer()
			cfg := config.FromContext(ctx)

			if !asJSON {
				return cfg.Write(w)
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON instead of TOML")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Println(path)
			return nil
		},
	}
}
