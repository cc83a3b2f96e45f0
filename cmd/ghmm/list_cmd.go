package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/output"
	"github.com/raphi011/ghmm/internal/ui/static"
)

// accountJSON is the --json form of an account.
type accountJSON struct {
	account.Account
	Default   bool `json:"default"`
	KeyExists bool `json:"key_exists"`
}

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		GroupID: GroupAccounts,
		Args:    cobra.NoArgs,
		Example: `  ghmm list          # table, default account starred
  ghmm list --json   # for scripting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			def, _ := a.reg.Default()
			accounts := a.reg.List()

			if jsonOutput {
				items := make([]accountJSON, 0, len(accounts))
				for _, acc := range accounts {
					items = append(items, accountJSON{
						Account:   acc,
						Default:   acc.Name == def,
						KeyExists: fileExists(acc.SSHKeyPath),
					})
				}
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(accounts) == 0 {
				out.Println("No accounts. Add one with 'ghmm add' or 'ghmm import'.")
				return nil
			}

			rows := make([][]string, 0, len(accounts))
			for _, acc := range accounts {
				rows = append(rows, static.AccountTableRow(acc, acc.Name == def, fileExists(acc.SSHKeyPath), a.cfg.Home()))
			}
			out.Print(static.RenderTable(static.AccountHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
