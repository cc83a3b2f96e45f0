package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/config"
)

// completeAccountNames completes registered account names. Completion runs
// without the root setup, so the config and store are loaded here.
func completeAccountNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	st, err := account.NewYAMLStore(cfg.StoreDir).Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, a := range st.Accounts {
		if strings.HasPrefix(a.Name, toComplete) && !contains(args, a.Name) {
			matches = append(matches, a.Name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
