package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/gitidentity"
	"github.com/raphi011/ghmm/internal/shell"
	"github.com/raphi011/ghmm/internal/sshconfig"
)

// Env is everything doctor inspects.
type Env struct {
	Store account.Store
	Home  string
	SSH   *sshconfig.Reconciler
	Git   *gitidentity.Reconciler
	Shell *shell.Reconciler // nil skips the shell script
	Keys  KeyChecker        // nil skips agent checks
	Out   io.Writer
}

// Run performs all checks, prints a summary and the issues found, and, when
// fix is non-nil, reapplies every target to repair fixable drift.
// The returned stats describe the state before any fix.
func Run(ctx context.Context, env Env, fix Applier) (IssueStats, error) {
	c := newCollector()
	w := env.Out

	fmt.Fprintln(w, "Checking tools...")
	useGit := checkTools(ctx, c)

	fmt.Fprintln(w, "Checking accounts...")
	reg := checkAccounts(env.Store, env.Home, c)

	var accounts []account.Account
	var defaultName string
	if reg != nil {
		accounts = reg.List()
		defaultName, _ = reg.Default()

		fmt.Fprintln(w, "Checking keys...")
		checkKeys(accounts, env.Keys, c)

		fmt.Fprintln(w, "Checking managed blocks...")
		wantBlock := len(accounts) > 0
		if checkRegion(target{"ssh config", env.SSH.Path(), sshconfig.Render(accounts)}, wantBlock, c) {
			checkAliases(env.SSH, accounts, c)
		}
		checkRegion(target{"git config", env.Git.Path(), env.Git.Render(accounts)}, wantBlock, c)
		checkIdentities(env.Git, accounts, c)
		if env.Shell != nil {
			checkRegion(target{env.Shell.Kind() + " config", env.Shell.ConfigFile(), env.Shell.Render(accounts, defaultName)}, wantBlock, c)
		}

		fmt.Fprintln(w, "Checking routing...")
		checkRouting(ctx, accounts, useGit, c)
	}

	stats := c.stats
	printSummary(w, stats)

	if len(stats.Issues) == 0 {
		fmt.Fprintln(w, "\n✓ No issues found")
		return stats, nil
	}

	fmt.Fprintf(w, "\nFound %d issues:\n", len(stats.Issues))
	printIssuesByCategory(w, stats.Issues)

	if stats.Fixable() == 0 {
		return stats, nil
	}
	if fix == nil || reg == nil {
		fmt.Fprintln(w, "\nRun 'ghmm doctor --fix' to repair.")
		return stats, nil
	}
	return stats, fixAll(ctx, w, fix, accounts, defaultName)
}

// printSummary prints passed checks and issue counts per category.
func printSummary(w io.Writer, stats IssueStats) {
	fmt.Fprintln(w)

	issues := make(map[IssueCategory][2]int) // warnings, errors
	for _, issue := range stats.Issues {
		n := issues[issue.Category]
		n[issue.Severity]++
		issues[issue.Category] = n
	}

	for _, cat := range categories {
		if n := stats.Passed[cat]; n > 0 {
			fmt.Fprintf(w, "  ✓ %d %s checks passed\n", n, cat)
		}
		n := issues[cat]
		if n[Warning] > 0 {
			fmt.Fprintf(w, "  ⚠ %d %s warnings\n", n[Warning], cat)
		}
		if n[Error] > 0 {
			fmt.Fprintf(w, "  ✗ %d %s errors\n", n[Error], cat)
		}
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(w io.Writer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	for _, cat := range categories {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			symbol := "⚠"
			if issue.Severity == Error {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %s: %s\n", symbol, issue.Key, issue.Description)
		}
	}
}
