package doctor

import (
	"context"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/reconcile"
)

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryTools represents missing external tools.
	CategoryTools IssueCategory = "tools"
	// CategoryAccounts represents problems with the account store.
	CategoryAccounts IssueCategory = "accounts"
	// CategoryKeys represents missing keys or keys absent from the agent.
	CategoryKeys IssueCategory = "keys"
	// CategoryRegions represents managed blocks that are corrupt or stale.
	CategoryRegions IssueCategory = "regions"
	// CategoryRouting represents directories git routes to the wrong identity.
	CategoryRouting IssueCategory = "routing"
)

var categories = []IssueCategory{
	CategoryTools,
	CategoryAccounts,
	CategoryKeys,
	CategoryRegions,
	CategoryRouting,
}

var categoryNames = map[IssueCategory]string{
	CategoryTools:    "Tool issues",
	CategoryAccounts: "Account issues",
	CategoryKeys:     "Key issues",
	CategoryRegions:  "Managed block issues",
	CategoryRouting:  "Routing issues",
}

// Severity ranks an issue.
type Severity int

const (
	// Warning marks something that works but deserves attention.
	Warning Severity = iota
	// Error marks something that breaks pushes, pulls or commits.
	Error
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string // account name or file path
	Description string
	Category    IssueCategory
	Severity    Severity
	Fixable     bool // repaired by reapplying all targets
}

// IssueStats counts passed checks by category.
type IssueStats struct {
	Passed map[IssueCategory]int
	Issues []Issue
}

// Errors returns the number of error-severity issues.
func (s IssueStats) Errors() int {
	n := 0
	for _, issue := range s.Issues {
		if issue.Severity == Error {
			n++
		}
	}
	return n
}

// Fixable returns the number of issues a reapply would repair.
func (s IssueStats) Fixable() int {
	n := 0
	for _, issue := range s.Issues {
		if issue.Fixable {
			n++
		}
	}
	return n
}

// FixableErrors returns the number of error-severity issues a reapply
// would repair.
func (s IssueStats) FixableErrors() int {
	n := 0
	for _, issue := range s.Issues {
		if issue.Fixable && issue.Severity == Error {
			n++
		}
	}
	return n
}

// KeyChecker reports whether ssh-agent holds a key.
type KeyChecker interface {
	AgentHasKey(path string) (bool, error)
}

// Applier rewrites every target file from the registry.
type Applier interface {
	ApplyAll(ctx context.Context, accounts []account.Account, defaultName string) (reconcile.Report, error)
}
