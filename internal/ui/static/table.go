// Package static provides non-interactive terminal output components.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/ui/styles"
)

// AccountHeaders are the columns of AccountTableRow.
var AccountHeaders = []string{"", "NAME", "USERNAME", "EMAIL", "DIRECTORY", "HOST", "KEY"}

// RenderTable creates a formatted table with proper column alignment.
// Column widths follow the content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// AccountTableRow formats an account for the list table. home is shortened
// to ~ in paths.
func AccountTableRow(a account.Account, isDefault, keyExists bool, home string) []string {
	key := styles.OK()
	if !keyExists {
		key = styles.Warn() + " missing"
	}
	return []string{
		styles.DefaultMarker(isDefault),
		a.Name,
		a.Username,
		a.Email,
		ShortenHome(a.Directory, home),
		a.HostAlias,
		key,
	}
}

// ShortenHome replaces a leading home directory with ~.
func ShortenHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, strings.TrimSuffix(home, "/")+"/"); ok {
		return "~/" + rest
	}
	return path
}
