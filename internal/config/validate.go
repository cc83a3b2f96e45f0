package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Allowed values for enum settings.
var (
	ValidShells     = []string{"bash", "zsh", "fish"}
	ValidThemeNames = []string{"none", "default", "nord", "catppuccin"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// problems collects every invalid setting so one load reports all of them.
type problems []error

// path rejects relative paths; "~" prefixes are expanded later.
func (p *problems) path(field, value string) {
	if value == "" || strings.HasPrefix(value, "~") || filepath.IsAbs(value) {
		return
	}
	*p = append(*p, fmt.Errorf("%s must be absolute or start with ~, got: %q", field, value))
}

func (p *problems) enum(field, value string, allowed []string) {
	if value == "" || slices.Contains(allowed, value) {
		return
	}
	*p = append(*p, fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed)))
}

func (p problems) err() error {
	return errors.Join(p...)
}

// formatOptions renders ["a", "b", "c"] as `"a", "b", or "c"`.
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
