package styles

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/ghmm/internal/config"
)

// Theme is the color set used by tables, prompts and status lines.
type Theme struct {
	Primary color.Color // borders, titles
	Accent  color.Color // default account marker
	Success color.Color
	Error   color.Color
	Muted   color.Color // paths, hints
	Warning color.Color // missing keys, stale blocks
}

// palette lists colors in Theme field order. An empty entry renders
// without color.
type palette [6]string

func (p palette) theme() Theme {
	c := func(s string) color.Color {
		if s == "" {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(s)
	}
	return Theme{
		Primary: c(p[0]),
		Accent:  c(p[1]),
		Success: c(p[2]),
		Error:   c(p[3]),
		Muted:   c(p[4]),
		Warning: c(p[5]),
	}
}

type preset struct {
	dark, light palette
}

var presets = map[string]preset{
	"none": {},
	"default": {
		dark:  palette{"62", "212", "82", "196", "240", "214"},
		light: palette{"25", "163", "28", "160", "245", "166"},
	},
	"nord": {
		dark:  palette{"#88c0d0", "#b48ead", "#a3be8c", "#bf616a", "#4c566a", "#ebcb8b"},
		light: palette{"#5e81ac", "#b48ead", "#a3be8c", "#bf616a", "#9a9a9a", "#d08770"},
	},
	"catppuccin": {
		// mocha / latte
		dark:  palette{"#89b4fa", "#f5c2e7", "#a6e3a1", "#f38ba8", "#6c7086", "#fab387"},
		light: palette{"#1e66f5", "#ea76cb", "#40a02b", "#d20f39", "#9ca0b0", "#fe640b"},
	},
}

// DefaultTheme is active until Init runs.
var DefaultTheme = presets["default"].dark.theme()

var currentTheme = DefaultTheme

// Current returns the active theme.
func Current() Theme {
	return currentTheme
}

// Init activates the theme from config. Call it after loading config and
// before printing anything styled.
func Init(cfg config.ThemeConfig) {
	theme := selectTheme(cfg, func() bool {
		return lipgloss.HasDarkBackground(os.Stdin, os.Stderr)
	})

	custom := []struct {
		dst   *color.Color
		value string
	}{
		{&theme.Primary, cfg.Primary},
		{&theme.Accent, cfg.Accent},
		{&theme.Success, cfg.Success},
		{&theme.Error, cfg.Error},
		{&theme.Muted, cfg.Muted},
		{&theme.Warning, cfg.Warning},
	}
	for _, o := range custom {
		if o.value != "" {
			*o.dst = lipgloss.Color(o.value)
		}
	}

	currentTheme = theme
	applyTheme(theme)
	SetNerdfont(cfg.Nerdfont)
}

// selectTheme resolves the preset and variant for cfg. isDark is only
// consulted in auto mode.
func selectTheme(cfg config.ThemeConfig, isDark func() bool) Theme {
	p, ok := presets[cfg.Name]
	if !ok {
		if cfg.Name != "" {
			fmt.Fprintf(os.Stderr, "Warning: unknown theme %q, using default (available: %s)\n",
				cfg.Name, strings.Join(config.ValidThemeNames, ", "))
		}
		p = presets["default"]
	}

	dark := cfg.Mode == "dark" || (cfg.Mode != "light" && isDark())
	if dark {
		return p.dark.theme()
	}
	return p.light.theme()
}
