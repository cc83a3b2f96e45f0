package shell

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Dialect is the start-up script syntax of one shell.
type Dialect string

const (
	Bash Dialect = "bash"
	Zsh  Dialect = "zsh"
	Fish Dialect = "fish"
)

// Dialects lists the supported shells.
var Dialects = []Dialect{Bash, Zsh, Fish}

// ParseDialect returns the dialect named s.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Dialects, d) {
		return d, nil
	}
	return "", fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish)", s)
}

// Detect picks the dialect from a $SHELL value, falling back to bash.
func Detect(shellPath string) Dialect {
	if d, err := ParseDialect(filepath.Base(shellPath)); err == nil {
		return d
	}
	return Bash
}

// ConfigFile returns the interactive start-up script under home.
func (d Dialect) ConfigFile(home string) string {
	switch d {
	case Zsh:
		return filepath.Join(home, ".zshrc")
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return filepath.Join(home, ".bashrc")
	}
}

// quote returns s as a single literal word.
func (d Dialect) quote(s string) string {
	if d == Fish {
		s = strings.ReplaceAll(s, `\`, `\\`)
		return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (d Dialect) export(b *strings.Builder, indent, name, value string) {
	if d == Fish {
		fmt.Fprintf(b, "%sset -gx %s %s\n", indent, name, d.quote(value))
		return
	}
	fmt.Fprintf(b, "%sexport %s=%s\n", indent, name, d.quote(value))
}

// route is a session-scoped git config entry passed through
// GIT_CONFIG_KEY_<n>/GIT_CONFIG_VALUE_<n>.
type route struct {
	key, value string
}

// writeAccount emits the helper that switches the session to an account.
func (d Dialect) writeAccount(b *strings.Builder, name string, vars [][2]string, r route, dir string) {
	const indent = "    "
	if d == Fish {
		fmt.Fprintf(b, "function %s --description %s\n", name, d.quote("Use GitHub account "+strings.TrimPrefix(name, FuncPrefix)))
	} else {
		fmt.Fprintf(b, "%s() {\n", name)
	}
	for _, kv := range vars {
		d.export(b, indent, kv[0], kv[1])
	}
	d.writeRoute(b, indent, r)
	if d == Fish {
		fmt.Fprintf(b, "%scd %s\n", indent, d.quote(dir))
		b.WriteString("end\n")
		return
	}
	fmt.Fprintf(b, "%scd %s || return\n", indent, d.quote(dir))
	b.WriteString("}\n")
}

// writeRoute stores r in the session's ghmm slot, appending a slot after
// any GIT_CONFIG_* entries already exported.
func (d Dialect) writeRoute(b *strings.Builder, indent string, r route) {
	if d == Fish {
		fmt.Fprintf(b, "%sset -l i $%s\n", indent, SlotVar)
		fmt.Fprintf(b, "%stest -n \"$i\"; or set i (math \"0$GIT_CONFIG_COUNT\")\n", indent)
		fmt.Fprintf(b, "%sset -gx %s $i\n", indent, SlotVar)
		fmt.Fprintf(b, "%sset -gx GIT_CONFIG_KEY_$i %s\n", indent, d.quote(r.key))
		fmt.Fprintf(b, "%sset -gx GIT_CONFIG_VALUE_$i %s\n", indent, d.quote(r.value))
		fmt.Fprintf(b, "%stest $i -lt (math \"0$GIT_CONFIG_COUNT\"); or set -gx GIT_CONFIG_COUNT (math $i + 1)\n", indent)
		return
	}
	fmt.Fprintf(b, "%slocal i=\"${%s:-${GIT_CONFIG_COUNT:-0}}\"\n", indent, SlotVar)
	fmt.Fprintf(b, "%sexport %s=\"$i\"\n", indent, SlotVar)
	fmt.Fprintf(b, "%sexport \"GIT_CONFIG_KEY_$i\"=%s\n", indent, d.quote(r.key))
	fmt.Fprintf(b, "%sexport \"GIT_CONFIG_VALUE_$i\"=%s\n", indent, d.quote(r.value))
	fmt.Fprintf(b, "%s[ \"$i\" -lt \"${GIT_CONFIG_COUNT:-0}\" ] || export GIT_CONFIG_COUNT=$((i + 1))\n", indent)
}

// writeClone emits ghmm-clone, which clones owner/repo through the active
// account's alias, then the default alias, then the plain host.
func (d Dialect) writeClone(b *strings.Builder, host string) {
	if d == Fish {
		b.WriteString("function ghmm-clone --description 'Clone owner/repo through the active GitHub account'\n")
		b.WriteString("    set -l alias $GHMM_HOST_ALIAS\n")
		b.WriteString("    test -n \"$alias\"; or set alias $GHMM_DEFAULT_HOST_ALIAS\n")
		fmt.Fprintf(b, "    test -n \"$alias\"; or set alias %s\n", host)
		b.WriteString("    git clone git@$alias:$argv[1].git $argv[2..-1]\n")
		b.WriteString("end\n")
		return
	}
	b.WriteString("ghmm-clone() {\n")
	fmt.Fprintf(b, "    git clone \"git@${GHMM_HOST_ALIAS:-${GHMM_DEFAULT_HOST_ALIAS:-%s}}:$1.git\" \"${@:2}\"\n", host)
	b.WriteString("}\n")
}
