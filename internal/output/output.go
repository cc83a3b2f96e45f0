// Package output carries the stdout printer on the context. Stdout holds
// what the user asked for (account tables, public keys, reload commands);
// diagnostics go to stderr through package log.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
)

type ctxKey struct{}

// Printer writes primary output.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer for w to ctx.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext returns the attached Printer, or one for os.Stdout.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) Print(a ...any)                 { fmt.Fprint(p.w, a...) }
func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }
func (p *Printer) Println(a ...any)               { fmt.Fprintln(p.w, a...) }

// Step writes an indented status line such as "  ✓ ssh-config  ~/.ssh/config".
func (p *Printer) Step(symbol, label, detail string) {
	if detail == "" {
		p.Printf("  %s %s\n", symbol, label)
		return
	}
	p.Printf("  %s %-14s %s\n", symbol, label, detail)
}

// Field writes a "label value" line with the label padded to width.
// style renders the padded label; nil leaves it plain.
func (p *Printer) Field(label, value string, width int, style func(...string) string) {
	l := fmt.Sprintf("%-*s", width, label)
	if style != nil {
		l = style(l)
	}
	p.Printf("%s %s\n", l, value)
}

// Hint writes a blank line followed by a follow-up instruction.
func (p *Printer) Hint(msg string) {
	p.Printf("\n%s\n", msg)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
