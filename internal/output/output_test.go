package output

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if got := FromContext(WithPrinter(context.Background(), &buf)).Writer(); got != &buf {
		t.Error("FromContext did not return the attached printer")
	}
	if got := FromContext(context.Background()).Writer(); got != os.Stdout {
		t.Error("printer without context should write to os.Stdout")
	}
}

func TestPrinter_Lines(t *testing.T) {
	t.Parallel()

	upper := func(s ...string) string { return strings.ToUpper(strings.Join(s, "")) }

	tests := []struct {
		name  string
		write func(p *Printer)
		want  string
	}{
		{"step with detail", func(p *Printer) { p.Step("✓", "ssh-config", "/home/u/.ssh/config") }, "  ✓ ssh-config     /home/u/.ssh/config\n"},
		{"step without detail", func(p *Printer) { p.Step("✗", "shell-config", "") }, "  ✗ shell-config\n"},
		{"field plain", func(p *Printer) { p.Field("shell", "zsh", 8, nil) }, "shell    zsh\n"},
		{"field styled after padding", func(p *Printer) { p.Field("default", "work", 9, upper) }, "DEFAULT   work\n"},
		{"hint", func(p *Printer) { p.Hint("Run 'ghmm apply'.") }, "\nRun 'ghmm apply'.\n"},
		{"printf", func(p *Printer) { p.Printf("%s -> %s", "work", "github.com-work") }, "work -> github.com-work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.write(New(&buf))
			if got := buf.String(); got != tt.want {
				t.Errorf("wrote %q, want %q", got, tt.want)
			}
		})
	}
}
