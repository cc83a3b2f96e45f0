package static

import (
	"strings"
	"testing"

	"github.com/raphi011/ghmm/internal/account"
)

func TestAccountTableRow(t *testing.T) {
	t.Parallel()

	a := account.Account{
		Name:      "work",
		Username:  "alice-corp",
		Email:     "alice@corp.com",
		Directory: "/home/alice/code/work",
		HostAlias: "github.com-work",
	}

	row := AccountTableRow(a, true, true, "/home/alice")
	if len(row) != len(AccountHeaders) {
		t.Fatalf("row has %d columns, want %d", len(row), len(AccountHeaders))
	}
	if row[0] == "" {
		t.Error("default marker column empty for default account")
	}
	if row[1] != "work" || row[2] != "alice-corp" || row[3] != "alice@corp.com" {
		t.Errorf("identity columns = %q", row[1:4])
	}
	if row[4] != "~/code/work" {
		t.Errorf("DIRECTORY = %q, want ~/code/work", row[4])
	}
	if row[5] != "github.com-work" {
		t.Errorf("HOST = %q", row[5])
	}

	row = AccountTableRow(a, false, false, "/home/alice")
	if row[0] != "" {
		t.Errorf("marker for non-default = %q, want empty", row[0])
	}
	if !strings.Contains(row[6], "missing") {
		t.Errorf("KEY = %q, want missing", row[6])
	}
}

func TestShortenHome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, home, want string
	}{
		{"/home/alice/code", "/home/alice", "~/code"},
		{"/home/alice", "/home/alice", "~"},
		{"/home/alicex/code", "/home/alice", "/home/alicex/code"},
		{"/srv/work", "/home/alice", "/srv/work"},
		{"/srv/work", "", "/srv/work"},
	}
	for _, tt := range tests {
		if got := ShortenHome(tt.path, tt.home); got != tt.want {
			t.Errorf("ShortenHome(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
		}
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"NAME"}, nil); got != "" {
		t.Errorf("RenderTable with no rows = %q, want empty", got)
	}

	got := RenderTable([]string{"NAME", "EMAIL"}, [][]string{
		{"work", "alice@corp.com"},
		{"personal", "alice@example.com"},
	})
	for _, want := range []string{"NAME", "EMAIL", "work", "personal", "alice@example.com"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderTable() missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("RenderTable() should end with newline")
	}
}
