package gitidentity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/ghmm/internal/account"
	"github.com/raphi011/ghmm/internal/region"
)

func acct(name, dir string) account.Account {
	return account.Account{
		Name:      name,
		Username:  name + "-user",
		Email:     name + "@example.com",
		Directory: dir,
		HostAlias: account.HostAliasFor(name),
	}
}

func TestRender_RegistryOrder(t *testing.T) {
	t.Parallel()

	r := New("/home/u/.gitconfig", "/home/u")
	got := r.Render([]account.Account{acct("work", "/home/u/work"), acct("personal", "/home/u/personal")})
	want := `[includeIf "gitdir:/home/u/work/"]
	path = /home/u/.gitconfig-work
[includeIf "gitdir:/home/u/personal/"]
	path = /home/u/.gitconfig-personal
`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestOrder_NestedDirectoriesLast(t *testing.T) {
	t.Parallel()

	accounts := []account.Account{
		acct("client", "/home/u/work/client"),
		acct("work", "/home/u/work"),
		acct("personal", "/home/u/personal"),
	}

	var names []string
	for _, a := range Order(accounts) {
		names = append(names, a.Name)
	}
	if got := strings.Join(names, ","); got != "work,personal,client" {
		t.Errorf("Order() = %s, want work,personal,client", got)
	}
	if accounts[0].Name != "client" {
		t.Error("Order() modified its input")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	accounts := []account.Account{
		acct("client", "/home/u/work/client"),
		acct("work", "/home/u/work"),
		acct("personal", "/home/u/personal"),
	}

	tests := []struct {
		dir    string
		want   string
		wantOK bool
	}{
		{"/home/u/work", "work", true},
		{"/home/u/work/repo", "work", true},
		{"/home/u/work/client/repo", "client", true},
		{"/home/u/work/clients", "work", true},
		{"/home/u/workshop/repo", "", false},
		{"/home/u/personal/dotfiles/", "personal", true},
		{"/tmp", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(accounts, tt.dir)
			if ok != tt.wantOK || got.Name != tt.want {
				t.Errorf("Resolve(%q) = %q, %v, want %q, %v", tt.dir, got.Name, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestReconcile_PreservesUserConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gitconfig")
	user := "[core]\n\teditor = vim\n[alias]\n\tst = status\n"
	if err := os.WriteFile(path, []byte(user), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New(path, dir)
	accounts := []account.Account{acct("work", "/home/u/work"), acct("personal", "/home/u/personal")}

	if _, err := r.Reconcile(context.Background(), accounts); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	first, _ := os.ReadFile(path)

	res, err := r.Reconcile(context.Background(), accounts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("second Reconcile() changed the file")
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Error("Reconcile() is not idempotent")
	}
	if !strings.HasPrefix(string(second), user) {
		t.Errorf("user config not preserved:\n%s", second)
	}

	work := strings.Index(string(second), `gitdir:/home/u/work/`)
	personal := strings.Index(string(second), `gitdir:/home/u/personal/`)
	if work < 0 || personal < 0 || work > personal {
		t.Errorf("directives missing or out of order:\n%s", second)
	}
}

func TestReconcile_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gitconfig")
	original := region.BeginMarker + "\n[includeIf \"gitdir:/old/\"]\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(path, t.TempDir()).Reconcile(context.Background(), []account.Account{acct("work", "/w")})
	if !errors.Is(err, region.ErrCorrupt) {
		t.Fatalf("Reconcile() error = %v, want ErrCorrupt", err)
	}
	if data, _ := os.ReadFile(path); string(data) != original {
		t.Error("corrupt file was modified")
	}
}

func TestMaterializeIdentity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := New(filepath.Join(dir, ".gitconfig"), dir)
	a := acct("work", "/home/u/work")

	res, err := r.MaterializeIdentity(context.Background(), a)
	if err != nil {
		t.Fatalf("MaterializeIdentity() error = %v", err)
	}
	if !res.Created || !res.Changed {
		t.Errorf("first MaterializeIdentity() = %+v, want created and changed", res)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".gitconfig-work"))
	if err != nil {
		t.Fatal(err)
	}
	want := "[user]\n\tname = work-user\n\temail = work@example.com\n"
	if string(data) != want {
		t.Errorf("identity file = %q, want %q", data, want)
	}

	res, err = r.MaterializeIdentity(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("identical identity file was rewritten")
	}

	a.Email = "new@example.com"
	if res, _ = r.MaterializeIdentity(context.Background(), a); !res.Changed {
		t.Error("changed email was not written")
	}
}

func TestRenderIdentity_QuotesSpecialValues(t *testing.T) {
	t.Parallel()

	a := acct("x", "/x")
	a.Username = "Jane # Doe"
	got := string(RenderIdentity(a))
	if !strings.Contains(got, "\tname = \"Jane # Doe\"\n") {
		t.Errorf("RenderIdentity() = %q, want quoted name", got)
	}
}

func TestPurgeIdentity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := New(filepath.Join(dir, ".gitconfig"), dir)
	if _, err := r.MaterializeIdentity(context.Background(), acct("work", "/w")); err != nil {
		t.Fatal(err)
	}

	res, err := r.PurgeIdentity(context.Background(), "work")
	if err != nil || !res.Changed {
		t.Fatalf("PurgeIdentity() = %+v, %v", res, err)
	}
	if _, err := os.Stat(r.IdentityPath("work")); !os.IsNotExist(err) {
		t.Error("identity file still exists")
	}

	res, err = r.PurgeIdentity(context.Background(), "work")
	if err != nil {
		t.Errorf("PurgeIdentity() on missing file error = %v", err)
	}
	if res.Changed {
		t.Error("PurgeIdentity() on missing file reported a change")
	}
}
