package account

import (
	"errors"
	"path/filepath"
	"testing"
)

// memStore is an in-memory Store that records saves.
type memStore struct {
	state   State
	saves   int
	saveErr error
}

func (m *memStore) Load() (State, error) { return m.state.clone(), nil }

func (m *memStore) Save(st State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = st.clone()
	return nil
}

func openTest(t *testing.T, accounts ...Account) (*Registry, *memStore) {
	t.Helper()
	store := &memStore{}
	reg, err := Open(store, "/home/u")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, a := range accounts {
		if err := reg.Add(a); err != nil {
			t.Fatalf("Add(%s) error = %v", a.Name, err)
		}
	}
	return reg, store
}

func acct(name string) Account {
	return Account{
		Name:      name,
		Username:  name + "-user",
		Email:     name + "@example.com",
		Directory: "/home/u/" + name,
	}
}

func TestAdd_DerivesAliasAndKeyPath(t *testing.T) {
	t.Parallel()

	reg, store := openTest(t, acct("work"))

	got, ok := reg.Get("work")
	if !ok {
		t.Fatal("Get(work) not found")
	}
	if got.HostAlias != "github.com-work" {
		t.Errorf("HostAlias = %q, want %q", got.HostAlias, "github.com-work")
	}
	if got.SSHKeyPath != "/home/u/.ssh/work_ssh" {
		t.Errorf("SSHKeyPath = %q, want %q", got.SSHKeyPath, "/home/u/.ssh/work_ssh")
	}
	if def, _ := reg.Default(); def != "work" {
		t.Errorf("Default() = %q, want first account", def)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestAdd_IgnoresForeignAlias(t *testing.T) {
	t.Parallel()

	a := acct("personal")
	a.HostAlias = "github.com-thedonmon"
	reg, _ := openTest(t, a)

	got, _ := reg.Get("personal")
	if got.HostAlias != "github.com-personal" {
		t.Errorf("HostAlias = %q, want github.com-personal", got.HostAlias)
	}
}

func TestAdd_KeepsExplicitKeyPath(t *testing.T) {
	t.Parallel()

	a := acct("oss")
	a.SSHKeyPath = "~/.ssh/id_oss"
	reg, _ := openTest(t, a)

	got, _ := reg.Get("oss")
	if got.SSHKeyPath != "/home/u/.ssh/id_oss" {
		t.Errorf("SSHKeyPath = %q, want expanded override", got.SSHKeyPath)
	}
}

func TestAdd_ExpandsDirectory(t *testing.T) {
	t.Parallel()

	a := acct("work")
	a.Directory = "~/code/work"
	reg, _ := openTest(t, a)

	got, _ := reg.Get("work")
	if want := filepath.Join("/home/u", "code", "work"); got.Directory != want {
		t.Errorf("Directory = %q, want %q", got.Directory, want)
	}
}

func TestAdd_Duplicate(t *testing.T) {
	t.Parallel()

	reg, store := openTest(t, acct("work"), acct("personal"))
	before := reg.List()

	dup := acct("work")
	dup.Email = "other@example.com"
	err := reg.Add(dup)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("Add(duplicate) error = %v, want ErrDuplicateName", err)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2 (duplicate must not persist)", store.saves)
	}
	after := reg.List()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("registry changed after duplicate add: %+v", after)
	}
}

func TestAdd_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mod  func(*Account)
	}{
		{"empty name", func(a *Account) { a.Name = "" }},
		{"empty email", func(a *Account) { a.Email = "" }},
		{"empty username", func(a *Account) { a.Username = "" }},
		{"empty directory", func(a *Account) { a.Directory = "" }},
		{"name with space", func(a *Account) { a.Name = "my work" }},
		{"name with semicolon", func(a *Account) { a.Name = "a;b" }},
		{"name with parens", func(a *Account) { a.Name = "w(k)" }},
		{"name with command substitution", func(a *Account) { a.Name = "x$(id)" }},
		{"name with ssh wildcard", func(a *Account) { a.Name = "s*" }},
		{"name with comment char", func(a *Account) { a.Name = "h#c" }},
		{"name with leading dash", func(a *Account) { a.Name = "-work" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg, _ := openTest(t)
			a := acct("x")
			tt.mod(&a)
			if err := reg.Add(a); !errors.Is(err, ErrInvalidAccount) {
				t.Errorf("Add() error = %v, want ErrInvalidAccount", err)
			}
			if reg.Len() != 0 {
				t.Error("invalid account was added")
			}
		})
	}
}

func TestRemove_DefaultReassignment(t *testing.T) {
	t.Parallel()

	reg, _ := openTest(t, acct("work"), acct("personal"), acct("oss"))
	if err := reg.SetDefault("personal"); err != nil {
		t.Fatal(err)
	}

	// Removing a non-default account keeps the default.
	if err := reg.Remove("oss"); err != nil {
		t.Fatal(err)
	}
	if def, _ := reg.Default(); def != "personal" {
		t.Errorf("Default() = %q, want personal", def)
	}

	// Removing the default promotes the first remaining account.
	if err := reg.Remove("personal"); err != nil {
		t.Fatal(err)
	}
	if def, _ := reg.Default(); def != "work" {
		t.Errorf("Default() = %q, want work", def)
	}

	// Removing the last account clears the default.
	if err := reg.Remove("work"); err != nil {
		t.Fatal(err)
	}
	if def, ok := reg.Default(); ok || def != "" {
		t.Errorf("Default() = %q, %v, want empty", def, ok)
	}
}

func TestRemove_NotFound(t *testing.T) {
	t.Parallel()

	reg, store := openTest(t, acct("work"))
	if err := reg.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove() error = %v, want ErrNotFound", err)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestSetDefault(t *testing.T) {
	t.Parallel()

	reg, _ := openTest(t, acct("work"), acct("personal"))
	if err := reg.SetDefault("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDefault(missing) error = %v, want ErrNotFound", err)
	}
	if err := reg.SetDefault("personal"); err != nil {
		t.Fatal(err)
	}
	if def, _ := reg.Default(); def != "personal" {
		t.Errorf("Default() = %q, want personal", def)
	}
}

func TestList_InsertionOrder(t *testing.T) {
	t.Parallel()

	reg, _ := openTest(t, acct("zeta"), acct("alpha"), acct("mid"))
	names := reg.Names()
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}

	// List returns a copy.
	list := reg.List()
	list[0].Name = "mutated"
	if got, _ := reg.Get("zeta"); got.Name != "zeta" {
		t.Error("List() exposed internal state")
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	t.Parallel()

	reg, store := openTest(t, acct("work"))
	store.saveErr = errors.New("disk full")

	if err := reg.Add(acct("personal")); err == nil {
		t.Fatal("Add() error = nil, want save failure")
	}
	if _, ok := reg.Get("personal"); ok {
		t.Error("failed Add() left account in memory")
	}
	if err := reg.Remove("work"); err == nil {
		t.Fatal("Remove() error = nil, want save failure")
	}
	if _, ok := reg.Get("work"); !ok {
		t.Error("failed Remove() dropped account from memory")
	}
}

func TestOpen_Normalizes(t *testing.T) {
	t.Parallel()

	store := &memStore{state: State{
		Accounts: []Account{
			{Name: "work", Username: "w", Email: "w@x", Directory: "/w"},
		},
		DefaultAccount: "gone",
	}}
	reg, err := Open(store, "/home/u")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := reg.Get("work")
	if got.HostAlias != "github.com-work" || got.SSHKeyPath != "/home/u/.ssh/work_ssh" {
		t.Errorf("derived fields not filled: %+v", got)
	}
	if def, _ := reg.Default(); def != "work" {
		t.Errorf("Default() = %q, want work", def)
	}
}

func TestImport(t *testing.T) {
	t.Parallel()

	reg, store := openTest(t, acct("work"))
	n, err := reg.Import([]Account{acct("work"), acct("personal"), {Name: "broken"}, acct("s*")})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Import() = %d, want 1", n)
	}
	if store.saves != 2 {
		t.Errorf("saves = %d, want 2", store.saves)
	}
	if _, ok := reg.Get("personal"); !ok {
		t.Error("personal not imported")
	}
	if _, ok := reg.Get("s*"); ok {
		t.Error("account with wildcard name imported")
	}
}
