package account

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestYAMLStore_MissingFileIsCreated(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".ghmm")
	store := NewYAMLStore(dir)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(st.Accounts) != 0 || st.DefaultAccount != "" {
		t.Errorf("Load() = %+v, want empty state", st)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

func TestYAMLStore_Roundtrip(t *testing.T) {
	t.Parallel()

	store := NewYAMLStore(t.TempDir())
	reg, err := Open(store, "/home/u")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"work", "personal"} {
		if err := reg.Add(acct(name)); err != nil {
			t.Fatal(err)
		}
	}

	reopened, err := Open(NewYAMLStore(filepath.Dir(store.Path())), "/home/u")
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Names(); len(got) != 2 || got[0] != "work" || got[1] != "personal" {
		t.Errorf("Names() after reopen = %v", got)
	}
	if def, _ := reopened.Default(); def != "work" {
		t.Errorf("Default() after reopen = %q", def)
	}

	data, _ := os.ReadFile(store.Path())
	for _, key := range []string{"accounts:", "default_account: work", "host_alias: github.com-work", "ssh_key_path: /home/u/.ssh/work_ssh"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("store file missing %q:\n%s", key, data)
		}
	}
}

func TestYAMLStore_ReadsNullDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "accounts: []\ndefault_account: null\n"
	if err := os.WriteFile(filepath.Join(dir, StoreFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := NewYAMLStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.DefaultAccount != "" {
		t.Errorf("DefaultAccount = %q, want empty", st.DefaultAccount)
	}
}

func TestYAMLStore_ParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, StoreFile), []byte("accounts: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewYAMLStore(dir).Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}
