package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if err := CheckGit(); err != nil {
		t.Skip("git not available")
	}
}

// isolate points git at a private global config so the caller's own setup
// does not leak into assertions.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))
	return home
}

func initRepo(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	c := exec.Command("git", "init", "-q", dir)
	if out, err := c.CombinedOutput(); err != nil {
		t.Fatalf("git init: %v: %s", err, out)
	}
}

func TestErrGitNotFound_Sentinel(t *testing.T) {
	t.Parallel()
	if !errors.Is(ErrGitNotFound, ErrGitNotFound) {
		t.Error("ErrGitNotFound should match itself with errors.Is")
	}
}

func TestVersion(t *testing.T) {
	requireGit(t)
	t.Parallel()

	v, err := Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v == "" || strings.HasPrefix(v, "git version") {
		t.Errorf("Version() = %q, want bare version number", v)
	}
}

func TestIsInsideRepoPath(t *testing.T) {
	requireGit(t)
	home := isolate(t)

	repo := filepath.Join(home, "repo")
	initRepo(t, repo)
	plain := filepath.Join(home, "plain")
	if err := os.MkdirAll(plain, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if !IsInsideRepoPath(ctx, repo) {
		t.Errorf("IsInsideRepoPath(%q) = false, want true", repo)
	}
	if IsInsideRepoPath(ctx, plain) {
		t.Errorf("IsInsideRepoPath(%q) = true, want false", plain)
	}
}

func TestConfigValue_FollowsIncludeIf(t *testing.T) {
	requireGit(t)
	home := isolate(t)

	work := filepath.Join(home, "work")
	repo := filepath.Join(work, "api")
	initRepo(t, repo)
	other := filepath.Join(home, "other")
	initRepo(t, other)

	identity := filepath.Join(home, ".gitconfig-work")
	if err := os.WriteFile(identity, []byte("[user]\n\temail = alice@corp.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	global := "[includeIf \"gitdir:" + work + "/\"]\n\tpath = " + identity + "\n"
	if err := os.WriteFile(filepath.Join(home, ".gitconfig"), []byte(global), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	got, ok, err := ConfigValue(ctx, repo, "user.email")
	if err != nil || !ok {
		t.Fatalf("ConfigValue(work) = %q, %v, %v", got, ok, err)
	}
	if got != "alice@corp.com" {
		t.Errorf("ConfigValue(work) = %q, want alice@corp.com", got)
	}

	got, ok, err = ConfigValue(ctx, other, "user.email")
	if err != nil {
		t.Fatalf("ConfigValue(other) error = %v", err)
	}
	if ok {
		t.Errorf("ConfigValue(other) = %q, want unset", got)
	}
}

func TestRemoteURL(t *testing.T) {
	requireGit(t)
	home := isolate(t)

	repo := filepath.Join(home, "repo")
	initRepo(t, repo)
	ctx := context.Background()

	if _, err := RemoteURL(ctx, repo); err == nil {
		t.Error("RemoteURL() without origin should fail")
	}

	add := exec.Command("git", "-C", repo, "remote", "add", "origin", "git@github.com-work:acme/api.git")
	if out, err := add.CombinedOutput(); err != nil {
		t.Fatalf("git remote add: %v: %s", err, out)
	}
	got, err := RemoteURL(ctx, repo)
	if err != nil {
		t.Fatalf("RemoteURL() error = %v", err)
	}
	if got != "git@github.com-work:acme/api.git" {
		t.Errorf("RemoteURL() = %q", got)
	}
}
