package sshkey

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh/agent"
)

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".ssh", "work_ssh")
	m := New()

	line, err := m.GenerateKey(context.Background(), path, "jdoe@corp.example")
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	if !strings.HasPrefix(line, "ssh-ed25519 ") || !strings.HasSuffix(line, " jdoe@corp.example") {
		t.Errorf("GenerateKey() = %q", line)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("private key perm = %o, want 600", info.Mode().Perm())
	}
	dirInfo, _ := os.Stat(filepath.Dir(path))
	if dirInfo.Mode().Perm() != 0o700 {
		t.Errorf("key dir perm = %o, want 700", dirInfo.Mode().Perm())
	}

	text, ok := PublicKeyText(path)
	if !ok || text != line {
		t.Errorf("PublicKeyText() = %q, %v, want %q", text, ok, line)
	}

	fp, err := Fingerprint(path)
	if err != nil || !strings.HasPrefix(fp, "SHA256:") {
		t.Errorf("Fingerprint() = %q, %v", fp, err)
	}

	// Without the .pub file the fingerprint is derived from the private key.
	if err := os.Remove(path + ".pub"); err != nil {
		t.Fatal(err)
	}
	derived, err := Fingerprint(path)
	if err != nil || derived != fp {
		t.Errorf("Fingerprint() from private key = %q, %v, want %q", derived, err, fp)
	}
}

func TestGenerateKey_RefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "work_ssh")
	if err := os.WriteFile(path, []byte("existing"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := New().GenerateKey(context.Background(), path, "a@example.com")
	if !errors.Is(err, ErrExternalTool) || !errors.Is(err, ErrKeyExists) {
		t.Errorf("GenerateKey() error = %v, want ErrExternalTool and ErrKeyExists", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "existing" {
		t.Error("existing key was overwritten")
	}
}

func TestPublicKeyText_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := PublicKeyText(filepath.Join(t.TempDir(), "nope")); ok {
		t.Error("PublicKeyText() ok for missing key")
	}
}

func TestRegisterWithAgent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "work_ssh")
	keyring := agent.NewKeyring()
	m := New(WithAgent(keyring))

	if _, err := m.GenerateKey(context.Background(), path, "a@example.com"); err != nil {
		t.Fatal(err)
	}

	has, err := m.AgentHasKey(path)
	if err != nil || has {
		t.Fatalf("AgentHasKey() before register = %v, %v", has, err)
	}

	if err := m.RegisterWithAgent(context.Background(), path); err != nil {
		t.Fatalf("RegisterWithAgent() error = %v", err)
	}

	has, err = m.AgentHasKey(path)
	if err != nil || !has {
		t.Errorf("AgentHasKey() after register = %v, %v", has, err)
	}
	keys, _ := keyring.List()
	if len(keys) != 1 || keys[0].Comment != path {
		t.Errorf("agent keys = %v", keys)
	}
}

func TestRegisterWithAgent_NoAgent(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	path := filepath.Join(t.TempDir(), "work_ssh")
	m := New()
	if _, err := m.GenerateKey(context.Background(), path, "a@example.com"); err != nil {
		t.Fatal(err)
	}

	err := m.RegisterWithAgent(context.Background(), path)
	if !errors.Is(err, ErrExternalTool) || !errors.Is(err, ErrNoAgent) {
		t.Errorf("RegisterWithAgent() error = %v, want ErrNoAgent", err)
	}
}

func TestRegisterWithAgent_MissingKey(t *testing.T) {
	t.Parallel()

	err := New(WithAgent(agent.NewKeyring())).RegisterWithAgent(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrExternalTool) {
		t.Errorf("RegisterWithAgent() error = %v, want ErrExternalTool", err)
	}
}

// fakeSSH writes a script standing in for the ssh client.
func fakeSSH(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTestConnectivity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		wantErr bool
		wantMsg string
	}{
		{
			name:    "github greeting exits 1",
			script:  `echo "Hi jdoe! You've successfully authenticated, but GitHub does not provide shell access." >&2; exit 1`,
			wantMsg: "Hi jdoe!",
		},
		{
			name:    "permission denied",
			script:  `echo "git@github.com: Permission denied (publickey)." >&2; exit 255`,
			wantErr: true,
			wantMsg: "Permission denied",
		},
		{
			name:    "silent failure",
			script:  `exit 255`,
			wantErr: true,
			wantMsg: "exit status 255",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := New(WithSSHBinary(fakeSSH(t, tt.script)))
			msg, err := m.TestConnectivity(context.Background(), "github.com-work")
			if tt.wantErr {
				if !errors.Is(err, ErrExternalTool) {
					t.Fatalf("TestConnectivity() error = %v, want ErrExternalTool", err)
				}
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("error = %q, want to contain %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("TestConnectivity() error = %v", err)
			}
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("TestConnectivity() = %q, want to contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestTestConnectivity_PassesAlias(t *testing.T) {
	t.Parallel()

	m := New(WithSSHBinary(fakeSSH(t, `for a in "$@"; do last="$a"; done; echo "You've successfully authenticated as $last" >&2; exit 1`)))
	msg, err := m.TestConnectivity(context.Background(), "github.com-personal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(msg, "git@github.com-personal") {
		t.Errorf("TestConnectivity() = %q, want target git@github.com-personal", msg)
	}
}
