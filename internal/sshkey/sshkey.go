// Package sshkey generates account keys, loads them into ssh-agent and
// probes GitHub through an account's host alias.
package sshkey

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/raphi011/ghmm/internal/cmd"
	"github.com/raphi011/ghmm/internal/log"
)

// greeting is what GitHub prints on a successful `ssh -T`.
const greeting = "successfully authenticated"

// Manager performs key operations. The zero value is not usable; use New.
type Manager struct {
	sshBin string
	dial   func() (agent.Agent, io.Closer, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithSSHBinary overrides the ssh client used by TestConnectivity.
func WithSSHBinary(path string) Option {
	return func(m *Manager) { m.sshBin = path }
}

// WithAgent makes the Manager use ag instead of dialing SSH_AUTH_SOCK.
func WithAgent(ag agent.Agent) Option {
	return func(m *Manager) {
		m.dial = func() (agent.Agent, io.Closer, error) { return ag, nopCloser{}, nil }
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a Manager.
func New(opts ...Option) *Manager {
	m := &Manager{sshBin: "ssh", dial: dialAgent}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func dialAgent() (agent.Agent, io.Closer, error) {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil, nil, ErrNoAgent
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to ssh-agent: %w", err)
	}
	return agent.NewClient(conn), conn, nil
}

func toolError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalTool, op, err)
}

// GenerateKey writes a new ed25519 key pair at path and path.pub with
// email as comment, and returns the public key line.
// An existing private key is never overwritten.
func (m *Manager) GenerateKey(ctx context.Context, path, email string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", toolError("generate key", fmt.Errorf("%w: %s", ErrKeyExists, path))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", toolError("generate key", err)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", toolError("generate key", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, email)
	if err != nil {
		return "", toolError("encode private key", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", toolError("encode public key", err)
	}
	line := authorizedLine(sshPub, email)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", toolError("generate key", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", toolError("write private key", err)
	}
	if err := pem.Encode(f, block); err != nil {
		f.Close()
		os.Remove(path)
		return "", toolError("write private key", err)
	}
	if err := f.Close(); err != nil {
		return "", toolError("write private key", err)
	}
	if err := os.WriteFile(path+".pub", []byte(line+"\n"), 0o644); err != nil {
		return "", toolError("write public key", err)
	}

	log.FromContext(ctx).Debug("generated key", "path", path, "fingerprint", ssh.FingerprintSHA256(sshPub))
	return line, nil
}

func authorizedLine(pub ssh.PublicKey, comment string) string {
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub)))
	if comment != "" {
		line += " " + comment
	}
	return line
}

// PublicKeyText returns the content of path.pub without its trailing newline.
func PublicKeyText(path string) (string, bool) {
	data, err := os.ReadFile(path + ".pub")
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// publicKey reads path.pub, falling back to deriving it from an
// unencrypted private key.
func publicKey(path string) (ssh.PublicKey, error) {
	if data, err := os.ReadFile(path + ".pub"); err == nil {
		pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s.pub: %w", path, err)
		}
		return pub, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return signer.PublicKey(), nil
}

// Fingerprint returns the SHA256 fingerprint of the key at path.
func Fingerprint(path string) (string, error) {
	pub, err := publicKey(path)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(pub), nil
}

// RegisterWithAgent loads the private key at path into ssh-agent.
// Passphrase-protected keys are handed to ssh-add, which can prompt.
func (m *Manager) RegisterWithAgent(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return toolError("read key", err)
	}

	raw, err := ssh.ParseRawPrivateKey(data)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if err := cmd.RunContext(ctx, "", "ssh-add", path); err != nil {
			return toolError("ssh-add", err)
		}
		return nil
	}
	if err != nil {
		return toolError("parse key", err)
	}

	ag, closer, err := m.dial()
	if err != nil {
		return toolError("ssh-agent", err)
	}
	defer closer.Close()

	if err := ag.Add(agent.AddedKey{PrivateKey: raw, Comment: path}); err != nil {
		return toolError("ssh-agent add", err)
	}
	log.FromContext(ctx).Debug("added key to agent", "path", path)
	return nil
}

// AgentHasKey reports whether ssh-agent holds the key at path.
func (m *Manager) AgentHasKey(path string) (bool, error) {
	pub, err := publicKey(path)
	if err != nil {
		return false, toolError("read key", err)
	}
	ag, closer, err := m.dial()
	if err != nil {
		return false, toolError("ssh-agent", err)
	}
	defer closer.Close()

	keys, err := ag.List()
	if err != nil {
		return false, toolError("list agent keys", err)
	}
	want := ssh.FingerprintSHA256(pub)
	for _, k := range keys {
		if ssh.FingerprintSHA256(k) == want {
			return true, nil
		}
	}
	return false, nil
}

// TestConnectivity runs `ssh -T git@<hostAlias>` and returns GitHub's
// greeting. Any other outcome wraps ErrExternalTool with ssh's output.
func (m *Manager) TestConnectivity(ctx context.Context, hostAlias string) (string, error) {
	out, err := cmd.CombinedOutputContext(ctx, "", m.sshBin,
		"-T",
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=10",
		"git@"+hostAlias,
	)
	msg := strings.TrimSpace(string(out))
	if strings.Contains(msg, greeting) {
		return msg, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return "", toolError("ssh -T "+hostAlias, errors.New(msg))
}
