package sshkey

import "errors"

var (
	// ErrExternalTool wraps every failure of key generation, the agent or
	// the connectivity probe.
	ErrExternalTool = errors.New("external tool failed")

	// ErrNoAgent indicates SSH_AUTH_SOCK is unset.
	ErrNoAgent = errors.New("ssh-agent not available")

	// ErrKeyExists indicates GenerateKey would overwrite a key.
	ErrKeyExists = errors.New("key already exists")
)
