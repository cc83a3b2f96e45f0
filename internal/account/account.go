// Package account holds the ordered list of GitHub accounts ghmm manages
// and persists it at ~/.ghmm/config.yaml.
package account

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// HostBase is the real host every alias routes to.
const HostBase = "github.com"

var (
	// ErrDuplicateName indicates an account with that name already exists.
	ErrDuplicateName = errors.New("account already exists")

	// ErrNotFound indicates the named account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidAccount indicates a required field is empty.
	ErrInvalidAccount = errors.New("invalid account")
)

// Account is one GitHub identity bound to a working directory.
type Account struct {
	Name       string `yaml:"name" json:"name"`
	Username   string `yaml:"username" json:"username"`
	Email      string `yaml:"email" json:"email"`
	Directory  string `yaml:"directory" json:"directory"`       // absolute; routing key for git and shell
	SSHKeyPath string `yaml:"ssh_key_path" json:"ssh_key_path"` // private key
	HostAlias  string `yaml:"host_alias" json:"host_alias"`     // github.com-<name>
}

// HostAliasFor returns the SSH host alias for an account name.
func HostAliasFor(name string) string {
	return HostBase + "-" + name
}

// DefaultKeyPath returns the private key path used when none is given.
func DefaultKeyPath(home, name string) string {
	return filepath.Join(home, ".ssh", name+"_ssh")
}

// PublicKeyPath returns the path of the public half of the account's key.
func (a Account) PublicKeyPath() string {
	return a.SSHKeyPath + ".pub"
}

// String returns a display string for the account.
func (a Account) String() string {
	return fmt.Sprintf("%s (%s <%s>)", a.Name, a.Username, a.Email)
}

// validName is what can be spliced unquoted into a shell function name,
// an SSH Host pattern and a file name.
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// validate checks presence of the fields every reconciler relies on.
func (a Account) validate() error {
	var missing []string
	if a.Name == "" {
		missing = append(missing, "name")
	}
	if a.Username == "" {
		missing = append(missing, "username")
	}
	if a.Email == "" {
		missing = append(missing, "email")
	}
	if a.Directory == "" {
		missing = append(missing, "directory")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAccount, strings.Join(missing, ", "))
	}
	if !validName.MatchString(a.Name) {
		return fmt.Errorf("%w: name %q must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", ErrInvalidAccount, a.Name)
	}
	return nil
}

// ExpandPath expands a leading ~ and makes path absolute.
func ExpandPath(path, home string) (string, error) {
	switch {
	case path == "~":
		path = home
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
