package account

import (
	"fmt"
	"slices"
)

// State is the persisted form of the registry.
type State struct {
	Accounts       []Account `yaml:"accounts"`
	DefaultAccount string    `yaml:"default_account,omitempty"`
}

func (s State) clone() State {
	return State{
		Accounts:       slices.Clone(s.Accounts),
		DefaultAccount: s.DefaultAccount,
	}
}

// Store loads and saves registry state.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// Registry is the ordered name -> account mapping. Insertion order is the
// iteration order for every reconciler.
type Registry struct {
	store Store
	home  string
	state State
}

// Open loads the registry from store. home is used to derive default key paths.
func Open(store Store, home string) (*Registry, error) {
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	r := &Registry{store: store, home: home, state: st.clone()}
	r.normalize()
	return r, nil
}

// normalize repairs hand-edited state: derived fields that were left out
// and a default that does not point at an account.
func (r *Registry) normalize() {
	for i := range r.state.Accounts {
		a := &r.state.Accounts[i]
		if a.HostAlias == "" {
			a.HostAlias = HostAliasFor(a.Name)
		}
		if a.SSHKeyPath == "" {
			a.SSHKeyPath = DefaultKeyPath(r.home, a.Name)
		}
	}
	if r.index(r.state.DefaultAccount) < 0 {
		r.state.DefaultAccount = r.firstName()
	}
}

func (r *Registry) index(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(r.state.Accounts, func(a Account) bool { return a.Name == name })
}

func (r *Registry) firstName() string {
	if len(r.state.Accounts) == 0 {
		return ""
	}
	return r.state.Accounts[0].Name
}

// commit persists the current state, restoring prev if the save fails.
func (r *Registry) commit(prev State) error {
	if err := r.store.Save(r.state.clone()); err != nil {
		r.state = prev
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// prepare validates a and fills the derived fields. The host alias is
// always github.com-<name>.
func (r *Registry) prepare(a Account) (Account, error) {
	if err := a.validate(); err != nil {
		return a, err
	}
	dir, err := ExpandPath(a.Directory, r.home)
	if err != nil {
		return a, err
	}
	a.Directory = dir

	if a.SSHKeyPath == "" {
		a.SSHKeyPath = DefaultKeyPath(r.home, a.Name)
	} else if a.SSHKeyPath, err = ExpandPath(a.SSHKeyPath, r.home); err != nil {
		return a, err
	}
	// an alias found elsewhere (import) never overrides the derived one
	a.HostAlias = HostAliasFor(a.Name)
	return a, nil
}

// Add appends an account. The first account becomes the default.
// Returns ErrDuplicateName, leaving the registry untouched, if the name exists.
func (r *Registry) Add(a Account) error {
	if r.index(a.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, a.Name)
	}
	a, err := r.prepare(a)
	if err != nil {
		return err
	}

	prev := r.state.clone()
	r.state.Accounts = append(r.state.Accounts, a)
	if len(r.state.Accounts) == 1 {
		r.state.DefaultAccount = a.Name
	}
	return r.commit(prev)
}

// Remove deletes an account. Removing the default makes the first
// remaining account the default, or clears it when none remain.
func (r *Registry) Remove(name string) error {
	i := r.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	prev := r.state.clone()
	r.state.Accounts = slices.Delete(r.state.Accounts, i, i+1)
	if r.state.DefaultAccount == name {
		r.state.DefaultAccount = r.firstName()
	}
	return r.commit(prev)
}

// Get looks up an account by name.
func (r *Registry) Get(name string) (Account, bool) {
	i := r.index(name)
	if i < 0 {
		return Account{}, false
	}
	return r.state.Accounts[i], true
}

// List returns all accounts in insertion order.
func (r *Registry) List() []Account {
	return slices.Clone(r.state.Accounts)
}

// Names returns all account names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.state.Accounts))
	for i, a := range r.state.Accounts {
		names[i] = a.Name
	}
	return names
}

// Len returns the number of accounts.
func (r *Registry) Len() int {
	return len(r.state.Accounts)
}

// SetDefault marks name as the default account.
func (r *Registry) SetDefault(name string) error {
	if r.index(name) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if r.state.DefaultAccount == name {
		return nil
	}
	prev := r.state.clone()
	r.state.DefaultAccount = name
	return r.commit(prev)
}

// Default returns the default account name. ok is false only when the registry is empty.
func (r *Registry) Default() (name string, ok bool) {
	return r.state.DefaultAccount, r.state.DefaultAccount != ""
}

// Import adds every account whose name is not registered yet and returns
// how many were added. Accounts failing validation are skipped.
func (r *Registry) Import(accounts []Account) (int, error) {
	prev := r.state.clone()
	imported := 0
	for _, a := range accounts {
		if r.index(a.Name) >= 0 {
			continue
		}
		prepared, err := r.prepare(a)
		if err != nil {
			continue
		}
		r.state.Accounts = append(r.state.Accounts, prepared)
		imported++
	}
	if imported == 0 {
		return 0, nil
	}
	if r.state.DefaultAccount == "" {
		r.state.DefaultAccount = r.firstName()
	}
	if err := r.commit(prev); err != nil {
		return 0, err
	}
	return imported, nil
}
