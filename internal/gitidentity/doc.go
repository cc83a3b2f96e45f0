// Package gitidentity routes git identities by directory.
//
// The managed block of the global git config holds one conditional include
// per account:
//
//	[includeIf "gitdir:/home/u/work/"]
//		path = /home/u/.gitconfig-work
//
// The included identity file carries only the account's user.name and
// user.email. Git evaluates every matching include in file order and later
// values override earlier ones, so directives are ordered shallow to deep:
// an account whose directory is nested inside another's wins inside it.
package gitidentity
