// Package prompt asks the user for missing input on stderr, keeping stdout
// for command output. Callers check that stdin is a terminal first.
//
//   - [Confirm], [ConfirmDefault]: yes/no questions
//   - [TextInput]: one line with a default
//   - [Select]: pick one option, e.g. an account
package prompt
