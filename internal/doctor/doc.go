// Package doctor diagnoses the state ghmm manages and optionally repairs it.
//
// Checks run in five groups:
//
//   - [CategoryTools]: git and ssh-agent availability.
//   - [CategoryAccounts]: the account store loads, names are unique and
//     exactly one account is default when any exist.
//   - [CategoryKeys]: each account's key pair exists and is loaded in the agent.
//   - [CategoryRegions]: each target file holds one intact managed block whose
//     content matches what 'ghmm apply' would write, and the SSH aliases in it
//     match the registry.
//   - [CategoryRouting]: each account directory resolves to its own account,
//     both under the emitted includeIf directives and, for directories that
//     are repositories, in git itself.
//
// Issues flagged [Issue.Fixable] are drift that [Run] can repair by
// reapplying every target through the [Applier].
package doctor
