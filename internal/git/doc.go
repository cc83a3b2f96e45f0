// Package git provides the few git queries ghmm needs via the git CLI.
//
// Commands run through [github.com/raphi011/ghmm/internal/cmd] so they honor
// the user's own configuration (includeIf directives, url rewrites) exactly
// as an interactive git would. That matters here: ghmm asks git which
// identity applies in a directory rather than re-deriving it.
//
//   - [CheckGit], [Version]: tool availability
//   - [IsInsideRepoPath]: repository detection
//   - [ConfigValue]: effective config value as seen from a directory
//   - [RemoteURL]: origin URL, used to spot remotes that bypass a host alias
package git
