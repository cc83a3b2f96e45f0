// Package cmd runs external tools (git, ssh, ssh-add).
//
// Every helper takes a context and logs the command line and its duration
// through the context logger when verbose. A failed command returns an
// *Error whose message is the tool's stderr, and ExitCode extracts the exit
// status out of it.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, "", "ssh-add", keyPath); err != nil {
//	    return fmt.Errorf("ssh-add: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, "", "git", "config", "--get", key)
//	if cmd.ExitCode(err) == 1 {
//	    // unset
//	}
//
// ghmm shells out only where the user's own tooling must be exercised
// as-is: ssh for connectivity checks (so ~/.ssh/config is honoured) and
// git for version and effective-config probes.
package cmd
