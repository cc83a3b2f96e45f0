// Command ghmm manages several GitHub accounts on one machine.
package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set through -ldflags by the release build.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	Execute()
}

// buildVersion falls back to the module version and VCS revision that
// `go install` embeds when the release ldflags are absent.
func buildVersion() (ver, rev, built string) {
	ver, rev, built = version, commit, date
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ver, rev, built
	}
	if ver == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		ver = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && rev == "":
			rev = s.Value
		case s.Key == "vcs.time" && built == "":
			built = s.Value
		}
	}
	return ver, rev, built
}

func versionString() string {
	ver, rev, built := buildVersion()
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev == "" {
		rev = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("ghmm %s (%s, %s, %s)", ver, rev, built, runtime.Version())
}
