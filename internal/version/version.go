package version

import "runtime/debug"

// Version is set at build time with -ldflags, or read from the module
// build info for `go install` builds.
var Version = "unknown"

func init() {
	if Version != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	mainVersion := info.Main.Version
	if mainVersion == "" || mainVersion == "(devel)" {
		return
	}
	Version = mainVersion
}
