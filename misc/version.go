// Package misc keeps build time information.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X cssw/misc.version=... -X cssw/misc.gitHash=..."
var (
	appName = "cssw"
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns linked in hash or falls back to VCS revision recorded by
// the go tool.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) > 0 {
				return s.Value
			}
		}
	}
	return "unknown"
}
