// Package misc holds build-time program identification.
package misc

// set by linker: -X genjson/misc.version=... -X genjson/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name to be used in logs and file names.
func GetAppName() string {
	return "genjson"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
