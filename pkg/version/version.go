// Package version reports the build version of usertable.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Set at build time via -ldflags "-X github.com/rshade/usertable/pkg/version.version=...".
//
//nolint:gochecknoglobals // ldflags targets
var (
	version   = "0.0.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version, normalized without a leading "v".
// A version that does not parse is returned unchanged.
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return version
	}
	return v.String()
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// IsRelease reports whether the version is a valid semantic version without
// a prerelease suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() == ""
}

// UserAgent is the User-Agent sent when fetching the user collection.
func UserAgent() string {
	return fmt.Sprintf("usertable/%s (%s/%s)", GetVersion(), runtime.GOOS, runtime.GOARCH)
}

// Info returns a one-line description of the build.
func Info() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", GetVersion(), gitCommit, buildDate, runtime.Version())
}
