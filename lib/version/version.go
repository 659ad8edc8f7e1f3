package version

import "fmt"

var (
	Version             string = "0.1.0" // follows SemVer (https://semver.org)
	GitCommit, GitState string           // set by the build system with -ldflags
	BuildDate           string           // set by the build system with -ldflags
)

func ToDetailVersion() string {
	return fmt.Sprintf("version=%s git=%s(%s) build=%s", Version, GitCommit, GitState, BuildDate)
}
