// Package version holds the pgsysgen release version. It imports no other pgsysgen package
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

var generatorVersion = "0.3.0"

// prerelease is appended to generatorVersion when set, e.g. "rc1"
var prerelease = ""

// GeneratorVersion is parsed at init, so a malformed version panics at startup
var GeneratorVersion *semver.Version

func init() {
	versionString := generatorVersion
	if prerelease != "" {
		versionString = fmt.Sprintf("%s-%s", generatorVersion, prerelease)
	}
	GeneratorVersion = semver.MustParse(versionString)
}

// String returns the version with a leading "v", as stamped into generated files
func String() string {
	return "v" + GeneratorVersion.String()
}
