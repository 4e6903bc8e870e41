package version

import "fmt"

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

const product = "UniqueHttpd"

func GetVersion() string {
	return fmt.Sprintf("uniquehttpd %s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func GetShortVersion() string {
	return Version
}

// ServerToken is the value sent in the Server response header.
func ServerToken() string {
	return product + " (Unix)"
}
