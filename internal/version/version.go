package version

// Build metadata injected via -ldflags. Empty for plain `go build`.
var (
	// Version is a SemVer tag like v1.2.3 for releases.
	Version = ""
	// Commit is the short git SHA for the build.
	Commit = ""
	// Date is the UTC build timestamp in RFC3339 format.
	Date = ""
)

// String returns a compact version for display: the release tag when set,
// "dev-<sha>" for builds from a checkout, and "dev" otherwise.
func String() string {
	if Version != "" {
		return Version
	}
	if Commit != "" {
		return "dev-" + Commit
	}
	return "dev"
}
