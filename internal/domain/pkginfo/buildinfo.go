package pkginfo

import "strings"

// UnknownCommit replaces an empty commit hash in the record.
const UnknownCommit = "Unknown"

// BuildInfo is the provenance record written once per build.
type BuildInfo struct {
	// CommitHash is the HEAD commit of the source tree, or UnknownCommit.
	CommitHash string
	// BuildLogURL links to the CI job, when one is known.
	BuildLogURL string
	// HostInfo is the raw host description (os-release contents or uname tuple).
	HostInfo string
}

// NewBuildInfo normalises an empty commit hash to UnknownCommit.
func NewBuildInfo(commitHash, buildLogURL, hostInfo string) *BuildInfo {
	commitHash = strings.TrimSpace(commitHash)
	if commitHash == "" {
		commitHash = UnknownCommit
	}

	return &BuildInfo{
		CommitHash:  commitHash,
		BuildLogURL: buildLogURL,
		HostInfo:    hostInfo,
	}
}

// Lines renders the record line by line. Empty strings are the blank separator lines.
func (b *BuildInfo) Lines() []string {
	lines := []string{"Commit hash: " + b.CommitHash}

	if b.BuildLogURL != "" {
		lines = append(lines, "Build log URL: "+b.BuildLogURL)
	}

	lines = append(lines, "")

	for _, line := range strings.Split(b.HostInfo, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}

	return append(lines, "")
}

// String renders the record in its file layout.
func (b *BuildInfo) String() string {
	return strings.Join(b.Lines(), "\n") + "\n"
}
