package buildinfo

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ReleaseDir holds the OS release descriptors.
	ReleaseDir = "/etc"

	releaseSuffix = "-release"
)

// SysInfo concatenates every *-release file in dir. When none can be read it
// returns the space-joined uname tuple of the host.
func SysInfo(dir string) string {
	var info strings.Builder

	// ReadDir returns whatever it listed even when it fails part way.
	entries, _ := os.ReadDir(dir) //nolint:errcheck // Unreadable directories fall back to uname.

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), releaseSuffix) {
			continue
		}

		contents, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		info.Write(contents)
	}

	if info.Len() < 1 {
		return strings.Join(uname(), " ")
	}

	return info.String()
}
