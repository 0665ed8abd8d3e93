package buildinfo

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultVersion is used when dkms.conf has no PACKAGE_VERSION line or cannot be read.
	DefaultVersion = "0.0.0"
	// DailyVersion replaces the version when DailyBuildEnv is set.
	DailyVersion = "daily"
	// DailyBuildEnv marks a daily build when present in the environment, whatever its value.
	DailyBuildEnv = "DAILY_BUILD"

	versionKey = "PACKAGE_VERSION"
)

// DetectVersion returns the package version declared in the dkms.conf at path.
func DetectVersion(path string) string {
	return detectVersion(path, os.LookupEnv)
}

func detectVersion(path string, lookupEnv func(string) (string, bool)) string {
	if _, ok := lookupEnv(DailyBuildEnv); ok {
		return DailyVersion
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return DefaultVersion
	}

	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, versionKey) || !strings.Contains(line, "=") {
			continue
		}

		// Only the text between the first and a possible second '=' counts.
		value := strings.SplitN(line, "=", 3)[1]

		return strings.TrimSpace(strings.ReplaceAll(value, `"`, ""))
	}

	return DefaultVersion
}
