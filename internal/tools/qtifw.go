package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	goversion "github.com/hashicorp/go-version"

	"github.com/webcamoid/akvcam-deploy/internal/logger"
)

const (
	// BinaryCreatorEnv overrides the binarycreator executable.
	BinaryCreatorEnv = "BINARYCREATOR"
	// QtIFWDirEnv points at a Qt Installer Framework installation root.
	QtIFWDirEnv = "QTIFWDIR"

	// MinQtIFWVersion is the oldest installer framework whose config format we generate.
	MinQtIFWVersion = "3.0.0"

	binaryCreator = "binarycreator"
	installerBase = "installerbase"

	versionCommandTimeout = 10 * time.Second
)

//nolint:gochecknoglobals // Compiled once.
var versionPattern = regexp.MustCompile(`\d+(\.\d+)+`)

// QtIFW is a located Qt Installer Framework compiler.
type QtIFW struct {
	// Path is the binarycreator executable.
	Path string
	// Version is nil when the tool did not report one.
	Version *goversion.Version
}

// Supported reports whether the detected version can compile our installer layout.
// An unknown version is given the benefit of the doubt.
func (q *QtIFW) Supported() bool {
	if q == nil || q.Path == "" {
		return false
	}

	if q.Version == nil {
		return true
	}

	return q.Version.GreaterThanOrEqual(goversion.Must(goversion.NewVersion(MinQtIFWVersion)))
}

// VersionString returns the detected version, or "unknown".
func (q *QtIFW) VersionString() string {
	if q == nil || q.Version == nil {
		return "unknown"
	}

	return q.Version.String()
}

// DetectQtIFW locates binarycreator and its version. It returns nil when the tool is not installed.
func DetectQtIFW(ctx context.Context, override string) *QtIFW {
	path := findBinaryCreator(override)
	if path == "" {
		logger.Debug(ctx, "Qt Installer Framework not found")
		return nil
	}

	ifw := &QtIFW{Path: path}

	for _, candidate := range []string{path, filepath.Join(filepath.Dir(path), installerBase)} {
		v, err := toolVersion(ctx, candidate)
		if err == nil {
			ifw.Version = v
			break
		}

		logger.DebugKV(ctx, "Could not read tool version", "tool", candidate, "error", err)
	}

	logger.InfoKV(ctx, "Detected Qt Installer Framework", "path", ifw.Path, "version", ifw.VersionString())

	return ifw
}

func findBinaryCreator(override string) string {
	if override != "" {
		return override
	}

	if env := os.Getenv(BinaryCreatorEnv); env != "" {
		return env
	}

	if path, err := exec.LookPath(binaryCreator); err == nil {
		return path
	}

	if dir := os.Getenv(QtIFWDirEnv); dir != "" {
		if path := filepath.Join(dir, "bin", binaryCreator); isExecutable(path) {
			return path
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return newestInstalled(filepath.Join(home, "Qt", "Tools", "QtInstallerFramework"))
}

// newestInstalled picks binarycreator from the highest versioned directory under root,
// as laid out by the Qt online installer (<root>/<version>/bin).
func newestInstalled(root string) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}

	type install struct {
		version *goversion.Version
		path    string
	}

	var installs []install

	for _, entry := range entries {
		v, err := goversion.NewVersion(entry.Name())
		if err != nil {
			continue
		}

		path := filepath.Join(root, entry.Name(), "bin", binaryCreator)
		if isExecutable(path) {
			installs = append(installs, install{version: v, path: path})
		}
	}

	if len(installs) == 0 {
		return ""
	}

	newest := slices.MaxFunc(installs, func(a, b install) int {
		return a.version.Compare(b.version)
	})

	return newest.path
}

func toolVersion(ctx context.Context, path string) (*goversion.Version, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, versionCommandTimeout)
	defer cancel()

	out, err := exec.CommandContext(cmdCtx, path, "--version").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s --version: %w", path, err)
	}

	return parseVersion(string(out))
}

// parseVersion extracts the first dotted version number from tool output,
// e.g. "Qt Installer Framework 4.6.1" -> 4.6.1.
func parseVersion(output string) (*goversion.Version, error) {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil, errNoVersion
	}

	return goversion.NewVersion(match)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}
