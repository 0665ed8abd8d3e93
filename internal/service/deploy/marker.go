package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/webcamoid/akvcam-deploy/internal/logger"
)

// MarkerFilename marks a packages directory as being written by a running deploy.
const MarkerFilename = ".akvcam-deploy.marker"

var errDeployRunning = errors.New("another deploy is writing to this packages directory")

// findProcess is swapped by tests.
//
//nolint:gochecknoglobals // Test seam over go-ps.
var findProcess = ps.FindProcess

// acquireMarker creates the run marker in dir and returns a function removing it.
// A marker left by a process that is no longer running is treated as stale and replaced.
func acquireMarker(ctx context.Context, dir string) (func(), error) {
	path := filepath.Join(dir, MarkerFilename)

	logger.Debug(ctx, "Checking for the presence of a deploy marker")

	if running, pid := markerOwnerRunning(path); running {
		return nil, fmt.Errorf("%w: pid %d", errDeployRunning, pid)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale marker: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, errDeployRunning
		}

		return nil, fmt.Errorf("create marker: %w", err)
	}

	_, err = file.WriteString(strconv.Itoa(os.Getpid()))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return nil, fmt.Errorf("write marker: %w", err)
	}

	return func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Could not remove deploy marker", "path", path, "error", err)
		}
	}, nil
}

// markerOwnerRunning reports whether the process recorded in the marker still runs
// the same executable as this process.
func markerOwnerRunning(path string) (bool, int) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil || pid == os.Getpid() {
		return false, pid
	}

	owner, err := findProcess(pid)
	if err != nil || owner == nil {
		return false, pid
	}

	self, err := findProcess(os.Getpid())
	if err != nil || self == nil {
		// Cannot compare names; trust the live pid.
		return true, pid
	}

	return owner.Executable() == self.Executable(), pid
}
