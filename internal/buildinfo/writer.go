package buildinfo

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/webcamoid/akvcam-deploy/internal/domain/pkginfo"
	"github.com/webcamoid/akvcam-deploy/internal/logger"
)

const (
	travisURLEnv      = "TRAVIS_BUILD_WEB_URL"
	appveyorAccount   = "APPVEYOR_ACCOUNT_NAME"
	appveyorSlug      = "APPVEYOR_PROJECT_SLUG"
	appveyorJob       = "APPVEYOR_JOB_ID"
	appveyorURLFormat = "https://ci.appveyor.com/project/%s/%s/build/job/%s"

	dirPermissions  = 0o755
	filePermissions = 0o644
)

// BuildLogURL returns the CI build-log URL advertised by the environment, or "".
// Travis provides the URL directly and wins over AppVeyor, whose URL is built
// from account, project slug and job id when all three are set.
func BuildLogURL(lookupEnv func(string) (string, bool)) string {
	if url, ok := lookupEnv(travisURLEnv); ok && url != "" {
		return url
	}

	account, okAccount := lookupEnv(appveyorAccount)
	slug, okSlug := lookupEnv(appveyorSlug)
	job, okJob := lookupEnv(appveyorJob)

	if okAccount && okSlug && okJob {
		return fmt.Sprintf(appveyorURLFormat, account, slug, job)
	}

	return ""
}

// Writer collects and persists the build-info record.
type Writer struct {
	// Out receives the human-readable echo of the record.
	Out io.Writer
	// LookupEnv reads CI variables.
	LookupEnv func(string) (string, bool)
	// CommitHash resolves the source commit.
	CommitHash func(ctx context.Context, rootDir string) string
	// SysInfo describes the host.
	SysInfo func() string
}

// NewWriter returns a Writer backed by the real environment, git and /etc.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		Out:        out,
		LookupEnv:  os.LookupEnv,
		CommitHash: CommitHash,
		SysInfo: func() string {
			return SysInfo(ReleaseDir)
		},
	}
}

// Collect gathers the record without touching the filesystem.
func (w *Writer) Collect(ctx context.Context, meta *pkginfo.Metadata) *pkginfo.BuildInfo {
	return pkginfo.NewBuildInfo(
		w.CommitHash(ctx, meta.RootDir),
		BuildLogURL(w.LookupEnv),
		w.SysInfo(),
	)
}

// Write ensures the packages and share directories exist, writes build-info.txt and echoes it.
func (w *Writer) Write(ctx context.Context, meta *pkginfo.Metadata) (*pkginfo.BuildInfo, error) {
	for _, dir := range []string{meta.PackagesDir, meta.ShareDir()} {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	info := w.Collect(ctx, meta)

	for _, line := range info.Lines() {
		if line == "" {
			_, _ = fmt.Fprintln(w.Out)
		} else {
			_, _ = fmt.Fprintln(w.Out, "    "+line)
		}
	}

	path := meta.BuildInfoPath()
	if err := os.WriteFile(path, []byte(info.String()), filePermissions); err != nil {
		return info, fmt.Errorf("write %s: %w", path, err)
	}

	logger.DebugKV(ctx, "Build info written", "path", path, "commit", info.CommitHash)

	return info, nil
}
