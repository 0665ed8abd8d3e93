package pkginfo

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewMetadataPaths verifies the derived directory layout.
func TestNewMetadataPaths(t *testing.T) {
	t.Parallel()

	m := New("", "1.2.3", "/src/akvcam", "/build")

	require.Equal(t, DefaultProgramName, m.ProgramName)
	require.Equal(t, filepath.FromSlash("/build/ports/deploy/temp_priv/akvcam_package"), m.RootInstallDir)
	require.Equal(t, filepath.Join("/build", "ports", "deploy", "packages_auto", runtime.GOOS), m.PackagesDir)
	require.Equal(t, filepath.Join(m.PackagesDir, "akvcam-installer-1.2.3.run"), m.InstallerPath())
	require.Equal(t, filepath.Join(m.PackagesDir, "akvcam-1.2.3.tar.xz"), m.ArchivePath("tar.xz"))
	require.Equal(t, filepath.Join(m.RootInstallDir, "share", "build-info.txt"), m.BuildInfoPath())
	require.Equal(t, filepath.FromSlash("/src/akvcam/src"), m.SourceDir())
	require.Equal(t, "@ApplicationsDir@/akvcam", m.InstallerTargetDir)
}

// TestBuildInfoString checks the exact file layout with and without a build log URL.
func TestBuildInfoString(t *testing.T) {
	t.Parallel()

	info := NewBuildInfo("", "", "NAME=Debian\n\nID=debian\n")
	require.Equal(t, UnknownCommit, info.CommitHash)
	require.Equal(t, "Commit hash: Unknown\n\nNAME=Debian\nID=debian\n\n", info.String())

	info = NewBuildInfo("abc123\n", "https://ci.example/job/1", "Linux box")
	require.Equal(t, "Commit hash: abc123\nBuild log URL: https://ci.example/job/1\n\nLinux box\n\n", info.String())
}
