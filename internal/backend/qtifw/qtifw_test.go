package qtifw

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/webcamoid/akvcam-deploy/internal/config"
	"github.com/webcamoid/akvcam-deploy/internal/domain/pkginfo"
	"github.com/webcamoid/akvcam-deploy/internal/tools"
)

// fakeBinaryCreator writes its last argument, like binarycreator writes the installer.
const fakeBinaryCreator = `#!/bin/sh
for last; do :; done
echo "installer payload" > "$last"
`

func stagedPackage(t *testing.T) *pkginfo.Metadata {
	t.Helper()

	root := t.TempDir()
	meta := pkginfo.New("akvcam", "1.2.3", root, root)

	require.NoError(t, os.MkdirAll(filepath.Join(meta.StagedSourceDir(), "module"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(meta.StagedSourceDir(), "module", "akvcam.c"), []byte("int x;\n"), 0o644))
	require.NoError(t, os.WriteFile(meta.LicenseFile, []byte("GPL\n"), 0o644))
	require.NoError(t, os.WriteFile(meta.ChangeLog, []byte("\nakvcam 1.2.3:\n\n- Fixed things.\n\nakvcam 1.2.2:\n"), 0o644))

	return meta
}

// TestReleaseNotes returns the first paragraph only.
func TestReleaseNotes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ChangeLog")
	require.NoError(t, os.WriteFile(path, []byte("\n\nVersion 1:\n - a\n - b\n\nVersion 0:\n"), 0o600))

	require.Equal(t, "Version 1:\n - a\n - b", releaseNotes(path))
	require.Empty(t, releaseNotes(filepath.Join(t.TempDir(), "missing")))
}

// TestAvailable depends on a detected and supported binarycreator.
func TestAvailable(t *testing.T) {
	t.Parallel()

	meta := pkginfo.New("akvcam", "1.0.0", "/src", "/build")
	info := config.DefaultPackageInfo("akvcam")

	require.False(t, New(meta, info, nil).Available(context.Background()))
	require.True(t, New(meta, info, &tools.QtIFW{Path: "/usr/bin/binarycreator"}).Available(context.Background()))
}

// TestBuild produces the installer at its deterministic path and lays out the metadata.
func TestBuild(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("fake binarycreator is a shell script")
	}

	meta := stagedPackage(t)

	creator := filepath.Join(t.TempDir(), "binarycreator")
	require.NoError(t, os.WriteFile(creator, []byte(fakeBinaryCreator), 0o755)) //nolint:gosec // Test script.

	info := config.DefaultPackageInfo("akvcam")
	backend := New(meta, info, &tools.QtIFW{Path: creator})
	backend.now = func() time.Time {
		return time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC)
	}

	path, err := backend.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, meta.InstallerPath(), path)
	require.FileExists(t, path)

	configXML, err := os.ReadFile(filepath.Join(meta.InstallerConfig, "config.xml"))
	require.NoError(t, err)
	require.Contains(t, string(configXML), "<Version>1.2.3</Version>")
	require.Contains(t, string(configXML), "<TargetDir>@ApplicationsDir@/akvcam</TargetDir>")

	metaDir := filepath.Join(meta.InstallerPackages, info.ID, "meta")

	packageXML, err := os.ReadFile(filepath.Join(metaDir, "package.xml"))
	require.NoError(t, err)
	require.Contains(t, string(packageXML), "<ReleaseDate>2020-05-17</ReleaseDate>")
	require.Contains(t, string(packageXML), `<License name="GNU General Public License v2.0" file="COPYING"></License>`)
	require.Contains(t, string(packageXML), "<UpdateText>akvcam 1.2.3:</UpdateText>")
	require.NotContains(t, string(packageXML), "<Script>")

	require.FileExists(t, filepath.Join(metaDir, "COPYING"))
	require.FileExists(t, filepath.Join(meta.InstallerPackages, info.ID, "data", "src", "module", "akvcam.c"))
}

// TestBuild_NoStagedTree fails before touching binarycreator.
func TestBuild_NoStagedTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	meta := pkginfo.New("akvcam", "1.2.3", root, root)

	_, err := New(meta, config.DefaultPackageInfo("akvcam"), &tools.QtIFW{Path: "/nonexistent"}).Build(context.Background())
	require.ErrorIs(t, err, errNoStagedTree)
}

// TestBuild_CreatorFails reports the error and leaves no artifact.
func TestBuild_CreatorFails(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("fake binarycreator is a shell script")
	}

	meta := stagedPackage(t)

	creator := filepath.Join(t.TempDir(), "binarycreator")
	require.NoError(t, os.WriteFile(creator, []byte("#!/bin/sh\necho boom >&2\nexit 1\n"), 0o755)) //nolint:gosec // Test script.

	_, err := New(meta, config.DefaultPackageInfo("akvcam"), &tools.QtIFW{Path: creator}).Build(context.Background())
	require.Error(t, err)
	require.NoFileExists(t, meta.InstallerPath())
}
