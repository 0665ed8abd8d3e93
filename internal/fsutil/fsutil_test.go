package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCopyTree mirrors files, modes and symlinks.
func TestCopyTree(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "src", "module"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "module", "Makefile"), []byte("all:\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "install.sh"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.Symlink("module/Makefile", filepath.Join(src, "src", "Makefile")))

	dst := filepath.Join(t.TempDir(), "data")
	require.NoError(t, CopyTree(src, dst))

	contents, err := os.ReadFile(filepath.Join(dst, "src", "module", "Makefile"))
	require.NoError(t, err)
	require.Equal(t, "all:\n", string(contents))

	info, err := os.Stat(filepath.Join(dst, "src", "install.sh"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	isLink, err := IsSymbolicLink(filepath.Join(dst, "src", "Makefile"))
	require.NoError(t, err)
	require.True(t, isLink)

	link, err := os.Readlink(filepath.Join(dst, "src", "Makefile"))
	require.NoError(t, err)
	require.Equal(t, "module/Makefile", link)
}

// TestCopyFile_MissingSource reports the open error.
func TestCopyFile_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "out"), 0o644)
	require.ErrorIs(t, err, os.ErrNotExist)
}
