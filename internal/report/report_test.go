package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHumanSize checks unit selection around the 1024 boundaries.
func TestHumanSize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1024*1024 - 1, "1024.00 KiB"},
		{1024 * 1024, "1.00 MiB"},
		{5 << 30, "5.00 GiB"},
		{1 << 40, "1.00 TiB"},
		{1 << 50, "1024.00 TiB"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, HumanSize(tc.size), "size %d", tc.size)
	}

	for size := int64(1024); size < 1024*1024; size += 4099 {
		require.Regexp(t, `^\d+\.\d{2} KiB$`, HumanSize(size))
	}
}

// TestPrintPackageInfo prints size and checksum of an existing package.
func TestPrintPackageInfo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "akvcam-installer-1.2.3.run")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	var out bytes.Buffer
	require.NoError(t, PrintPackageInfo(&out, path))
	require.Equal(t,
		"    akvcam-installer-1.2.3.run 5 B\n"+
			"    sha256sum: 2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824\n",
		out.String())
}

// TestPrintPackageInfo_Missing prints the FAILED marker.
func TestPrintPackageInfo_Missing(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, PrintPackageInfo(&out, filepath.Join(t.TempDir(), "akvcam-installer-0.0.0.run")))
	require.Equal(t, "    akvcam-installer-0.0.0.run FAILED\n", out.String())
	require.NotContains(t, out.String(), "sha256sum")
}

// TestChecksum_Missing reports the open error.
func TestChecksum_Missing(t *testing.T) {
	t.Parallel()

	_, err := Checksum(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
