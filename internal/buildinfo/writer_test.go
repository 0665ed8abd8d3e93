package buildinfo

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webcamoid/akvcam-deploy/internal/domain/pkginfo"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// TestBuildLogURL checks vendor precedence and the incomplete AppVeyor triple.
func TestBuildLogURL(t *testing.T) {
	t.Parallel()

	require.Empty(t, BuildLogURL(noEnv))

	appveyor := map[string]string{
		appveyorAccount: "hipersayanX",
		appveyorSlug:    "akvcam",
		appveyorJob:     "42",
	}
	require.Equal(t, "https://ci.appveyor.com/project/hipersayanX/akvcam/build/job/42", BuildLogURL(envMap(appveyor)))

	appveyor[travisURLEnv] = "https://travis-ci.org/webcamoid/akvcam/builds/1"
	require.Equal(t, "https://travis-ci.org/webcamoid/akvcam/builds/1", BuildLogURL(envMap(appveyor)))

	require.Empty(t, BuildLogURL(envMap(map[string]string{appveyorAccount: "a", appveyorJob: "1"})))
}

// TestWriterWrite writes the record and echoes it indented.
func TestWriterWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	meta := pkginfo.New("akvcam", "1.2.3", root, root)

	var out bytes.Buffer

	w := &Writer{
		Out:       &out,
		LookupEnv: envMap(map[string]string{travisURLEnv: "https://ci/1"}),
		CommitHash: func(context.Context, string) string {
			return ""
		},
		SysInfo: func() string {
			return "NAME=Debian\n\nVERSION_ID=12\n"
		},
	}

	info, err := w.Write(context.Background(), meta)
	require.NoError(t, err)
	require.Equal(t, pkginfo.UnknownCommit, info.CommitHash)

	contents, err := os.ReadFile(meta.BuildInfoPath())
	require.NoError(t, err)
	require.Equal(t, "Commit hash: Unknown\nBuild log URL: https://ci/1\n\nNAME=Debian\nVERSION_ID=12\n\n", string(contents))

	require.Equal(t, "    Commit hash: Unknown\n    Build log URL: https://ci/1\n\n    NAME=Debian\n    VERSION_ID=12\n\n", out.String())

	_, err = os.Stat(meta.PackagesDir)
	require.NoError(t, err)

	// Directories already exist on a second run.
	_, err = w.Write(context.Background(), meta)
	require.NoError(t, err)
}
