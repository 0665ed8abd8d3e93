package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strconv"
)

// MakeEnv overrides the make executable.
const MakeEnv = "MAKE"

// DetectMake returns the make executable to use, or "" when none is installed.
// An explicit override wins, then $MAKE, then make and gmake from PATH.
func DetectMake(override string) string {
	if override != "" {
		return override
	}

	if env := os.Getenv(MakeEnv); env != "" {
		return env
	}

	for _, name := range []string{"make", "gmake"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// MakeInstall runs `make -j<jobs> install KEY=VALUE...` in dir, streaming the output to out.
func MakeInstall(ctx context.Context, makePath, dir string, jobs int, params map[string]string, out io.Writer) error {
	if makePath == "" {
		return ErrMakeNotFound
	}

	args := []string{"install"}
	if jobs > 0 {
		args = append([]string{"-j" + strconv.Itoa(jobs)}, args...)
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		args = append(args, key+"="+params[key])
	}

	cmd := exec.CommandContext(ctx, makePath, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", makePath, args, err)
	}

	return nil
}
