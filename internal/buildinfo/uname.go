package buildinfo

import (
	"os"
	"runtime"
)

// unameFallback approximates the uname tuple from the Go runtime.
func unameFallback() []string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	return []string{runtime.GOOS, hostname, runtime.GOARCH}
}
