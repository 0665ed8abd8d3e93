//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package buildinfo

func uname() []string {
	return unameFallback()
}
