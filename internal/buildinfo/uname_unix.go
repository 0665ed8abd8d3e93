//go:build linux || darwin || freebsd || netbsd || openbsd

package buildinfo

import (
	"golang.org/x/sys/unix"
)

// uname returns sysname, nodename, release, version and machine.
func uname() []string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return unameFallback()
	}

	return []string{
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Nodename[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Version[:]),
		unix.ByteSliceToString(u.Machine[:]),
	}
}
