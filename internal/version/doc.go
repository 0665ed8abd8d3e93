// Package version exposes build metadata of the akvcam-deploy binary.
//
// Version, Commit and BuildTime are injected through ldflags. This is not the
// version of the packaged kernel module; that one is read from dkms.conf.
package version
