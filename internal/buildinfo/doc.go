// Package buildinfo gathers build provenance: the package version from
// dkms.conf, the source commit, the CI build-log URL and a description of
// the host, and writes them as build-info.txt into the staged tree.
//
// Every reader here degrades to a default value instead of failing; only
// the final file write reports an error.
package buildinfo
