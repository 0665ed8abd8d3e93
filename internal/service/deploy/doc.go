// Package deploy stages akvcam with `make install`, records build
// provenance, and runs every available packaging backend concurrently.
//
// Run resolves the implementation for the host platform through the
// registry returned by NewRegistry and executes it.
package deploy
