// Package report prints the size and checksum summary of produced packages.
package report
