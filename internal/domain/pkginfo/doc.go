// Package pkginfo holds the value types shared by every deploy step.
//
// Metadata describes the package being built and where its files live;
// BuildInfo is the provenance record embedded in the staged tree.
package pkginfo
