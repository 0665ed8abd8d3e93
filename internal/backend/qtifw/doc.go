// Package qtifw builds a self-extracting .run installer with the Qt
// Installer Framework.
//
// It lays out the installer/config and installer/packages directories from
// the staged install tree and hands them to binarycreator.
package qtifw
