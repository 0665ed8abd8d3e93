package pkginfo

import (
	"fmt"
	"path/filepath"
	"runtime"
)

const (
	// DefaultProgramName is the name of the packaged project.
	DefaultProgramName = "akvcam"

	// BuildInfoFilename is written inside <RootInstallDir>/share.
	BuildInfoFilename = "build-info.txt"
)

// Metadata describes the package being deployed. Build it with New; it is not mutated afterwards.
type Metadata struct {
	// ProgramName is the name of the packaged project.
	ProgramName string
	// Version is read from dkms.conf, or "daily" for daily builds.
	Version string
	// RootDir is the source tree root.
	RootDir string
	// BuildDir is where the deploy scratch directories live.
	BuildDir string
	// InstallDir is the scratch directory for staged files and installer layouts.
	InstallDir string
	// RootInstallDir is the staged install tree consumed by the packaging backends.
	RootInstallDir string
	// PackagesDir receives the produced artifacts.
	PackagesDir string
	// LicenseFile is copied into installers.
	LicenseFile string
	// ChangeLog provides the installer release notes.
	ChangeLog string
	// PackageConfig is the INI package descriptor.
	PackageConfig string
	// InstallerScript is the Qt IFW component script.
	InstallerScript string
	// InstallerConfig is the Qt IFW config directory.
	InstallerConfig string
	// InstallerPackages is the Qt IFW packages directory.
	InstallerPackages string
	// InstallerTargetDir is the default install location offered by the installer.
	InstallerTargetDir string
}

// New derives every path from the root and build directories.
func New(programName, version, rootDir, buildDir string) *Metadata {
	if programName == "" {
		programName = DefaultProgramName
	}

	installDir := filepath.Join(buildDir, "ports", "deploy", "temp_priv")

	return &Metadata{
		ProgramName:        programName,
		Version:            version,
		RootDir:            rootDir,
		BuildDir:           buildDir,
		InstallDir:         installDir,
		RootInstallDir:     filepath.Join(installDir, programName+"_package"),
		PackagesDir:        filepath.Join(buildDir, "ports", "deploy", "packages_auto", runtime.GOOS),
		LicenseFile:        filepath.Join(rootDir, "COPYING"),
		ChangeLog:          filepath.Join(rootDir, "ChangeLog"),
		PackageConfig:      filepath.Join(rootDir, "ports", "deploy", "package_info.conf"),
		InstallerScript:    filepath.Join(rootDir, "ports", "deploy", "installscript.posix.qs"),
		InstallerConfig:    filepath.Join(installDir, "installer", "config"),
		InstallerPackages:  filepath.Join(installDir, "installer", "packages"),
		InstallerTargetDir: "@ApplicationsDir@/" + programName,
	}
}

// SourceDir is the directory `make install` runs in.
func (m *Metadata) SourceDir() string {
	return filepath.Join(m.RootDir, "src")
}

// StagedSourceDir is the INSTALLDIR handed to make.
func (m *Metadata) StagedSourceDir() string {
	return filepath.Join(m.RootInstallDir, "src")
}

// ShareDir holds the build-info record inside the staged tree.
func (m *Metadata) ShareDir() string {
	return filepath.Join(m.RootInstallDir, "share")
}

// BuildInfoPath is the location of the build-info record.
func (m *Metadata) BuildInfoPath() string {
	return filepath.Join(m.ShareDir(), BuildInfoFilename)
}

// InstallerPath is the deterministic output of the Qt Installer Framework backend.
func (m *Metadata) InstallerPath() string {
	return filepath.Join(m.PackagesDir, fmt.Sprintf("%s-installer-%s.run", m.ProgramName, m.Version))
}

// ArchivePath is the output of the archive backend for the given extension (e.g. "tar.xz").
func (m *Metadata) ArchivePath(ext string) string {
	return filepath.Join(m.PackagesDir, fmt.Sprintf("%s-%s.%s", m.ProgramName, m.Version, ext))
}
