package qtifw

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/webcamoid/akvcam-deploy/internal/config"
	"github.com/webcamoid/akvcam-deploy/internal/domain/pkginfo"
	"github.com/webcamoid/akvcam-deploy/internal/fsutil"
	"github.com/webcamoid/akvcam-deploy/internal/logger"
	"github.com/webcamoid/akvcam-deploy/internal/tools"
)

// Name is the human readable backend name.
const Name = "Qt Installer Framework"

var errNoStagedTree = errors.New("staged install tree not found")

// Backend produces <pkgsDir>/<name>-installer-<version>.run.
type Backend struct {
	meta *pkginfo.Metadata
	info *config.PackageInfo
	ifw  *tools.QtIFW
	now  func() time.Time
}

// New returns a backend for the given package; ifw may be nil when the tool was not found.
func New(meta *pkginfo.Metadata, info *config.PackageInfo, ifw *tools.QtIFW) *Backend {
	return &Backend{
		meta: meta,
		info: info,
		ifw:  ifw,
		now:  time.Now,
	}
}

// Name implements the packaging backend interface.
func (b *Backend) Name() string {
	return Name
}

// Path is the deterministic installer location.
func (b *Backend) Path() string {
	return b.meta.InstallerPath()
}

// Available reports whether a supported binarycreator was located.
func (b *Backend) Available(ctx context.Context) bool {
	if b.ifw == nil {
		return false
	}

	if !b.ifw.Supported() {
		logger.WarnKV(ctx, "Qt Installer Framework is too old, skipping",
			"version", b.ifw.VersionString(), "minimum", tools.MinQtIFWVersion)

		return false
	}

	return true
}

// Build lays out the installer directories and runs binarycreator. It returns the artifact path.
func (b *Backend) Build(ctx context.Context) (string, error) {
	if _, err := os.Stat(b.meta.RootInstallDir); err != nil {
		return "", fmt.Errorf("%s: %w", b.meta.RootInstallDir, errNoStagedTree)
	}

	configXML, err := b.prepareLayout()
	if err != nil {
		return "", fmt.Errorf("prepare installer layout: %w", err)
	}

	outPackage := b.Path()
	if err = os.MkdirAll(filepath.Dir(outPackage), 0o755); err != nil {
		return "", err
	}

	// A leftover from a previous run must not pass for this run's installer.
	if err = os.Remove(outPackage); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	args := []string{
		"--offline-only",
		"-c", configXML,
		"-p", b.meta.InstallerPackages,
		outPackage,
	}

	logger.DebugKV(ctx, "Running binarycreator", "path", b.ifw.Path, "args", args)

	cmd := exec.CommandContext(ctx, b.ifw.Path, args...)
	cmd.Dir = b.meta.InstallDir

	if out, err := cmd.CombinedOutput(); err != nil {
		logger.ErrorKV(ctx, "binarycreator failed", "output", string(out))
		return "", fmt.Errorf("run %s: %w", b.ifw.Path, err)
	}

	return outPackage, nil
}

// prepareLayout recreates installer/config and installer/packages and returns the config.xml path.
func (b *Backend) prepareLayout() (string, error) {
	for _, dir := range []string{b.meta.InstallerConfig, b.meta.InstallerPackages} {
		if err := os.RemoveAll(dir); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(b.meta.InstallerConfig, 0o755); err != nil {
		return "", err
	}

	configXML := filepath.Join(b.meta.InstallerConfig, "config.xml")

	err := writeXML(configXML, installerConfig{
		Name:       b.meta.ProgramName,
		Version:    b.meta.Version,
		Title:      b.info.Title,
		Publisher:  b.info.Publisher,
		ProductURL: b.info.URL,
		TargetDir:  b.meta.InstallerTargetDir,
	})
	if err != nil {
		return "", err
	}

	componentDir := filepath.Join(b.meta.InstallerPackages, b.info.ID)
	metaDir := filepath.Join(componentDir, "meta")

	if err = os.MkdirAll(metaDir, 0o755); err != nil {
		return "", err
	}

	pkg := packageConfig{
		DisplayName:         b.meta.ProgramName,
		Description:         b.info.Description,
		Version:             b.meta.Version,
		ReleaseDate:         releaseDate(b.now()),
		Name:                b.info.ID,
		UpdateText:          releaseNotes(b.meta.ChangeLog),
		Default:             true,
		ForcedInstallation:  true,
		RequiresAdminRights: true,
	}

	if err = fsutil.CopyFile(b.meta.LicenseFile, filepath.Join(metaDir, licenseFile), 0o644); err == nil {
		pkg.Licenses = []license{{Name: licenseName, File: licenseFile}}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err = fsutil.CopyFile(b.meta.InstallerScript, filepath.Join(metaDir, scriptFile), 0o644); err == nil {
		pkg.Script = scriptFile
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err = writeXML(filepath.Join(metaDir, "package.xml"), pkg); err != nil {
		return "", err
	}

	if err = fsutil.CopyTree(b.meta.RootInstallDir, filepath.Join(componentDir, "data")); err != nil {
		return "", fmt.Errorf("copy staged tree: %w", err)
	}

	return configXML, nil
}
