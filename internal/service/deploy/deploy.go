package deploy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/webcamoid/akvcam-deploy/internal/backend/archive"
	"github.com/webcamoid/akvcam-deploy/internal/backend/qtifw"
	"github.com/webcamoid/akvcam-deploy/internal/buildinfo"
	"github.com/webcamoid/akvcam-deploy/internal/config"
	"github.com/webcamoid/akvcam-deploy/internal/domain/pkginfo"
	"github.com/webcamoid/akvcam-deploy/internal/logger"
	"github.com/webcamoid/akvcam-deploy/internal/platform"
	"github.com/webcamoid/akvcam-deploy/internal/tools"
)

// Options contains inputs for the deploy entry point.
type Options struct {
	// ConfigPath is an optional YAML settings file (defaults to akvcam-deploy.yaml when present).
	ConfigPath string
	// RootDir overrides the source tree root from the settings.
	RootDir string
	// BuildDir overrides the build directory from the settings.
	BuildDir string
	// SkipBuild skips make install and the build-info record.
	SkipBuild bool
	// SkipPackage skips the packaging backends.
	SkipPackage bool
	// Out receives the human-readable report. Defaults to stdout.
	Out io.Writer
}

// Run resolves the deploy implementation for the host and executes it.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "akvcam-deploy")

	impl, err := NewRegistry(ctx, opts).Resolve(platform.Current())
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Resolved deploy implementation", "target", impl.TargetSystem())

	return impl.Run(ctx)
}

// NewRegistry returns the deploy implementations known to this build:
// Linux redirects to the generic POSIX deploy.
func NewRegistry(ctx context.Context, opts *Options) *platform.Registry {
	registry := platform.NewRegistry()

	registry.Register(platform.Linux, func() (platform.Implementation, error) {
		return platform.Redirect(platform.Posix), nil
	})
	registry.Register(platform.Posix, func() (platform.Implementation, error) {
		return NewPosix(ctx, opts)
	})

	return registry
}

// Posix deploys akvcam on Unix-like systems.
type Posix struct {
	opts     *Options
	cfg      *config.Config
	meta     *pkginfo.Metadata
	info     *config.PackageInfo
	makePath string
	ifw      *tools.QtIFW
	out      io.Writer
}

// NewPosix loads the settings and detects the version and tools, without side effects.
func NewPosix(ctx context.Context, opts *Options) (*Posix, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg, err := config.Read(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.RootDir != "" {
		cfg.RootDir = opts.RootDir
	}

	if opts.BuildDir != "" {
		cfg.BuildDir = opts.BuildDir
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	version := buildinfo.DetectVersion(filepath.Join(cfg.RootDir, "src", "dkms.conf"))
	meta := pkginfo.New(cfg.ProgramName, version, cfg.RootDir, cfg.BuildDir)

	info, err := config.LoadPackageInfo(meta.PackageConfig, meta.ProgramName)
	if err != nil {
		logger.WarnKV(ctx, "Using default package info", "path", meta.PackageConfig, "error", err)
		info = config.DefaultPackageInfo(meta.ProgramName)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	d := &Posix{
		opts:     opts,
		cfg:      cfg,
		meta:     meta,
		info:     info,
		makePath: tools.DetectMake(cfg.Tools.Make),
		ifw:      tools.DetectQtIFW(ctx, cfg.Tools.BinaryCreator),
		out:      out,
	}

	logger.InfoKV(ctx, "Deploy initialised",
		"program", meta.ProgramName,
		"version", meta.Version,
		"root_dir", meta.RootDir,
		"packages_dir", meta.PackagesDir,
		"make", d.makePath)

	return d, nil
}

// TargetSystem implements platform.Implementation.
func (d *Posix) TargetSystem() platform.Platform {
	return platform.Posix
}

// Metadata returns the package description this deploy works on.
func (d *Posix) Metadata() *pkginfo.Metadata {
	return d.meta
}

// Run stages the tree, writes the build info and packages it.
func (d *Posix) Run(ctx context.Context) error {
	if err := os.MkdirAll(d.meta.PackagesDir, 0o755); err != nil {
		return fmt.Errorf("create packages dir: %w", err)
	}

	release, err := acquireMarker(ctx, d.meta.PackagesDir)
	if err != nil {
		return err
	}

	defer release()

	if !d.opts.SkipBuild {
		if err = d.Prepare(ctx); err != nil {
			return err
		}
	}

	if d.opts.SkipPackage {
		return nil
	}

	return Package(ctx, d.Backends(), d.out)
}

// Prepare runs make install into the staged tree and writes the build-info record.
// A build-info failure is logged and does not stop the deploy.
func (d *Posix) Prepare(ctx context.Context) error {
	_, _ = fmt.Fprintln(d.out, "Executing make install")

	params := map[string]string{
		"INSTALLDIR": d.meta.StagedSourceDir(),
	}

	if err := tools.MakeInstall(ctx, d.makePath, d.meta.SourceDir(), d.cfg.Jobs, params, d.out); err != nil {
		return fmt.Errorf("make install: %w", err)
	}

	_, _ = fmt.Fprintln(d.out, "\nWriting build system information")
	_, _ = fmt.Fprintln(d.out)

	if _, err := buildinfo.NewWriter(d.out).Write(ctx, d.meta); err != nil {
		logger.WarnKV(ctx, "Could not write build info", "error", err)
	}

	return nil
}

// Backends returns the configured packaging backends in order.
func (d *Posix) Backends() []Backend {
	backends := make([]Backend, 0, len(d.cfg.Backends))

	for _, name := range d.cfg.Backends {
		switch name {
		case config.BackendQtIFW:
			backends = append(backends, qtifw.New(d.meta, d.info, d.ifw))
		case config.BackendArchive:
			backends = append(backends, archive.New(d.meta, d.cfg.ArchiveFormat))
		}
	}

	return backends
}
