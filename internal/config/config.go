package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config holds the deploy settings. Every field can be left empty in YAML; Validate fills defaults.
type Config struct {
	// RootDir is the akvcam source tree root.
	RootDir string `yaml:"root_dir"`
	// BuildDir hosts the scratch and output directories. Defaults to RootDir.
	BuildDir string `yaml:"build_dir"`
	// ProgramName is the packaged project name.
	ProgramName string `yaml:"program_name"`
	// Jobs is the parallelism handed to make.
	Jobs int `yaml:"jobs"`
	// Backends lists the packaging backends to try, in order.
	Backends []string `yaml:"backends"`
	// ArchiveFormat is the compression used by the archive backend: "xz" or "zst".
	ArchiveFormat string `yaml:"archive_format"`
	// Tools overrides the detected executables.
	Tools Tools `yaml:"tools"`
}

// Tools holds explicit executable paths. Empty values are detected at runtime.
type Tools struct {
	// Make is the make executable.
	Make string `yaml:"make"`
	// BinaryCreator is the Qt Installer Framework compiler.
	BinaryCreator string `yaml:"binarycreator"`
}

const (
	// DefaultConfigFilename is the optional YAML settings file looked up in the working directory.
	DefaultConfigFilename = "akvcam-deploy.yaml"

	// BackendQtIFW is the Qt Installer Framework backend name.
	BackendQtIFW = "qtifw"
	// BackendArchive is the compressed tarball backend name.
	BackendArchive = "archive"

	// ArchiveXZ selects .tar.xz archives.
	ArchiveXZ = "xz"
	// ArchiveZstd selects .tar.zst archives.
	ArchiveZstd = "zst"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownBackend is returned for a backend name nobody implements.
	errUnknownBackend = errors.New("unknown packaging backend")
	// errUnknownArchiveFormat is returned for an unsupported compression.
	errUnknownArchiveFormat = errors.New("unknown archive format")
	// errNegativeJobs is returned when jobs is below zero.
	errNegativeJobs = errors.New("jobs must not be negative")
)

// Load reads configuration from path and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read parses configuration from path without filling defaults, so callers can apply
// overrides first. An empty path reads DefaultConfigFilename and tolerates its absence;
// a missing explicit file is an error.
func Read(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.RootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve root dir: %w", err)
		}

		cfg.RootDir = wd
	}

	rootDir, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return fmt.Errorf("resolve root dir: %w", err)
	}

	cfg.RootDir = rootDir

	if cfg.BuildDir == "" {
		cfg.BuildDir = cfg.RootDir
	}

	if cfg.BuildDir, err = filepath.Abs(cfg.BuildDir); err != nil {
		return fmt.Errorf("resolve build dir: %w", err)
	}

	if cfg.Jobs < 0 {
		return errNegativeJobs
	}

	if cfg.Jobs == 0 {
		cfg.Jobs = runtime.NumCPU()
	}

	if len(cfg.Backends) == 0 {
		cfg.Backends = []string{BackendQtIFW}
	}

	for _, name := range cfg.Backends {
		if !slices.Contains([]string{BackendQtIFW, BackendArchive}, name) {
			return fmt.Errorf("%q: %w", name, errUnknownBackend)
		}
	}

	if cfg.ArchiveFormat == "" {
		cfg.ArchiveFormat = ArchiveXZ
	}

	if cfg.ArchiveFormat != ArchiveXZ && cfg.ArchiveFormat != ArchiveZstd {
		return fmt.Errorf("%q: %w", cfg.ArchiveFormat, errUnknownArchiveFormat)
	}

	return nil
}
