// Package archive packs the staged install tree into a compressed tarball,
// for distributions that prefer to run `make install` from a plain archive.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/webcamoid/akvcam-deploy/internal/config"
	"github.com/webcamoid/akvcam-deploy/internal/domain/pkginfo"
	"github.com/webcamoid/akvcam-deploy/internal/logger"
)

var errUnknownFormat = errors.New("unknown archive format")

// Backend produces <pkgsDir>/<name>-<version>.tar.<format>.
type Backend struct {
	meta   *pkginfo.Metadata
	format string
}

// New returns an archive backend using config.ArchiveXZ or config.ArchiveZstd.
func New(meta *pkginfo.Metadata, format string) *Backend {
	return &Backend{
		meta:   meta,
		format: format,
	}
}

// Name implements the packaging backend interface.
func (b *Backend) Name() string {
	return "Tarball (" + b.extension() + ")"
}

// Available reports whether there is a staged tree to pack.
func (b *Backend) Available(_ context.Context) bool {
	info, err := os.Stat(b.meta.RootInstallDir)
	return err == nil && info.IsDir()
}

// Path is where Build writes the archive.
func (b *Backend) Path() string {
	return b.meta.ArchivePath(b.extension())
}

// Build writes the archive next to a temporary name and renames it into place once complete.
func (b *Backend) Build(ctx context.Context) (string, error) {
	out := b.Path()
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}

	// A leftover from a previous run must not pass for this run's archive.
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), ".archive-*")
	if err != nil {
		return "", err
	}

	// Best-effort cleanup; a no-op after a successful rename.
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err = b.write(ctx, tmp); err != nil {
		_ = tmp.Close()
		return "", err
	}

	if err = tmp.Close(); err != nil {
		return "", err
	}

	if err = os.Rename(tmp.Name(), out); err != nil {
		return "", err
	}

	return out, nil
}

func (b *Backend) write(ctx context.Context, w io.Writer) error {
	compressor, err := b.compressor(w)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(compressor)
	prefix := fmt.Sprintf("%s-%s", b.meta.ProgramName, b.meta.Version)

	err = filepath.WalkDir(b.meta.RootInstallDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(b.meta.RootInstallDir, p)
		if err != nil {
			return err
		}

		return addEntry(tw, p, path.Join(prefix, filepath.ToSlash(rel)), d)
	})
	if err != nil {
		_ = compressor.Close()
		return fmt.Errorf("pack %s: %w", b.meta.RootInstallDir, err)
	}

	if err = tw.Close(); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Archive written", "format", b.format, "prefix", prefix)

	return compressor.Close()
}

func (b *Backend) compressor(w io.Writer) (io.WriteCloser, error) {
	switch b.format {
	case config.ArchiveXZ:
		return xz.NewWriter(w)
	case config.ArchiveZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		return nil, fmt.Errorf("%q: %w", b.format, errUnknownFormat)
	}
}

func (b *Backend) extension() string {
	return "tar." + b.format
}

func addEntry(tw *tar.Writer, src, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string

	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(src); err != nil {
			return err
		}
	} else if !info.IsDir() && !info.Mode().IsRegular() {
		return nil
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}

	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	// Reproducible ownership.
	header.Uid, header.Gid = 0, 0
	header.Uname, header.Gname = "root", "root"

	if err = tw.WriteHeader(header); err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	file, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = file.Close()
	}()

	_, err = io.Copy(tw, file)

	return err
}
