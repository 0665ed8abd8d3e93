package deploy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/webcamoid/akvcam-deploy/internal/logger"
	"github.com/webcamoid/akvcam-deploy/internal/report"
)

// Backend builds one kind of distributable package.
type Backend interface {
	// Name is shown in the detected tools line.
	Name() string
	// Path is the deterministic artifact location.
	Path() string
	// Available reports whether the backend's tools are present.
	Available(ctx context.Context) bool
	// Build produces the artifact and returns its path.
	Build(ctx context.Context) (string, error)
}

const createdBanner = "Created installable package:\n"

// Package runs every available backend in its own goroutine and prints one summary block
// per backend. Blocks are written by a single printer goroutine so they never interleave,
// while the builds themselves run in parallel. Backend failures are logged and shown as a
// FAILED line; they are never returned. With no available backend nothing is printed.
func Package(ctx context.Context, backends []Backend, w io.Writer) error {
	available := make([]Backend, 0, len(backends))
	names := make([]string, 0, len(backends))

	for _, backend := range backends {
		if backend.Available(ctx) {
			available = append(available, backend)
			names = append(names, backend.Name())
		}
	}

	if len(available) == 0 {
		logger.Info(ctx, "No packaging tools detected")
		return nil
	}

	_, _ = fmt.Fprintf(w, "Detected packaging tools: %s\n\n", strings.Join(names, ", "))

	summaries := make(chan string)
	printed := make(chan struct{})

	go func() {
		defer close(printed)

		for summary := range summaries {
			_, _ = io.WriteString(w, summary)
		}
	}()

	var group errgroup.Group

	for _, backend := range available {
		backend := backend
		group.Go(func() error {
			summaries <- buildOne(logger.WithKV(ctx, "backend", backend.Name()), backend)
			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // Workers never return errors.

	close(summaries)
	<-printed

	return ctx.Err()
}

// buildOne runs a backend and renders its summary block.
func buildOne(ctx context.Context, backend Backend) string {
	var summary bytes.Buffer

	path, err := backend.Build(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Packaging failed", "error", err)

		path = backend.Path()
	} else {
		logger.InfoKV(ctx, "Package created", "path", path)
		summary.WriteString(createdBanner)
	}

	if err = report.PrintPackageInfo(&summary, path); err != nil {
		logger.WarnKV(ctx, "Could not report package", "path", path, "error", err)
	}

	return summary.String()
}
