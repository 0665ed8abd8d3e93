package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webcamoid/akvcam-deploy/internal/config"
	"github.com/webcamoid/akvcam-deploy/internal/logger"
	"github.com/webcamoid/akvcam-deploy/internal/platform"
	"github.com/webcamoid/akvcam-deploy/internal/service/deploy"
	"github.com/webcamoid/akvcam-deploy/internal/version"
)

var (
	// options collects the flag values handed to the deploy service.
	options deploy.Options
	// logLevel is the minimum level of log entries written to stderr.
	logLevel string

	errInvalidLogLevel = errors.New("invalid log level")

	// rootCmd stages, records and packages akvcam for the host platform.
	rootCmd = &cobra.Command{
		Use:   "akvcam-deploy",
		Short: "Build and package the akvcam virtual camera driver.",
		Long: `Runs make install into a staging directory, writes build-info.txt with the
commit hash, CI build log and host description, and produces distributable
packages with every available backend (Qt Installer Framework, tarball).

Settings are read from ` + config.DefaultConfigFilename + ` when present; flags override them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %q", errInvalidLogLevel, logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options.Out = cmd.OutOrStdout()

			return deploy.Run(ctx, &options)
		},
	}
)

// Execute runs the akvcam-deploy CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, platform.ErrNoImplementation) {
			_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), "No valid deploy script found.")
		}

		logger.ErrorKV(context.Background(), "Deploy failed", "error", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&options.ConfigPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	flags.StringVar(&options.RootDir, "root-dir", "", "akvcam source tree root (default current directory)")
	flags.StringVar(&options.BuildDir, "build-dir", "", "directory for staging and packages (default root dir)")
	flags.BoolVar(&options.SkipBuild, "skip-build", false, "skip make install and the build info record")
	flags.BoolVar(&options.SkipPackage, "skip-package", false, "stage only, do not produce packages")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.MarkFlagsMutuallyExclusive("skip-build", "skip-package")

	err := rootCmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(err)
	}
}
