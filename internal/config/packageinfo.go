package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/drone/envsubst"
	"gopkg.in/ini.v1"
)

// PackageInfo is the [Package] section of ports/deploy/package_info.conf.
type PackageInfo struct {
	// ID is the Qt IFW component identifier.
	ID string `ini:"id"`
	// Title is shown in the installer window.
	Title string `ini:"title"`
	// Description is the component description.
	Description string `ini:"description"`
	// Publisher is the installer publisher.
	Publisher string `ini:"publisher"`
	// URL is the product web site.
	URL string `ini:"url"`
}

const packageSection = "Package"

// DefaultPackageInfo returns the descriptor used when package_info.conf is absent.
func DefaultPackageInfo(programName string) *PackageInfo {
	return &PackageInfo{
		ID:          "com.webcamoidprj." + programName,
		Title:       programName + " installer",
		Description: "Virtual camera driver for Linux",
		Publisher:   "Webcamoid project",
		URL:         "https://github.com/webcamoid/" + programName,
	}
}

// LoadPackageInfo reads the package descriptor at path, expanding ${VAR} references from the
// environment. A missing file yields the defaults; fields absent from the file keep their defaults.
func LoadPackageInfo(path, programName string) (*PackageInfo, error) {
	info := DefaultPackageInfo(programName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return info, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read package info: %w", err)
	}

	if err = file.Section(packageSection).MapTo(info); err != nil {
		return nil, fmt.Errorf("map package info: %w", err)
	}

	for _, field := range []*string{&info.ID, &info.Title, &info.Description, &info.Publisher, &info.URL} {
		expanded, err := envsubst.EvalEnv(*field)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", *field, err)
		}

		*field = expanded
	}

	return info, nil
}
