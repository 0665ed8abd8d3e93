package report

import (
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	// Ensure SHA256 is available for checksum calculation.
	_ "crypto/sha256"
)

const (
	// DefaultChecksumFunction hashes produced packages.
	DefaultChecksumFunction crypto.Hash = crypto.SHA256

	// FailedMarker replaces size and checksum of a package that was not produced.
	FailedMarker = "FAILED"
)

var errHashUnavailable = errors.New("hash function unavailable")

//nolint:gochecknoglobals // Read-only unit table.
var binaryUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// HumanSize formats size with base-1024 units. Sizes below 1 KiB print as "<n> B".
func HumanSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	// floor(log1024(size)) without floating point rounding at exact powers.
	i := 0
	for s := size; s >= 1024 && i < len(binaryUnits); s /= 1024 {
		i++
	}

	return fmt.Sprintf("%.2f %s", float64(size)/math.Pow(1024, float64(i)), binaryUnits[i-1])
}

// Checksum returns the hex digest of the file at path using DefaultChecksumFunction.
func Checksum(path string) (string, error) {
	if !DefaultChecksumFunction.Available() {
		return "", fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := DefaultChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// PrintPackageInfo writes the size and sha256sum of the package at path, or a FAILED marker
// when it does not exist. No checksum is computed for a missing package.
func PrintPackageInfo(w io.Writer, path string) error {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_, err = fmt.Fprintln(w, "   ", name, FailedMarker)
			return err
		}

		return fmt.Errorf("stat %s: %w", path, err)
	}

	sum, err := Checksum(path)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintln(w, "   ", name, HumanSize(info.Size())); err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, "    sha256sum:", sum)

	return err
}
