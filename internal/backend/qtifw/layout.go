package qtifw

import (
	"bufio"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type installerConfig struct {
	XMLName    xml.Name `xml:"Installer"`
	Name       string   `xml:"Name"`
	Version    string   `xml:"Version"`
	Title      string   `xml:"Title"`
	Publisher  string   `xml:"Publisher"`
	ProductURL string   `xml:"ProductUrl"`
	TargetDir  string   `xml:"TargetDir"`
	RunProgram string   `xml:"RunProgram"`
}

type license struct {
	Name string `xml:"name,attr"`
	File string `xml:"file,attr"`
}

type packageConfig struct {
	XMLName             xml.Name  `xml:"Package"`
	DisplayName         string    `xml:"DisplayName"`
	Description         string    `xml:"Description"`
	Version             string    `xml:"Version"`
	ReleaseDate         string    `xml:"ReleaseDate"`
	Name                string    `xml:"Name"`
	Licenses            []license `xml:"Licenses>License,omitempty"`
	Script              string    `xml:"Script,omitempty"`
	UpdateText          string    `xml:"UpdateText,omitempty"`
	Default             bool      `xml:"Default"`
	ForcedInstallation  bool      `xml:"ForcedInstallation"`
	RequiresAdminRights bool      `xml:"RequiresAdminRights"`
}

const (
	releaseDateLayout = "2006-01-02"
	licenseName       = "GNU General Public License v2.0"
	licenseFile       = "COPYING"
	scriptFile        = "installscript.qs"
)

// writeXML marshals v with an XML header into path.
func writeXML(path string, v any) error {
	data, err := xml.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	return os.WriteFile(path, data, 0o644) //nolint:gosec // Installer metadata is world readable.
}

// releaseNotes returns the first paragraph of the changelog, or "" when it cannot be read.
func releaseNotes(path string) string {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return ""
	}

	defer func() {
		_ = file.Close()
	}()

	var lines []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			if len(lines) > 0 {
				break
			}

			continue
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func releaseDate(now time.Time) string {
	return now.Format(releaseDateLayout)
}
