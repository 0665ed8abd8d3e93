// Package config loads the deploy settings from an optional YAML file and
// the INI package descriptor shipped in ports/deploy.
//
// Validate fills every default so callers never deal with empty fields.
package config
