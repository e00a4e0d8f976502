// Package flags provides shared flag and config accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backup, alias).
package flags

import "github.com/thoreinstein/lighthub/internal/config"

// loaded holds the configuration loaded by the root command.
var loaded *config.Config

// GetConfig returns the configuration loaded by the root command.
func GetConfig() *config.Config {
	return loaded
}

// SetConfig sets the configuration. The root command calls it after
// loading, and tests call it to point commands at temp directories.
func SetConfig(cfg *config.Config) {
	loaded = cfg
}
