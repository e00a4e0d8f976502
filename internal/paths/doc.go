// Package paths resolves the directories lighthub reads and writes.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance:
//
//	paths.ConfigDir() // ~/.config/lighthub      (config.yaml)
//	paths.DataDir()   // ~/.local/share/lighthub (settings.json, aliases.bin)
//	paths.BackupDir() // ~/.local/share/lighthub/backups
//
// LIGHTHUB_CONFIG_DIR and LIGHTHUB_DATA_DIR override the first two.
package paths
