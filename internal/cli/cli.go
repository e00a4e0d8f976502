// Package cli builds the objects lighthub commands work with from the
// loaded configuration, and holds shared output helpers.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/thoreinstein/lighthub/internal/backup"
	"github.com/thoreinstein/lighthub/internal/config"
	"github.com/thoreinstein/lighthub/internal/server"
	"github.com/thoreinstein/lighthub/internal/store"
)

// OpenStore opens the state store in the configured data directory.
func OpenStore(cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	return store.Open(cfg.DataDir,
		store.WithWriteBufferSize(cfg.Backup.WriteBuffer),
		store.WithRestoreBufferSize(cfg.Backup.RestoreBuffer),
		store.WithLogger(logger),
	)
}

// NewManager returns a snapshot manager for the configured backup directory.
func NewManager(cfg *config.Config, logger *slog.Logger) *backup.Manager {
	return backup.NewManager(
		backup.WithBackupDir(cfg.SnapshotDir()),
		backup.WithRetentionCount(cfg.Backup.Retention),
		backup.WithLogger(logger),
	)
}

// ServerConfig derives the HTTP server configuration.
func ServerConfig(cfg *config.Config) server.Config {
	sc := server.DefaultConfig()
	sc.Address = cfg.Listen
	sc.MaxUploadBytes = cfg.Backup.MaxUpload
	return sc
}

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	idColor      = color.New(color.FgCyan)
	dimColor     = color.New(color.FgHiBlack)
)

// Success prints a green check line.
func Success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

// Warn prints a yellow line.
func Warn(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, format+"\n", args...)
}

// ID formats an identifier for tables.
func ID(s string) string {
	return idColor.Sprint(s)
}

// Dim formats secondary text.
func Dim(format string, args ...any) string {
	return dimColor.Sprintf(format, args...)
}

// Bytes formats a byte count for humans.
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
