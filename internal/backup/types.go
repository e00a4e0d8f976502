package backup

import (
	"context"
	"io"
	"time"

	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
)

// Default configuration values.
const (
	// DefaultRetentionCount is the default number of snapshots to retain.
	DefaultRetentionCount = 5

	// Extension is the file extension of snapshot files.
	Extension = ".lhb"

	// IDFormat is the time layout of snapshot IDs. A second snapshot in the
	// same second gets a "-N" suffix.
	IDFormat = "20060102T150405"
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates the backup directory holds no snapshots.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupNotFound indicates no snapshot has the requested ID.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrInvalidID indicates a string that is not a snapshot ID.
	ErrInvalidID = errors.New("invalid backup ID")

	// ErrRestoreRejected indicates the snapshot could not be restored.
	ErrRestoreRejected = errors.New("restore rejected")
)

// Snapshot describes one snapshot file.
type Snapshot struct {
	// ID is the snapshot identifier (e.g. 20260123T100712 or 20260123T100712-1).
	ID string `json:"id" yaml:"id"`

	// CreatedAt is parsed from the ID.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Path is the snapshot file.
	Path string `json:"path" yaml:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Aliases is the number of aliases in the snapshot.
	Aliases int `json:"aliases" yaml:"aliases"`

	// Valid is false when the file is not a restorable container.
	Valid bool `json:"valid" yaml:"valid"`
}

// Source produces backups. *store.Store implements it.
type Source interface {
	Dir() string
	WriteBackup(w io.Writer) (int64, error)
}

// Destination restores backups. *store.Store implements it.
type Destination interface {
	Source
	RestoreBackup(ctx context.Context, r io.Reader) (container.Outcome, error)
}
