package container

import (
	"io"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/settings"
)

// Restore errors. Every one of them comes with OutcomeInvalidFile.
var (
	// ErrShortHeader indicates fewer than HeaderSize bytes were available.
	ErrShortHeader = errors.New("backup header truncated")

	// ErrFormatMismatch indicates the high 24 bits are not the lighthub format tag.
	ErrFormatMismatch = errors.New("invalid backup file header")

	// ErrVersionMismatch indicates an unsupported container version.
	ErrVersionMismatch = errors.New("unsupported backup version")

	// ErrMalformedAliases indicates the alias section could not be decoded.
	ErrMalformedAliases = errors.New("malformed alias section")

	// ErrSettingsOpen indicates the settings file could not be opened for writing.
	// Aliases have already been committed when this is returned.
	ErrSettingsOpen = errors.New("opening settings file failed")
)

// Outcome is the result of a restore.
type Outcome int

const (
	// OutcomeOK means aliases and settings were both restored.
	OutcomeOK Outcome = iota
	// OutcomeInvalidFile means the restore was rejected or could not finish.
	OutcomeInvalidFile
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "OK"
	case OutcomeInvalidFile:
		return "INVALID_FILE"
	default:
		return "UNKNOWN"
	}
}

// AliasSaver writes the alias section, including its trailing separator.
type AliasSaver interface {
	Save(w io.Writer) error
}

// SettingsSerializer writes the settings blob with no length prefix.
type SettingsSerializer interface {
	Serialize(w io.Writer) error
}

// Target is where a restore is persisted.
type Target interface {
	// CommitAliases persists the restored alias table (phase 1).
	CommitAliases(t *alias.Table) error

	// OpenSettings opens the settings file for writing (phase 2).
	// If the returned writer also has an Abort method it is called instead
	// of Close when the copy fails.
	OpenSettings() (io.WriteCloser, error)

	// ReloadSettings loads settings from the file just written and saves
	// them back in normalized form.
	ReloadSettings() (*settings.Settings, error)
}

// aborter is implemented by settings files that can discard a partial write.
type aborter interface {
	Abort()
}

// Restored carries the state decoded from a container for the caller to
// swap in. Aliases is set once phase 1 committed; Settings only on OutcomeOK.
type Restored struct {
	Aliases  *alias.Table
	Settings *settings.Settings

	// SettingsBytes is the size of the settings blob copied in phase 2.
	SettingsBytes int64
}

// phaseOne returns what a caller may swap in after a phase 2 failure.
func (r *Restored) phaseOne() *Restored {
	return &Restored{Aliases: r.Aliases, SettingsBytes: r.SettingsBytes}
}
