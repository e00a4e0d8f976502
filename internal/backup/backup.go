package backup

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/inspect"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/paths"
)

// Manager handles snapshot creation, restoration, and pruning.
type Manager struct {
	rootDir        string
	retentionCount int
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = dir
		}
	}
}

// WithRetentionCount sets the number of snapshots Create keeps.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		logger:         logging.NewDiscard(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.rootDir
}

// Create writes a snapshot of src and prunes to the retention count.
func (m *Manager) Create(src Source) (*Snapshot, error) {
	if err := paths.EnsureDir(m.rootDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	base := m.now().UTC().Format(IDFormat)
	id := base
	var f *os.File
	for i := 1; ; i++ {
		var err error
		f, err = os.OpenFile(m.path(id), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, errors.Wrap(err, "creating backup file")
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}

	path := f.Name()
	if _, err := src.WriteBackup(f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, errors.Wrap(err, "writing backup")
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, errors.Wrap(err, "closing backup file")
	}
	m.logger.Info("backup created", "id", id, "source", src.Dir())

	if _, err := m.Prune(m.retentionCount); err != nil {
		m.logger.Warn("pruning backups failed", "error", err)
	}
	return m.Get(id)
}

// Open validates the snapshot with the given ID and opens it for reading.
// The open handle stays readable if the file is pruned afterwards.
func (m *Manager) Open(id string) (*os.File, *Snapshot, error) {
	snap, err := m.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if !snap.Valid {
		return nil, nil, errors.Wrapf(ErrRestoreRejected, "backup %s is not a valid container", id)
	}

	f, err := os.Open(snap.Path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening backup")
	}
	return f, snap, nil
}

// Restore restores the snapshot with the given ID into dst.
// The outcome is returned alongside any error so callers can tell a
// rejected file from a partial restore.
func (m *Manager) Restore(ctx context.Context, dst Destination, id string) (container.Outcome, error) {
	f, _, err := m.Open(id)
	if err != nil {
		return container.OutcomeInvalidFile, err
	}
	defer f.Close()

	outcome, err := dst.RestoreBackup(ctx, f)
	if err != nil {
		return outcome, errors.Wrapf(errors.Mark(err, ErrRestoreRejected), "restoring %s", id)
	}
	m.logger.Info("backup restored", "id", id, "destination", dst.Dir())
	return outcome, nil
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	snaps := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), Extension)
		if _, _, err := ParseID(id); err != nil {
			continue
		}
		snap, err := m.Get(id)
		if err != nil {
			m.logger.Debug("skipping unreadable backup", "id", id, "error", err)
			continue
		}
		snaps = append(snaps, *snap)
	}

	if len(snaps) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(snaps, func(a, b Snapshot) int {
		return compareIDs(b.ID, a.ID)
	})
	return snaps, nil
}

// Get describes the snapshot with the given ID.
func (m *Manager) Get(id string) (*Snapshot, error) {
	created, _, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	path := m.path(id)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrBackupNotFound, "backup %s", id)
		}
		return nil, errors.Wrap(err, "opening backup")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat backup")
	}

	snap := &Snapshot{
		ID:        id,
		CreatedAt: created,
		Path:      path,
		Size:      info.Size(),
	}
	rep, err := inspect.Inspect(f)
	if err != nil {
		// Truncated files are listed but cannot be restored.
		return snap, nil
	}
	snap.Aliases = len(rep.Aliases)
	snap.Valid = rep.Valid
	return snap, nil
}

// Prune removes snapshots beyond the newest keep and returns their IDs.
func (m *Manager) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	snaps, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for i := keep; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", snaps[i].ID)
		}
		removed = append(removed, snaps[i].ID)
	}
	if len(removed) > 0 {
		m.logger.Debug("pruned backups", "removed", len(removed), "kept", keep)
	}
	return removed, nil
}

// path returns the snapshot file for an ID.
func (m *Manager) path(id string) string {
	return filepath.Join(m.rootDir, id+Extension)
}

// ParseID splits a snapshot ID into its timestamp and collision suffix.
func ParseID(id string) (time.Time, int, error) {
	stamp, suffix, hasSuffix := strings.Cut(id, "-")
	created, err := time.Parse(IDFormat, stamp)
	if err != nil {
		return time.Time{}, 0, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	if !hasSuffix {
		return created, 0, nil
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return time.Time{}, 0, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return created, n, nil
}

// compareIDs orders IDs by time, then suffix. Both must parse.
func compareIDs(a, b string) int {
	ta, na, _ := ParseID(a)
	tb, nb, _ := ParseID(b)
	if c := ta.Compare(tb); c != 0 {
		return c
	}
	return na - nb
}
