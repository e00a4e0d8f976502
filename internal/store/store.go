package store

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/paths"
	"github.com/thoreinstein/lighthub/internal/settings"
	"github.com/thoreinstein/lighthub/internal/streamcopy"
	"github.com/thoreinstein/lighthub/pkg/fileutil"
)

// File names inside the data directory.
const (
	SettingsFile = "settings.json"
	AliasesFile  = "aliases.bin"
	BackupFile   = "backup.bin"
)

// ErrArtifact indicates the transient backup file could not be written or
// read back. It is a local storage failure, not a problem with the upload.
var ErrArtifact = errors.New("backup artifact unavailable")

// ErrInvalidSettings marks a restored settings blob that is too large or
// does not parse. The previous settings file is kept.
var ErrInvalidSettings = errors.New("invalid settings blob")

// Store holds the live settings and alias table.
type Store struct {
	dir    string
	codec  *container.Codec
	logger *slog.Logger

	writeBuffer   int
	restoreBuffer int

	mu       sync.RWMutex
	settings *settings.Settings
	aliases  *alias.Table

	// backupMu serializes use of the backup artifact.
	backupMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithWriteBufferSize sets the buffer used when writing the backup artifact.
func WithWriteBufferSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.writeBuffer = n
		}
	}
}

// WithRestoreBufferSize sets the buffer used when restoring the settings blob.
func WithRestoreBufferSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.restoreBuffer = n
		}
	}
}

// WithLogger sets the logger for the store and its codec.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the state persisted in dir, creating the directory if needed.
// Missing files yield default settings and an empty alias table.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:           dir,
		logger:        logging.NewDiscard(),
		writeBuffer:   streamcopy.DefaultWriteBufferSize,
		restoreBuffer: streamcopy.DefaultRestoreBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = container.New(
		container.WithBufferSize(s.restoreBuffer),
		container.WithLogger(s.logger),
	)

	if err := paths.EnsureDir(dir, 0); err != nil {
		return nil, errors.Wrapf(err, "creating data directory %s", dir)
	}

	st, err := settings.Load(s.path(SettingsFile))
	if err != nil {
		return nil, err
	}
	aliases, err := alias.ReadFile(s.path(AliasesFile))
	if err != nil {
		return nil, err
	}
	s.settings = st
	s.aliases = aliases

	// A crash between writing and removing the artifact leaves it behind.
	os.Remove(s.path(BackupFile))

	s.logger.Debug("store opened", "dir", dir, "aliases", aliases.Len())
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Settings returns a copy of the live settings.
func (s *Store) Settings() *settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Aliases returns a copy of the live alias table.
func (s *Store) Aliases() *alias.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aliases.Clone()
}

// UpdateSettings applies fn to a copy of the settings, saves it, then makes
// it live. If fn or the save fails nothing changes.
func (s *Store) UpdateSettings(fn func(*settings.Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Save(s.path(SettingsFile)); err != nil {
		return err
	}
	s.settings = next
	return nil
}

// PatchSettings applies a settings patch and returns the new settings.
func (s *Store) PatchSettings(kind settings.PatchKind, patch []byte) (*settings.Settings, error) {
	var out *settings.Settings
	err := s.UpdateSettings(func(cur *settings.Settings) error {
		next, err := cur.Patch(kind, patch)
		if err != nil {
			return err
		}
		*cur = *next
		out = next.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetAlias creates or updates an alias and persists the table.
func (s *Store) SetAlias(name string, id alias.Identity) (alias.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.aliases.Clone()
	e, err := next.Set(name, id)
	if err != nil {
		return alias.Entry{}, err
	}
	if err := next.WriteFile(s.path(AliasesFile)); err != nil {
		return alias.Entry{}, err
	}
	s.aliases = next
	return e, nil
}

// DeleteAlias removes an alias and persists the table.
func (s *Store) DeleteAlias(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.aliases.Clone()
	if err := next.Delete(name); err != nil {
		return err
	}
	if err := next.WriteFile(s.path(AliasesFile)); err != nil {
		return err
	}
	s.aliases = next
	return nil
}

// CommitAliases persists a restored alias table. The live table is swapped
// by RestoreBackup once the codec returns.
func (s *Store) CommitAliases(t *alias.Table) error {
	return t.WriteFile(s.path(AliasesFile))
}

// OpenSettings opens the settings file for a restore. The previous file
// stays in place until the returned writer is closed, and stays for good
// if the written blob is not a loadable settings document.
func (s *Store) OpenSettings() (io.WriteCloser, error) {
	f, err := fileutil.CreateAtomic(s.path(SettingsFile), 0o600)
	if err != nil {
		return nil, err
	}
	return &settingsWriter{file: f}, nil
}

// settingsWriter keeps a copy of the blob so Close can parse it before
// committing the file.
type settingsWriter struct {
	file *fileutil.AtomicFile
	buf  bytes.Buffer
}

func (w *settingsWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > settings.MaxFileSize {
		return 0, errors.Mark(errors.Newf("settings blob exceeds %d bytes", settings.MaxFileSize), ErrInvalidSettings)
	}
	w.buf.Write(p)
	return w.file.Write(p)
}

// Close commits the file if the blob parses; otherwise it is discarded.
func (w *settingsWriter) Close() error {
	if _, err := settings.Parse(w.buf.Bytes()); err != nil {
		w.file.Abort()
		return errors.Mark(err, ErrInvalidSettings)
	}
	return w.file.Close()
}

// Abort discards the blob.
func (w *settingsWriter) Abort() {
	w.file.Abort()
}

// ReloadSettings loads the restored settings file and saves it back in
// normalized form.
func (s *Store) ReloadSettings() (*settings.Settings, error) {
	path := s.path(SettingsFile)
	st, err := settings.Load(path)
	if err != nil {
		return nil, err
	}
	if err := st.Save(path); err != nil {
		return nil, err
	}
	return st, nil
}

// WriteBackup encodes the current state into the backup artifact, then
// streams the artifact to w. The artifact is removed on every path.
func (s *Store) WriteBackup(w io.Writer) (int64, error) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	s.mu.RLock()
	st := s.settings.Clone()
	aliases := s.aliases.Clone()
	s.mu.RUnlock()

	path := s.path(BackupFile)
	defer os.Remove(path)

	if err := s.writeArtifact(path, aliases, st); err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "reopening backup artifact"), ErrArtifact)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, errors.Wrap(err, "streaming backup")
	}
	s.logger.Info("backup written", "bytes", n, "aliases", aliases.Len())
	return n, nil
}

func (s *Store) writeArtifact(path string, aliases *alias.Table, st *settings.Settings) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "creating backup artifact"), ErrArtifact)
	}
	bw := streamcopy.NewWriter(f, s.writeBuffer)
	if err := s.codec.Encode(bw, aliases, st); err != nil {
		f.Close()
		return errors.Mark(err, ErrArtifact)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Mark(errors.Wrap(err, "flushing backup artifact"), ErrArtifact)
	}
	if err := f.Close(); err != nil {
		return errors.Mark(errors.Wrap(err, "closing backup artifact"), ErrArtifact)
	}
	return nil
}

// RestoreBackup stores the upload in the backup artifact, decodes it into
// the data directory and swaps in whatever was restored. On a phase 2
// failure the restored aliases are live and the previous settings remain.
func (s *Store) RestoreBackup(ctx context.Context, r io.Reader) (container.Outcome, error) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	path := s.path(BackupFile)
	defer os.Remove(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return container.OutcomeInvalidFile, errors.Mark(errors.Wrap(err, "creating backup artifact"), ErrArtifact)
	}
	n, err := streamcopy.CopyAll(f, r, s.restoreBuffer)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Mark(errors.Wrap(cerr, "closing backup artifact"), ErrArtifact)
	}
	if err != nil {
		if errors.Is(err, streamcopy.ErrDestination) {
			err = errors.Mark(err, ErrArtifact)
		}
		return container.OutcomeInvalidFile, errors.Wrap(err, "receiving backup")
	}
	s.logger.Debug("backup received", "bytes", n)

	rf, err := os.Open(path)
	if err != nil {
		return container.OutcomeInvalidFile, errors.Mark(errors.Wrap(err, "reopening backup artifact"), ErrArtifact)
	}
	defer rf.Close()

	outcome, restored, err := s.codec.Decode(ctx, rf, s)
	s.swap(restored)
	return outcome, err
}

func (s *Store) swap(r *container.Restored) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Aliases != nil {
		s.aliases = r.Aliases
	}
	if r.Settings != nil {
		s.settings = r.Settings
	}
}

var _ container.Target = (*Store)(nil)
