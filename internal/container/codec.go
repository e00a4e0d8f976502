// Package container encodes and decodes lighthub backup containers.
//
// A container is a 4-byte header (format tag and version, native byte
// order), the alias section, then the settings blob up to end of stream:
//
//	offset 0  header         (0x92A7C3 << 8) | version
//	offset 4  alias section  records + one 0x00 separator
//	   ...    settings blob  opaque, no length prefix
//
// Restores run in two phases. Phase 1 commits the alias table, phase 2
// copies the settings blob into the settings file and reloads it. A phase 2
// failure leaves the phase 1 aliases in place.
package container

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/settings"
	"github.com/thoreinstein/lighthub/internal/streamcopy"
)

// Codec writes and restores containers.
type Codec struct {
	bufferSize int
	logger     *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithBufferSize sets the buffer used when copying the settings blob on restore.
func WithBufferSize(n int) Option {
	return func(c *Codec) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Codec with the given options.
func New(opts ...Option) *Codec {
	c := &Codec{
		bufferSize: streamcopy.DefaultRestoreBufferSize,
		logger:     logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode writes the header, the alias section and the settings blob to w.
// Output depends only on its inputs.
func (c *Codec) Encode(w io.Writer, aliases AliasSaver, s SettingsSerializer) error {
	if err := WriteHeader(w); err != nil {
		return err
	}
	if err := aliases.Save(w); err != nil {
		return errors.Wrap(err, "writing alias section")
	}
	if err := s.Serialize(w); err != nil {
		return errors.Wrap(err, "writing settings blob")
	}
	return nil
}

// Decode restores a container read from r into target.
//
// Header problems are reported before anything is written. Once the alias
// section has been read it is committed (phase 1) before the settings file
// is opened (phase 2); a phase 2 failure returns OutcomeInvalidFile along
// with a Restored holding only the committed aliases.
func (c *Codec) Decode(ctx context.Context, r io.Reader, target Target) (Outcome, *Restored, error) {
	log := c.logger

	h, err := ReadHeader(r)
	if err != nil {
		log.Error("reading backup header failed", "error", err)
		return OutcomeInvalidFile, nil, err
	}
	if err := ValidateHeader(h); err != nil {
		log.Error("rejecting backup",
			"expected_family", fmt.Sprintf("%08X", Magic&familyMask),
			"got_family", fmt.Sprintf("%08X", h.Family()),
			"expected_version", Version,
			"got_version", h.Version())
		return OutcomeInvalidFile, nil, err
	}
	log.Log(ctx, logging.LevelTrace, "backup header validated", "magic", fmt.Sprintf("%08X", uint32(h)))

	// Fresh state; the live settings and aliases are never touched here.
	restored := &Restored{Settings: settings.Default()}
	aliases := alias.New()

	br := bufio.NewReaderSize(r, c.bufferSize)
	if err := aliases.Load(br); err != nil {
		if errors.Is(err, alias.ErrMalformed) {
			err = errors.Mark(err, ErrMalformedAliases)
		}
		return OutcomeInvalidFile, nil, errors.Wrap(err, "reading alias section")
	}
	sep, err := br.ReadByte()
	if err != nil || sep != alias.Separator {
		return OutcomeInvalidFile, nil, errors.Wrap(ErrMalformedAliases, "missing separator")
	}
	log.Info("restoring backup", "aliases", aliases.Len())

	if err := ctx.Err(); err != nil {
		return OutcomeInvalidFile, nil, errors.Wrap(err, "restore cancelled")
	}
	if err := target.CommitAliases(aliases); err != nil {
		return OutcomeInvalidFile, nil, errors.Wrap(err, "committing aliases")
	}
	restored.Aliases = aliases

	if err := ctx.Err(); err != nil {
		return OutcomeInvalidFile, restored.phaseOne(), errors.Wrap(err, "restore cancelled")
	}
	f, err := target.OpenSettings()
	if err != nil {
		log.Error("opening settings file failed", "error", err)
		return OutcomeInvalidFile, restored.phaseOne(), errors.Mark(errors.Wrap(err, "opening settings file"), ErrSettingsOpen)
	}

	n, err := streamcopy.CopyAll(f, br, c.bufferSize)
	if err != nil {
		abort(f)
		return OutcomeInvalidFile, restored.phaseOne(), errors.Wrap(err, "copying settings blob")
	}
	if err := f.Close(); err != nil {
		return OutcomeInvalidFile, restored.phaseOne(), errors.Wrap(err, "closing settings file")
	}
	restored.SettingsBytes = n
	log.Debug("settings blob written", "bytes", n)

	s, err := target.ReloadSettings()
	if err != nil {
		return OutcomeInvalidFile, restored.phaseOne(), errors.Wrap(err, "reloading settings")
	}
	restored.Settings = s

	log.Info("backup restored", "aliases", aliases.Len(), "settings_bytes", n)
	return OutcomeOK, restored, nil
}

func abort(f io.WriteCloser) {
	if a, ok := f.(aborter); ok {
		a.Abort()
		return
	}
	f.Close()
}
