// Package inspect describes a backup container without restoring it.
package inspect

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/settings"
)

// Report summarizes a container. Problem is set when Valid is false.
type Report struct {
	Magic   string `json:"magic" yaml:"magic" toml:"magic"`
	Version uint8  `json:"version" yaml:"version" toml:"version"`
	Valid   bool   `json:"valid" yaml:"valid" toml:"valid"`
	Problem string `json:"problem,omitempty" yaml:"problem,omitempty" toml:"problem,omitempty"`

	Aliases []alias.Entry `json:"aliases" yaml:"aliases" toml:"aliases"`

	SettingsBytes int64 `json:"settings_bytes" yaml:"settings_bytes" toml:"settings_bytes"`
	SettingsValid bool  `json:"settings_valid" yaml:"settings_valid" toml:"settings_valid"`
}

// State is the decoded content of a valid container.
type State struct {
	Aliases  *alias.Table
	Settings *settings.Settings
}

// Inspect reads a container from r to the end and reports what it holds.
// Format problems are described in the report; only read failures and
// truncated headers are returned as errors.
func Inspect(r io.Reader) (*Report, error) {
	rep, _, err := decode(r)
	return rep, err
}

// ReadState decodes a container without restoring it. Containers that
// Inspect would report as invalid are errors marked ErrInvalidBackup.
func ReadState(r io.Reader) (*State, error) {
	rep, st, err := decode(r)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidBackup)
	}
	if !rep.Valid {
		return nil, errors.Mark(errors.New(rep.Problem), errors.ErrInvalidBackup)
	}
	return st, nil
}

func decode(r io.Reader) (*Report, *State, error) {
	h, err := container.ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}
	rep := &Report{
		Magic:   fmt.Sprintf("%08X", uint32(h)),
		Version: h.Version(),
		Aliases: []alias.Entry{},
	}
	if err := container.ValidateHeader(h); err != nil {
		rep.Problem = err.Error()
		return rep, nil, nil
	}

	br := bufio.NewReader(r)
	table := alias.New()
	if err := table.Load(br); err != nil {
		if !errors.Is(err, alias.ErrMalformed) {
			return nil, nil, err
		}
		rep.Problem = err.Error()
		return rep, nil, nil
	}
	if _, err := br.ReadByte(); err != nil {
		return nil, nil, errors.Wrap(err, "reading alias separator")
	}
	rep.Aliases = table.Entries()

	// Only the first MaxFileSize bytes are kept for the validity check;
	// the rest is counted.
	var head bytes.Buffer
	n, err := io.Copy(&head, io.LimitReader(br, settings.MaxFileSize+1))
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading settings blob")
	}
	rest, err := io.Copy(io.Discard, br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading settings blob")
	}
	rep.SettingsBytes = n + rest
	if rep.SettingsBytes > settings.MaxFileSize {
		rep.Problem = fmt.Sprintf("settings blob exceeds %d bytes", settings.MaxFileSize)
		return rep, nil, nil
	}
	parsed, err := settings.Parse(head.Bytes())
	if err != nil {
		rep.Problem = err.Error()
		return rep, nil, nil
	}
	rep.SettingsValid = true

	rep.Valid = true
	return rep, &State{Aliases: table, Settings: parsed}, nil
}
