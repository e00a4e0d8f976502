package alias

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/pkg/fileutil"
)

// byteOrder is the device's native order; backups are only exchanged
// between devices of the same architecture family.
var byteOrder = binary.NativeEndian

// Save writes every alias as a record, in name order, followed by a
// single Separator byte.
//
// Record layout: name bytes, 0x00, then id uint32, device id uint16,
// group id uint8, device type uint8.
func (t *Table) Save(w io.Writer) error {
	// NUL terminator followed by the fixed record.
	var rec [1 + recordSize]byte
	for _, e := range t.Entries() {
		if _, err := io.WriteString(w, e.Name); err != nil {
			return errors.Wrapf(err, "writing alias %q", e.Name)
		}
		byteOrder.PutUint32(rec[1:5], e.ID)
		byteOrder.PutUint16(rec[5:7], e.DeviceID)
		rec[7] = e.GroupID
		rec[8] = uint8(e.DeviceType)
		if _, err := w.Write(rec[:]); err != nil {
			return errors.Wrapf(err, "writing alias %q", e.Name)
		}
	}
	if _, err := w.Write([]byte{Separator}); err != nil {
		return errors.Wrap(err, "writing alias separator")
	}
	return nil
}

// Load reads alias records into t until it sees the Separator byte where a
// name would begin. The separator is left unread for the caller.
// Entries already in t with the same name are replaced.
func (t *Table) Load(r *bufio.Reader) error {
	var rec [recordSize]byte
	for {
		next, err := r.Peek(1)
		if err != nil {
			if err == io.EOF {
				return errors.Wrap(ErrMalformed, "missing separator")
			}
			return errors.Wrap(err, "reading alias section")
		}
		if next[0] == Separator {
			return nil
		}

		name, err := readName(r)
		if err != nil {
			return err
		}
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrapf(ErrMalformed, "truncated record for %q", name)
			}
			return errors.Wrap(err, "reading alias record")
		}

		e := Entry{
			ID:   byteOrder.Uint32(rec[0:4]),
			Name: name,
			Identity: Identity{
				DeviceID:   byteOrder.Uint16(rec[4:6]),
				GroupID:    rec[6],
				DeviceType: DeviceType(rec[7]),
			},
		}
		if !e.DeviceType.Valid() {
			return errors.Wrapf(ErrMalformed, "alias %q has device type tag %d", name, rec[7])
		}
		t.put(e)
	}
}

// readName reads a NUL-terminated name of at most MaxNameLen bytes.
func readName(r *bufio.Reader) (string, error) {
	buf := make([]byte, 0, 16)
	for {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", errors.Wrap(ErrMalformed, "truncated alias name")
			}
			return "", errors.Wrap(err, "reading alias name")
		}
		if c == 0 {
			return string(buf), nil
		}
		if len(buf) == MaxNameLen {
			return "", errors.Wrapf(ErrMalformed, "alias name exceeds %d bytes", MaxNameLen)
		}
		buf = append(buf, c)
	}
}

// ReadFile loads a table persisted with WriteFile. A missing file yields
// an empty table.
func ReadFile(path string) (*Table, error) {
	t := New()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, errors.Wrap(err, "opening alias file")
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if err := t.Load(r); err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return t, nil
}

// WriteFile persists t atomically in the same framing used inside backups.
func (t *Table) WriteFile(path string) error {
	f, err := fileutil.CreateAtomic(path, 0o600)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := t.Save(bw); err != nil {
		f.Abort()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Abort()
		return errors.Wrap(err, "flushing alias file")
	}
	return f.Close()
}
