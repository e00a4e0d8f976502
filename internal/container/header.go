package container

import (
	"encoding/binary"
	"io"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// Header constants. The format tag occupies the high 24 bits of the magic
// word and the version the low 8 bits.
const (
	FormatTag  uint32 = 0x92A7C3
	Version    uint8  = 1
	Magic             = FormatTag<<8 | uint32(Version)
	HeaderSize        = 4

	familyMask  uint32 = 0xFFFFFF00
	versionMask uint32 = 0x000000FF
)

// byteOrder is the producing device's native order. Backups move between
// devices of one architecture family, so no order is negotiated.
var byteOrder = binary.NativeEndian

// Header is the 4-byte magic word at the start of every container.
type Header uint32

// Family returns the format tag bits, still in position (mask 0xFFFFFF00).
func (h Header) Family() uint32 {
	return uint32(h) & familyMask
}

// Version returns the low byte.
func (h Header) Version() uint8 {
	return uint8(uint32(h) & versionMask)
}

// WriteHeader writes the current magic word.
func WriteHeader(w io.Writer) error {
	var b [HeaderSize]byte
	byteOrder.PutUint32(b[:], Magic)
	if _, err := w.Write(b[:]); err != nil {
		return errors.Wrap(err, "writing header")
	}
	return nil
}

// ReadHeader reads exactly HeaderSize bytes. Fewer bytes before EOF is
// ErrShortHeader; other read failures are returned wrapped.
func ReadHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, errors.Wrapf(ErrShortHeader, "got %d of %d bytes", n, HeaderSize)
		}
		return 0, errors.Wrap(err, "reading header")
	}
	return Header(byteOrder.Uint32(b[:])), nil
}

// ValidateHeader checks the format tag, then the version. It has no side
// effects and runs before anything is restored.
func ValidateHeader(h Header) error {
	if h.Family() != Magic&familyMask {
		return errors.Wrapf(ErrFormatMismatch, "expected %08X but got %08X", Magic&familyMask, h.Family())
	}
	if h.Version() != Version {
		return errors.Wrapf(ErrVersionMismatch, "expected %d but got %d", Version, h.Version())
	}
	return nil
}
