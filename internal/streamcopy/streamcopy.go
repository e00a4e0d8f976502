// Package streamcopy moves bytes between streams through a fixed-size
// buffer so neither end has to hold a whole backup in memory.
package streamcopy

import (
	"bufio"
	"io"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// Buffer sizes used by the backup paths.
const (
	// DefaultWriteBufferSize buffers writes to the transient backup artifact.
	// Kept small because it competes with the HTTP response buffer.
	DefaultWriteBufferSize = 64

	// DefaultRestoreBufferSize buffers writes to the settings file on restore.
	DefaultRestoreBufferSize = 128
)

// ErrInvalidBufferSize is returned for buffer sizes below one byte.
var ErrInvalidBufferSize = errors.New("buffer size must be at least 1")

// ErrDestination marks CopyAll failures on the write side, so callers can
// tell a broken sink from a broken source.
var ErrDestination = errors.New("writing destination failed")

// Writer is a write-buffering stream. Bytes reach the underlying writer
// only in bufferSize chunks or on Flush.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w with a buffer of bufferSize bytes.
// Sizes below one fall back to DefaultWriteBufferSize.
func NewWriter(w io.Writer, bufferSize int) *Writer {
	if bufferSize < 1 {
		bufferSize = DefaultWriteBufferSize
	}
	return &Writer{bw: bufio.NewWriterSize(w, bufferSize)}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.bw.Write(p)
}

// WriteByte implements io.ByteWriter.
func (w *Writer) WriteByte(c byte) error {
	return w.bw.WriteByte(c)
}

// Flush writes any buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Buffered returns the number of bytes waiting for Flush.
func (w *Writer) Buffered() int {
	return w.bw.Buffered()
}

// CopyAll copies src to dst until EOF, holding at most bufferSize bytes
// between flushes. A partially filled buffer is flushed at EOF. It returns
// the number of bytes written to dst.
func CopyAll(dst io.Writer, src io.Reader, bufferSize int) (int64, error) {
	if bufferSize < 1 {
		return 0, ErrInvalidBufferSize
	}

	buf := make([]byte, bufferSize)
	var (
		written int64
		filled  int
	)
	flush := func() error {
		if filled == 0 {
			return nil
		}
		n, err := dst.Write(buf[:filled])
		written += int64(n)
		if err == nil && n != filled {
			err = io.ErrShortWrite
		}
		filled = 0
		return err
	}

	for {
		n, rerr := src.Read(buf[filled:])
		filled += n
		if filled == len(buf) {
			if err := flush(); err != nil {
				return written, errors.Mark(errors.Wrap(err, "writing destination"), ErrDestination)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, errors.Wrap(rerr, "reading source")
		}
	}

	if err := flush(); err != nil {
		return written, errors.Mark(errors.Wrap(err, "flushing destination"), ErrDestination)
	}
	return written, nil
}
