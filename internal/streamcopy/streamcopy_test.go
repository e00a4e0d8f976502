package streamcopy

import (
	"bytes"
	"fmt"
	"io"
	"math/rand/v2"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lighthub/internal/errors"
)

func randomPayload(n int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}
	return b
}

// recordingWriter records the size of every Write call.
type recordingWriter struct {
	bytes.Buffer
	writes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.Buffer.Write(p)
}

func TestCopyAll_Fidelity(t *testing.T) {
	for _, bufSize := range []int{1, 64, 128} {
		sizes := []int{0, 1, bufSize - 1, bufSize, bufSize + 1, 10 * bufSize}
		for _, size := range sizes {
			t.Run(fmt.Sprintf("buf=%d/size=%d", bufSize, size), func(t *testing.T) {
				payload := randomPayload(size, uint64(bufSize*1000+size))
				dst := &recordingWriter{}

				n, err := CopyAll(dst, bytes.NewReader(payload), bufSize)
				require.NoError(t, err)
				assert.Equal(t, int64(size), n)
				// An empty copy leaves dst.Bytes() nil, so compare contents only.
				assert.Len(t, dst.Bytes(), size)
				assert.True(t, bytes.Equal(payload, dst.Bytes()), "copied bytes differ from source")

				for _, w := range dst.writes {
					assert.LessOrEqual(t, w, bufSize, "flush larger than buffer")
				}
			})
		}
	}
}

func TestCopyAll_SlowReaders(t *testing.T) {
	payload := randomPayload(1000, 7)

	readers := map[string]io.Reader{
		"one byte": iotest.OneByteReader(bytes.NewReader(payload)),
		"half":     iotest.HalfReader(bytes.NewReader(payload)),
		"data+EOF": iotest.DataErrReader(bytes.NewReader(payload)),
	}
	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			var dst bytes.Buffer
			n, err := CopyAll(&dst, r, 64)
			require.NoError(t, err)
			assert.Equal(t, int64(len(payload)), n)
			assert.Equal(t, payload, dst.Bytes())
		})
	}
}

func TestCopyAll_InvalidBufferSize(t *testing.T) {
	_, err := CopyAll(io.Discard, bytes.NewReader([]byte("x")), 0)
	assert.True(t, errors.Is(err, ErrInvalidBufferSize))
}

func TestCopyAll_ReadError(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(bytes.NewReader([]byte("abc")), iotest.ErrReader(boom))

	var dst bytes.Buffer
	_, err := CopyAll(&dst, r, 128)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrDestination))
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestCopyAll_WriteError(t *testing.T) {
	boom := errors.New("disk full")

	_, err := CopyAll(failingWriter{err: boom}, bytes.NewReader(randomPayload(10, 1)), 4)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.Is(err, ErrDestination))

	// Failure surfaced by the final partial flush.
	_, err = CopyAll(failingWriter{err: boom}, bytes.NewReader(randomPayload(3, 1)), 4)
	assert.True(t, errors.Is(err, boom))
}

func TestWriter_BuffersUntilFlush(t *testing.T) {
	var dst recordingWriter
	w := NewWriter(&dst, 8)

	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, w.WriteByte('d'))
	assert.Equal(t, 4, w.Buffered())
	assert.Zero(t, dst.Len())

	require.NoError(t, w.Flush())
	assert.Equal(t, "abcd", dst.String())
	assert.Zero(t, w.Buffered())
}

func TestWriter_DefaultSize(t *testing.T) {
	var dst bytes.Buffer
	w := NewWriter(&dst, 0)

	_, err := w.Write(bytes.Repeat([]byte{'x'}, DefaultWriteBufferSize-1))
	require.NoError(t, err)
	assert.Zero(t, dst.Len())
}
