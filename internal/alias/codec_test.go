package alias

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lighthub/internal/errors"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New()
	_, err := tbl.Set("kitchen", Identity{DeviceID: 0x1234, GroupID: 1, DeviceType: DeviceRGBCCT})
	require.NoError(t, err)
	_, err = tbl.Set("bedroom", Identity{DeviceID: 0xABCD, GroupID: 0, DeviceType: DeviceCCT})
	require.NoError(t, err)
	return tbl
}

func TestSave_Layout(t *testing.T) {
	tbl := New()
	_, err := tbl.Set("alias1", Identity{DeviceID: 0x0102, GroupID: 3, DeviceType: DeviceRGBW})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Save(&buf))

	want := []byte("alias1\x00")
	want = binary.NativeEndian.AppendUint32(want, 1)
	want = binary.NativeEndian.AppendUint16(want, 0x0102)
	want = append(want, 3, byte(DeviceRGBW), Separator)
	assert.Equal(t, want, buf.Bytes())
}

func TestSave_LayoutMultipleRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable(t).Save(&buf))

	want := []byte("bedroom\x00")
	want = binary.NativeEndian.AppendUint32(want, 2)
	want = binary.NativeEndian.AppendUint16(want, 0xABCD)
	want = append(want, 0, byte(DeviceCCT))
	want = append(want, "kitchen\x00"...)
	want = binary.NativeEndian.AppendUint32(want, 1)
	want = binary.NativeEndian.AppendUint16(want, 0x1234)
	want = append(want, 1, byte(DeviceRGBCCT), Separator)
	assert.Equal(t, want, buf.Bytes())
}

func TestSave_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().Save(&buf))
	assert.Equal(t, []byte{Separator}, buf.Bytes())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, tbl.Save(&buf))
	buf.WriteString("trailing settings")

	r := bufio.NewReader(&buf)
	got := New()
	require.NoError(t, got.Load(r))
	assert.True(t, tbl.Equal(got))

	// The separator is left for the caller.
	sep, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, Separator, sep)

	rest, err := r.ReadString(0)
	assert.Error(t, err) // EOF, no further NUL
	assert.Equal(t, "trailing settings", rest)
}

func TestLoad_NextIDFollowsLoadedIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleTable(t).Save(&buf))

	got := New()
	require.NoError(t, got.Load(bufio.NewReader(&buf)))

	e, err := got.Set("new", Identity{DeviceType: DeviceRGB})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), e.ID)
}

func TestLoad_Malformed(t *testing.T) {
	var full bytes.Buffer
	require.NoError(t, sampleTable(t).Save(&full))
	valid := full.Bytes()

	badType := append([]byte("x\x00"), 1, 0, 0, 0, 0, 0, 0, 42, Separator)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty input", nil},
		{"missing separator", valid[:len(valid)-1]},
		{"truncated name", []byte("kitch")},
		{"truncated record", []byte("kitchen\x00\x01\x02")},
		{"unknown device type", badType},
		{"oversized name", append(bytes.Repeat([]byte{'n'}, MaxNameLen+1), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Load(bufio.NewReader(bytes.NewReader(tt.input)))
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.bin")
	tbl := sampleTable(t)

	require.NoError(t, tbl.WriteFile(path))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))
}

func TestReadFile_Missing(t *testing.T) {
	got, err := ReadFile(filepath.Join(t.TempDir(), "aliases.bin"))
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func TestReadFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.bin")
	require.NoError(t, os.WriteFile(path, []byte("dangling"), 0o600))

	_, err := ReadFile(path)
	assert.True(t, errors.Is(err, ErrMalformed))
}
