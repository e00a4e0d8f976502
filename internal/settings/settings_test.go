package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverDefaults(t *testing.T) {
	s, err := Parse([]byte(`{"brightness":80}`))
	require.NoError(t, err)

	want := Default()
	want.Brightness = 80
	assert.Equal(t, want, s)
}

func TestParse_JSONC(t *testing.T) {
	data := []byte(`{
		// dimmer by default
		"brightness": 40,
		"hostname": "porch", /* trailing comma below */
	}`)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 40, s.Brightness)
	assert.Equal(t, "porch", s.Hostname)
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"brightness":"bright"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[1,2`))
	assert.Error(t, err)
}

func TestUnknownKeysSurvive(t *testing.T) {
	s, err := Parse([]byte(`{"brightness":5,"zigbee_channel":11,"radio":{"pa":"max"}}`))
	require.NoError(t, err)
	require.Len(t, s.Extra, 2)

	var buf bytes.Buffer
	require.NoError(t, s.Serialize(&buf))

	back, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s, back)
	assert.Contains(t, buf.String(), `"zigbee_channel":11`)
}

func TestSerialize_Deterministic(t *testing.T) {
	s, err := Parse([]byte(`{"b_extra":1,"a_extra":2}`))
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, s.Serialize(&first))
	require.NoError(t, s.Clone().Serialize(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.NotContains(t, first.String(), "\n")
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := Default()
	s.Brightness = 12
	s.AdminPassword = "hunter2"

	require.NoError(t, s.Save(path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoad_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte(" "), MaxFileSize+1), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	s := Default()
	s.AdminPassword = "hunter2"
	s.MQTTPassword = "mqttpw"

	r := s.Redacted()
	assert.Equal(t, "********", r.AdminPassword)
	assert.Equal(t, "********", r.MQTTPassword)
	assert.Equal(t, "hunter2", s.AdminPassword, "original untouched")
}

func TestClone_DeepCopiesExtra(t *testing.T) {
	s, err := Parse([]byte(`{"extra":[1]}`))
	require.NoError(t, err)

	c := s.Clone()
	c.Extra["extra"][1] = '9'
	assert.Equal(t, "[1]", string(s.Extra["extra"]))
}
