package inspect

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/settings"
)

func TestReadState(t *testing.T) {
	s := settings.Default()
	s.Brightness = 12

	st, err := ReadState(bytes.NewReader(encode(t, s)))
	require.NoError(t, err)
	assert.Equal(t, s, st.Settings)
	e, ok := st.Aliases.Get("kitchen")
	require.True(t, ok)
	assert.Equal(t, uint16(0xBEEF), e.DeviceID)
}

func TestReadState_Invalid(t *testing.T) {
	tests := map[string][]byte{
		"short header":  {0x01},
		"wrong family":  binary.NativeEndian.AppendUint32(nil, 0xDEADBE01),
		"bad settings":  encode(t, rawBlob(`{"brightness":`)),
		"wrong version": binary.NativeEndian.AppendUint32(nil, 0x92A7C302),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadState(bytes.NewReader(data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidBackup), "got %v", err)
		})
	}
}

func testState(t *testing.T) *State {
	t.Helper()
	tbl := alias.New()
	_, err := tbl.Set("kitchen", alias.Identity{DeviceID: 1, GroupID: 1, DeviceType: alias.DeviceRGBW})
	require.NoError(t, err)
	_, err = tbl.Set("hall", alias.Identity{DeviceID: 2, GroupID: 0, DeviceType: alias.DeviceCCT})
	require.NoError(t, err)
	return &State{Aliases: tbl, Settings: settings.Default()}
}

func TestDiff_Identical(t *testing.T) {
	a := testState(t)
	c, err := Diff(a, testState(t))
	require.NoError(t, err)
	assert.True(t, c.Empty())

	var buf bytes.Buffer
	require.NoError(t, RenderDiff(&buf, c, FormatText))
	assert.Equal(t, "No differences\n", buf.String())
}

func TestDiff_Changes(t *testing.T) {
	from := testState(t)
	to := testState(t)
	require.NoError(t, to.Aliases.Delete("hall"))
	_, err := to.Aliases.Set("kitchen", alias.Identity{DeviceID: 9, GroupID: 1, DeviceType: alias.DeviceRGBW})
	require.NoError(t, err)
	_, err = to.Aliases.Set("porch", alias.Identity{DeviceID: 3, GroupID: 2, DeviceType: alias.DeviceRGB})
	require.NoError(t, err)
	to.Settings.Brightness = 40
	to.Settings.MQTTPassword = "secret"

	c, err := Diff(from, to)
	require.NoError(t, err)
	require.False(t, c.Empty())

	require.Len(t, c.Aliases, 3)
	assert.Equal(t, AliasRemoved, c.Aliases[0].Change)
	assert.Equal(t, "hall", c.Aliases[0].Name)
	assert.Equal(t, AliasChanged, c.Aliases[1].Change)
	assert.Equal(t, uint16(9), c.Aliases[1].To.DeviceID)
	assert.Equal(t, AliasAdded, c.Aliases[2].Change)
	assert.Equal(t, "porch", c.Aliases[2].Name)

	assert.JSONEq(t, `{"brightness":40,"mqtt_password":"secret"}`, string(c.SettingsPatch))

	var buf bytes.Buffer
	require.NoError(t, RenderDiff(&buf, c, FormatText))
	out := buf.String()
	assert.Contains(t, out, "- hall 0x0002 group 0 (cct)")
	assert.Contains(t, out, "~ kitchen 0x0001 group 1 (rgbw) -> 0x0009 group 1 (rgbw)")
	assert.Contains(t, out, "+ porch 0x0003 group 2 (rgb)")
	assert.Contains(t, out, `-   "brightness": 100,`)
	assert.Contains(t, out, `+   "brightness": 40,`)
	assert.NotContains(t, out, "secret")

	buf.Reset()
	require.NoError(t, RenderDiff(&buf, c, FormatJSON))
	var decoded struct {
		Aliases       []AliasChange   `json:"aliases"`
		SettingsPatch json.RawMessage `json:"settings_patch"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Aliases, 3)
	assert.JSONEq(t, string(c.SettingsPatch), string(decoded.SettingsPatch))

	assert.Error(t, RenderDiff(&buf, c, FormatYAML))
}
