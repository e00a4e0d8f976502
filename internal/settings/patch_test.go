package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lighthub/internal/errors"
)

func TestPatch_Merge(t *testing.T) {
	s := Default()
	s.Extra = map[string]json.RawMessage{"radio": json.RawMessage(`{"channel":3}`)}

	next, err := s.Patch(MergePatch, []byte(`{"brightness":25,"hostname":null,"radio":{"channel":5}}`))
	require.NoError(t, err)

	assert.Equal(t, 25, next.Brightness)
	assert.Equal(t, Default().Hostname, next.Hostname, "removed key falls back to default")
	assert.JSONEq(t, `{"channel":5}`, string(next.Extra["radio"]))
	assert.Equal(t, 100, s.Brightness, "receiver is not modified")
}

func TestPatch_JSONPatch(t *testing.T) {
	s := Default()

	next, err := s.Patch(JSONPatch, []byte(`[
		{"op":"test","path":"/brightness","value":100},
		{"op":"replace","path":"/brightness","value":60},
		{"op":"add","path":"/zone","value":"porch"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 60, next.Brightness)
	assert.JSONEq(t, `"porch"`, string(next.Extra["zone"]))
}

func TestPatch_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		kind  PatchKind
		patch string
	}{
		{"malformed merge patch", MergePatch, `{"brightness":`},
		{"wrong field type", MergePatch, `{"brightness":"bright"}`},
		{"malformed operations", JSONPatch, `{"op":"add"}`},
		{"failed test operation", JSONPatch, `[{"op":"test","path":"/brightness","value":1}]`},
		{"replaces whole document", JSONPatch, `[{"op":"replace","path":"","value":[1]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Default().Patch(tt.kind, []byte(tt.patch))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPatch), "got %v", err)
		})
	}
}

func TestMergeDiff(t *testing.T) {
	from := Default()
	to := Default()
	to.Brightness = 10

	p, err := MergeDiff(from, to)
	require.NoError(t, err)
	assert.JSONEq(t, `{"brightness":10}`, string(p))

	applied, err := from.Patch(MergePatch, p)
	require.NoError(t, err)
	assert.Equal(t, to, applied)

	same, err := MergeDiff(from, from.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(same))
}
