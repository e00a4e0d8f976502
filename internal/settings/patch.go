package settings

import (
	"bytes"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// ErrInvalidPatch marks a patch that is malformed, fails a test operation
// or produces a document that is not a settings object.
var ErrInvalidPatch = errors.New("invalid settings patch")

// PatchKind selects the patch document format.
type PatchKind int

const (
	// MergePatch is an RFC 7386 JSON merge patch.
	MergePatch PatchKind = iota
	// JSONPatch is an RFC 6902 list of operations.
	JSONPatch
)

// Patch returns a copy of s with patch applied. Keys removed by the patch
// fall back to their defaults.
func (s *Settings) Patch(kind PatchKind, patch []byte) (*Settings, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings")
	}

	var out []byte
	switch kind {
	case MergePatch:
		out, err = jsonpatch.MergePatch(doc, patch)
	case JSONPatch:
		var ops jsonpatch.Patch
		ops, err = jsonpatch.DecodePatch(patch)
		if err == nil {
			out, err = ops.Apply(doc)
		}
	default:
		return nil, errors.Newf("unknown patch kind %d", kind)
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "applying patch"), ErrInvalidPatch)
	}

	if t := bytes.TrimSpace(out); len(t) == 0 || t[0] != '{' {
		return nil, errors.Mark(errors.New("patched settings are not a JSON object"), ErrInvalidPatch)
	}
	next, err := Parse(out)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidPatch)
	}
	return next, nil
}

// MergeDiff returns the merge patch that turns from into to. An empty
// object means the documents are equal.
func MergeDiff(from, to *Settings) ([]byte, error) {
	a, err := json.Marshal(from)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings")
	}
	b, err := json.Marshal(to)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings")
	}
	p, err := jsonpatch.CreateMergePatch(a, b)
	if err != nil {
		return nil, errors.Wrap(err, "creating merge patch")
	}
	return p, nil
}
