// Package settings holds the gateway's persisted settings document.
//
// The backup codec treats the serialized document as an opaque blob; only
// this package knows its fields. Unknown keys found in a settings file are
// kept in Extra and written back, so a blob produced by a newer build
// survives a restore on an older one.
package settings

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/pkg/fileutil"
)

// MaxFileSize caps the settings file read on load.
const MaxFileSize = 64 * 1024

// Settings is the gateway configuration persisted as JSON.
type Settings struct {
	Brightness         int    `json:"brightness"`
	Hostname           string `json:"hostname"`
	AdminUsername      string `json:"admin_username"`
	AdminPassword      string `json:"admin_password"`
	MQTTServer         string `json:"mqtt_server"`
	MQTTUsername       string `json:"mqtt_username"`
	MQTTPassword       string `json:"mqtt_password"`
	MQTTTopicPattern   string `json:"mqtt_topic_pattern"`
	HTTPRepeatFactor   int    `json:"http_repeat_factor"`
	ListenRepeats      int    `json:"listen_repeats"`
	StateFlushInterval int    `json:"state_flush_interval"`

	// Extra holds keys this build does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

// plain has the same fields as Settings without its JSON methods.
type plain Settings

// Default returns the factory settings.
func Default() *Settings {
	return &Settings{
		Brightness:         100,
		Hostname:           "lighthub",
		MQTTTopicPattern:   "milight/:device_id/:device_type/:group_id",
		HTTPRepeatFactor:   1,
		ListenRepeats:      3,
		StateFlushInterval: 10000,
	}
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

// Redacted returns a copy with credentials masked, for logs and the HTTP API.
func (s *Settings) Redacted() *Settings {
	c := s.Clone()
	if c.AdminPassword != "" {
		c.AdminPassword = "********"
	}
	if c.MQTTPassword != "" {
		c.MQTTPassword = "********"
	}
	return c
}

// MarshalJSON merges Extra with the known fields. Object keys come out
// sorted, so equal settings always serialize to equal bytes.
func (s *Settings) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal((*plain)(s))
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes over the current values, so fields missing from
// data keep whatever s already held.
func (s *Settings) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	known, err := json.Marshal((*plain)(&Settings{}))
	if err != nil {
		return err
	}
	var knownKeys map[string]json.RawMessage
	if err := json.Unmarshal(known, &knownKeys); err != nil {
		return err
	}
	for k := range knownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		s.Extra = nil
		return nil
	}
	s.Extra = all
	return nil
}

// Serialize writes s as compact JSON with no length prefix or trailing newline.
func (s *Settings) Serialize(w io.Writer) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshaling settings")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "writing settings")
	}
	return nil
}

// Parse decodes a settings document over the defaults. Comments and
// trailing commas are tolerated.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	data = bytes.TrimSpace(jsonc.ToJSON(data))
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "parsing settings")
	}
	return s, nil
}

// Load reads the settings file at path. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := fileutil.ReadFileWithLimit(path, MaxFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "reading settings")
	}
	return Parse(data)
}

// Save writes s to path atomically.
func (s *Settings) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Serialize(&buf); err != nil {
		return err
	}
	return errors.Wrap(fileutil.AtomicWriteFile(path, buf.Bytes(), 0o600), "saving settings")
}
