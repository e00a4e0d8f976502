package alias

import (
	"strings"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// MaxNameLen is the longest alias name accepted, in bytes.
const MaxNameLen = 64

// Separator is the byte written after the last alias record.
const Separator byte = 0x00

// recordSize is the size of the identity record following each name:
// id uint32 | device id uint16 | group id uint8 | device type uint8.
const recordSize = 8

// Sentinel errors for alias operations.
var (
	// ErrInvalidName indicates an empty, oversized or NUL-containing alias name.
	ErrInvalidName = errors.New("invalid alias name")

	// ErrUnknownDeviceType indicates a device type tag or name that is not recognized.
	ErrUnknownDeviceType = errors.New("unknown device type")

	// ErrMalformed indicates the alias section could not be decoded.
	ErrMalformed = errors.New("malformed alias section")

	// ErrNotFound indicates the alias does not exist.
	ErrNotFound = errors.New("alias not found")
)

// DeviceType is the remote/bulb protocol family a group belongs to.
type DeviceType uint8

// Known device types. The numeric values are part of the backup format.
const (
	DeviceRGBW   DeviceType = 1
	DeviceCCT    DeviceType = 2
	DeviceRGBCCT DeviceType = 3
	DeviceRGB    DeviceType = 4
	DeviceFUT089 DeviceType = 5
	DeviceFUT091 DeviceType = 6
	DeviceFUT020 DeviceType = 7
)

var deviceTypeNames = map[DeviceType]string{
	DeviceRGBW:   "rgbw",
	DeviceCCT:    "cct",
	DeviceRGBCCT: "rgb_cct",
	DeviceRGB:    "rgb",
	DeviceFUT089: "fut089",
	DeviceFUT091: "fut091",
	DeviceFUT020: "fut020",
}

// String returns the lowercase name used in the CLI and HTTP API.
func (d DeviceType) String() string {
	if name, ok := deviceTypeNames[d]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether d is a known device type.
func (d DeviceType) Valid() bool {
	_, ok := deviceTypeNames[d]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (d DeviceType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, errors.Wrapf(ErrUnknownDeviceType, "tag %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeviceType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDeviceType parses a device type name such as "rgb_cct".
func ParseDeviceType(s string) (DeviceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range deviceTypeNames {
		if name == s {
			return d, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownDeviceType, "%q", s)
}

// DeviceTypes returns the names of all known device types in tag order.
func DeviceTypes() []string {
	names := make([]string, 0, len(deviceTypeNames))
	for d := DeviceRGBW; d <= DeviceFUT020; d++ {
		names = append(names, d.String())
	}
	return names
}

// Identity addresses one group on one remote.
type Identity struct {
	DeviceID   uint16     `json:"device_id" yaml:"device_id" toml:"device_id"`
	GroupID    uint8      `json:"group_id" yaml:"group_id" toml:"group_id"`
	DeviceType DeviceType `json:"device_type" yaml:"device_type" toml:"device_type"`
}

// Entry is a named identity with a stable numeric ID.
type Entry struct {
	ID       uint32 `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"alias" yaml:"alias" toml:"alias"`
	Identity `yaml:",inline"`
}

// ValidateName checks an alias name can be stored and framed.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "name is empty")
	case len(name) > MaxNameLen:
		return errors.Wrapf(ErrInvalidName, "name exceeds %d bytes", MaxNameLen)
	case strings.IndexByte(name, 0) >= 0:
		return errors.Wrap(ErrInvalidName, "name contains NUL")
	}
	return nil
}
