package config

import (
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidListen indicates the listen address is not host:port.
	ErrInvalidListen = errors.New("invalid listen address")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrOutOfRange indicates a numeric value outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")
)

// Limits for numeric settings.
const (
	MinBufferSize = 1
	MaxBufferSize = 1 << 16
	MinMaxUpload  = 64
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if err := validateListen(cfg.Listen); err != nil {
		errs = append(errs, &FieldError{Field: KeyListen, Value: cfg.Listen, Err: err})
	}

	if cfg.DataDir == "" {
		errs = append(errs, &FieldError{Field: KeyDataDir, Err: ErrInvalidPath})
	} else if err := validatePath(cfg.DataDir); err != nil {
		errs = append(errs, &FieldError{Field: KeyDataDir, Value: cfg.DataDir, Err: err})
	}

	if cfg.Backup.Dir != "" {
		if err := validatePath(cfg.Backup.Dir); err != nil {
			errs = append(errs, &FieldError{Field: KeyBackupDir, Value: cfg.Backup.Dir, Err: err})
		}
	}

	ranges := []struct {
		key         string
		val, lo, hi int64
	}{
		{KeyWriteBuffer, int64(cfg.Backup.WriteBuffer), MinBufferSize, MaxBufferSize},
		{KeyRestoreBuffer, int64(cfg.Backup.RestoreBuffer), MinBufferSize, MaxBufferSize},
		{KeyRetention, int64(cfg.Backup.Retention), 1, 1000},
		{KeyMaxUpload, cfg.Backup.MaxUpload, MinMaxUpload, 1 << 30},
	}
	for _, r := range ranges {
		if r.val < r.lo || r.val > r.hi {
			errs = append(errs, &FieldError{
				Field: r.key,
				Value: strconv.FormatInt(r.val, 10),
				Err:   errors.Wrapf(ErrOutOfRange, "must be between %d and %d", r.lo, r.hi),
			})
		}
	}

	return errs
}

func validateListen(addr string) error {
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return ErrInvalidListen
	}
	return nil
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}

// FieldError represents an error for a specific config key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
