package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/paths"
	"github.com/thoreinstein/lighthub/internal/streamcopy"
	"github.com/thoreinstein/lighthub/pkg/fileutil"
)

// FileName is the config file name searched for in the config paths.
const FileName = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. LIGHTHUB_BACKUP_RETENTION.
const EnvPrefix = "LIGHTHUB"

// Config keys.
const (
	KeyListen        = "listen"
	KeyDataDir       = "data_dir"
	KeyBackupDir     = "backup.dir"
	KeyWriteBuffer   = "backup.write_buffer"
	KeyRestoreBuffer = "backup.restore_buffer"
	KeyRetention     = "backup.retention"
	KeyMaxUpload     = "backup.max_upload"
)

// Defaults.
const (
	DefaultListen    = ":8080"
	DefaultRetention = 5
	DefaultMaxUpload = 1 << 20
)

// Config represents the top-level configuration structure.
type Config struct {
	Listen  string       `mapstructure:"listen" yaml:"listen"`
	DataDir string       `mapstructure:"data_dir" yaml:"data_dir"`
	Backup  BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// BackupConfig tunes backup and restore.
type BackupConfig struct {
	// Dir holds snapshot files. Empty means <data_dir>/backups.
	Dir           string `mapstructure:"dir" yaml:"dir"`
	WriteBuffer   int    `mapstructure:"write_buffer" yaml:"write_buffer"`
	RestoreBuffer int    `mapstructure:"restore_buffer" yaml:"restore_buffer"`
	Retention     int    `mapstructure:"retention" yaml:"retention"`
	MaxUpload     int64  `mapstructure:"max_upload" yaml:"max_upload"`
}

// SnapshotDir returns the directory for snapshot files.
func (c *Config) SnapshotDir() string {
	if c.Backup.Dir != "" {
		return c.Backup.Dir
	}
	return filepath.Join(c.DataDir, "backups")
}

// Keys returns every settable key in display order.
func Keys() []string {
	return []string{
		KeyListen,
		KeyDataDir,
		KeyBackupDir,
		KeyWriteBuffer,
		KeyRestoreBuffer,
		KeyRetention,
		KeyMaxUpload,
	}
}

// ValidKey reports whether key is a known config key.
func ValidKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Init resets Viper and registers search paths, environment overrides and
// defaults. Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyListen, DefaultListen)
	viper.SetDefault(KeyDataDir, paths.DataDir())
	viper.SetDefault(KeyBackupDir, "")
	viper.SetDefault(KeyWriteBuffer, streamcopy.DefaultWriteBufferSize)
	viper.SetDefault(KeyRestoreBuffer, streamcopy.DefaultRestoreBufferSize)
	viper.SetDefault(KeyRetention, DefaultRetention)
	viper.SetDefault(KeyMaxUpload, DefaultMaxUpload)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load, defaults apply.
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrapf(errors.Mark(err, errors.ErrNotFound), "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.DataDir = paths.ExpandHome(cfg.DataDir)
	cfg.Backup.Dir = paths.ExpandHome(cfg.Backup.Dir)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Path returns the config file in use, or the default location when none was read.
func Path() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(paths.ConfigDir(), FileName)
}

// Save writes the current values of every key to the config file.
func Save() error {
	path := Path()
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	out := make(map[string]any)
	for _, key := range Keys() {
		setNested(out, key, viper.Get(key))
	}
	if err := fileutil.AtomicWriteYAML(path, out); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// setNested stores v under a dotted key.
func setNested(m map[string]any, key string, v any) {
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		m[key] = v
		return
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[head] = child
	}
	setNested(child, rest, v)
}
