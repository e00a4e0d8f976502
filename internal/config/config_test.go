package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// isolate points the config and data directories at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LIGHTHUB_CONFIG_DIR", dir)
	t.Setenv("LIGHTHUB_DATA_DIR", filepath.Join(dir, "data"))
	t.Chdir(t.TempDir())
	return dir
}

func TestInit(t *testing.T) {
	isolate(t)
	Init()

	assert.Equal(t, DefaultListen, viper.GetString(KeyListen))
	assert.Equal(t, 64, viper.GetInt(KeyWriteBuffer))
	assert.Equal(t, 128, viper.GetInt(KeyRestoreBuffer))
	assert.Equal(t, DefaultRetention, viper.GetInt(KeyRetention))
}

func TestLoad_NoConfigFile(t *testing.T) {
	dir := isolate(t)
	Init()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "backups"), cfg.SnapshotDir())
	assert.Equal(t, int64(DefaultMaxUpload), cfg.Backup.MaxUpload)
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := isolate(t)
	Init()

	content := "listen: 127.0.0.1:9000\nbackup:\n  retention: 2\n  dir: /srv/snapshots\n"
	configPath := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, 2, cfg.Backup.Retention)
	assert.Equal(t, 128, cfg.Backup.RestoreBuffer, "unset keys keep defaults")
	assert.Equal(t, "/srv/snapshots", cfg.SnapshotDir())
}

func TestLoad_SearchesConfigDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("listen: :7000\n"), 0o600))
	Init()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, filepath.Join(dir, FileName), Path())
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LIGHTHUB_BACKUP_RETENTION", "9")
	t.Setenv("LIGHTHUB_LISTEN", ":9999")
	Init()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Backup.Retention)
	assert.Equal(t, ":9999", cfg.Listen)
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)
	Init()

	_, err := Load("/non/existent/path/config.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad listen", "listen: nowhere\n", ErrInvalidListen},
		{"zero buffer", "backup:\n  write_buffer: 0\n", ErrOutOfRange},
		{"zero retention", "backup:\n  retention: 0\n", ErrOutOfRange},
		{"tiny upload cap", "backup:\n  max_upload: 10\n", ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			Init()

			configPath := filepath.Join(dir, FileName)
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o600))

			_, err := Load(configPath)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			assert.Contains(t, err.Error(), "validating config")
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := &Config{Listen: "bad", DataDir: "", Backup: BackupConfig{Retention: 0}}
	errs := Validate(cfg)
	assert.GreaterOrEqual(t, len(errs), 5)

	var fe *FieldError
	require.True(t, errors.As(errs[0], &fe))
	assert.Equal(t, KeyListen, fe.Field)

	assert.Len(t, Validate(nil), 1)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := isolate(t)
	Init()
	_, err := Load("")
	require.NoError(t, err)

	viper.Set(KeyRetention, 3)
	viper.Set(KeyListen, ":8181")
	require.NoError(t, Save())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, ":8181", raw["listen"])
	backup, ok := raw["backup"].(map[string]any)
	require.True(t, ok, "nested keys are written as maps")
	assert.Equal(t, 3, backup["retention"])

	Init()
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Backup.Retention)
	assert.Equal(t, ":8181", cfg.Listen)
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey(KeyRetention))
	assert.False(t, ValidKey("backup"))
	assert.False(t, ValidKey("version"))
}
