package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/lighthub/internal/errors"
)

func TestGenDoc_Markdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")

	var buf bytes.Buffer
	require.NoError(t, runGenDocWithWriter(&buf, dir, "markdown"))
	assert.Contains(t, buf.String(), dir)

	data, err := os.ReadFile(filepath.Join(dir, "lighthub_backup_restore.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `title: "lighthub backup restore"`)
	assert.Contains(t, string(data), "/docs/reference/lighthub_backup/")
}

func TestGenDoc_Man(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, runGenDocWithWriter(&bytes.Buffer{}, dir, "man"))
	assert.FileExists(t, filepath.Join(dir, "lighthub.1"))
	assert.FileExists(t, filepath.Join(dir, "lighthub-alias-set.1"))
}

func TestGenDoc_Errors(t *testing.T) {
	err := runGenDocWithWriter(&bytes.Buffer{}, "", "markdown")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	err = runGenDocWithWriter(&bytes.Buffer{}, t.TempDir(), "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown doc format")
}
