// Package fileutil provides file system utilities including atomic write operations.
package fileutil

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// AtomicFile is a write target that replaces path only when Close succeeds.
// Until then the bytes live in a temp file in the same directory, so an
// interrupted write leaves the previous file intact.
type AtomicFile struct {
	tmp  *os.File
	path string
	perm os.FileMode
	done bool
}

// CreateAtomic opens a temp file next to path for writing.
// The caller is responsible for ensuring the parent directory exists.
func CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lighthub-atomic-*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	return &AtomicFile{tmp: tmp, path: path, perm: perm}, nil
}

// Write implements io.Writer.
func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Name returns the final path the file is committed to.
func (f *AtomicFile) Name() string {
	return f.path
}

// Close commits the temp file to its final path.
// On any failure the temp file is removed and the target is untouched.
func (f *AtomicFile) Close() error {
	if f.done {
		return nil
	}
	f.done = true
	tmpName := f.tmp.Name()

	if err := f.tmp.Chmod(f.perm); err != nil {
		f.tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "setting file permissions")
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// Abort discards everything written so far. It is a no-op after Close.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
//
// The caller is responsible for ensuring the parent directory exists.
// Permissions are applied to the final file via the perm parameter.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return errors.Wrap(err, "writing temp file")
	}
	return f.Close()
}

// AtomicWriteYAML writes v as YAML to path atomically with 0644 permissions.
// Appends a trailing newline for POSIX compliance.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.Marshal panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return AtomicWriteFile(path, data, 0o644)
}
