package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/backup"
	"github.com/thoreinstein/lighthub/internal/config"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/settings"
	"github.com/thoreinstein/lighthub/internal/store"
	"github.com/thoreinstein/lighthub/pkg/fileutil"
)

// PermissionCheck validates the data and snapshot directories and the files
// in them. The settings file and snapshots hold passwords.
type PermissionCheck struct {
	PermissionFixer
	dataDir     string
	snapshotDir string
}

var (
	_ Check = (*PermissionCheck)(nil)
	_ Fixer = (*PermissionCheck)(nil)
)

// NewPermissionCheck creates a permission check for the given directories.
func NewPermissionCheck(dataDir, snapshotDir string) *PermissionCheck {
	return &PermissionCheck{dataDir: dataDir, snapshotDir: snapshotDir}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string {
	return "permissions"
}

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string {
	return "storage"
}

// Run executes the permission check.
func (c *PermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	checked := 0

	for _, dir := range []string{c.dataDir, c.snapshotDir} {
		issues = append(issues, c.checkDirectory(dir)...)
		checked++
	}

	files := []struct {
		path    string
		private bool
	}{
		{filepath.Join(c.dataDir, store.SettingsFile), true},
		{filepath.Join(c.dataDir, store.AliasesFile), false},
	}
	snaps, _ := filepath.Glob(filepath.Join(c.snapshotDir, "*"+backup.Extension))
	for _, s := range snaps {
		files = append(files, struct {
			path    string
			private bool
		}{s, true})
	}
	for _, f := range files {
		issues = append(issues, c.checkFile(f.path, f.private)...)
		checked++
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// checkDirectory validates a directory. A missing directory is created on
// first use and is not an issue.
func (c *PermissionCheck) checkDirectory(path string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{Path: path, Type: "directory", Problem: fmt.Sprintf("cannot stat directory: %v", err), Severity: SeverityError}}
	}
	if !info.IsDir() {
		return []pathIssue{{Path: path, Type: "directory", Problem: "path exists but is not a directory", Severity: SeverityError}}
	}

	var issues []pathIssue
	if ok, err := isDirectoryWritable(path); !ok {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "directory",
			Problem:     fmt.Sprintf("directory is not writable: %v", err),
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod 700 " + path,
		})
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 700 " + path,
		})
	}
	return issues
}

// checkFile validates a file. Private files must not be accessible to
// group or other.
func (c *PermissionCheck) checkFile(path string, private bool) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{Path: path, Type: "file", Problem: fmt.Sprintf("cannot stat file: %v", err), Severity: SeverityError}}
	}
	if runtime.GOOS == "windows" {
		return nil
	}

	perm := info.Mode().Perm()
	switch {
	case private && perm&0o077 != 0:
		return []pathIssue{{
			Path:        path,
			Type:        "file",
			Problem:     fmt.Sprintf("file holds passwords but has mode %s", formatPermissions(info.Mode())),
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 600 " + path,
		}}
	case perm&0o002 != 0:
		return []pathIssue{{
			Path:        path,
			Type:        "file",
			Problem:     "file is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 600 " + path,
		}}
	}
	return nil
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) (bool, error) {
	tmpFile, err := os.CreateTemp(path, ".lighthub-doctor-*")
	if err != nil {
		return false, err
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	os.Remove(tmpPath)
	return true, nil
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d paths have valid permissions", checked),
		}
	}

	status := SeverityPass
	fixable := false
	var fixHints []string
	issueDetails := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		status = max(status, issue.Severity)
		if issue.Fixable {
			fixable = true
			fixHints = append(fixHints, issue.FixHint)
		}
		m := map[string]any{
			"path":     issue.Path,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			m["permissions"] = issue.Permissions
		}
		issueDetails = append(issueDetails, m)
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issues":        issueDetails,
		},
		Fixable: fixable,
		FixHint: strings.Join(fixHints, "; "),
	}
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// StateCheck validates that the persisted settings and alias table load.
type StateCheck struct {
	dataDir string
}

var _ Check = (*StateCheck)(nil)

// NewStateCheck creates a state check for a data directory.
func NewStateCheck(dataDir string) *StateCheck {
	return &StateCheck{dataDir: dataDir}
}

// Name returns the unique identifier for this check.
func (c *StateCheck) Name() string {
	return "state"
}

// Category returns the grouping for this check.
func (c *StateCheck) Category() string {
	return "storage"
}

// Run executes the state check.
func (c *StateCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Details:  map[string]any{},
	}
	var notes []string
	note := func(sev Severity, msg string) {
		result.Status = max(result.Status, sev)
		notes = append(notes, msg)
	}

	settingsPath := filepath.Join(c.dataDir, store.SettingsFile)
	data, err := fileutil.ReadFileWithLimit(settingsPath, settings.MaxFileSize)
	switch {
	case errors.Is(err, os.ErrNotExist):
		note(SeverityInfo, "no settings file, defaults in use")
	case err != nil:
		note(SeverityError, fmt.Sprintf("cannot read settings: %v", err))
	default:
		if msg := validateSettings(data); msg != "" {
			note(SeverityError, msg)
			result.FixHint = "Fix " + settingsPath + " or restore a backup with: lighthub backup restore"
		}
		result.Details["settings_bytes"] = len(data)
	}

	table, err := alias.ReadFile(filepath.Join(c.dataDir, store.AliasesFile))
	if err != nil {
		note(SeverityError, fmt.Sprintf("cannot load aliases: %v", err))
		result.FixHint = "Restore a backup with: lighthub backup restore"
	} else {
		result.Details["aliases"] = table.Len()
	}

	if _, err := os.Stat(filepath.Join(c.dataDir, store.BackupFile)); err == nil {
		note(SeverityInfo, "leftover backup artifact, removed on next start")
	}

	if len(notes) == 0 {
		result.Message = fmt.Sprintf("settings and %d alias(es) load", table.Len())
	} else {
		result.Message = strings.Join(notes, "; ")
	}
	return result
}

// validateSettings returns a description of what is wrong with a settings
// document, or "" if it loads.
func validateSettings(data []byte) string {
	var v any
	if err := json.Unmarshal(jsonc.ToJSON(data), &v); err != nil {
		return formatJSONError(err, data)
	}
	if _, err := settings.Parse(data); err != nil {
		return fmt.Sprintf("invalid settings: %v", err)
	}
	return ""
}

// formatJSONError extracts position information from JSON syntax errors.
// Comment stripping keeps offsets, so positions refer to the original file.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("settings syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("settings error: %v", err)
}

// offsetToLineCol converts a byte offset to line and column numbers.
// Lines and columns are 1-indexed.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = min(max(offset, 0), len(data))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

// SnapshotCheck reports on the snapshot directory.
type SnapshotCheck struct {
	mgr       *backup.Manager
	retention int
}

var _ Check = (*SnapshotCheck)(nil)

// NewSnapshotCheck creates a snapshot check.
func NewSnapshotCheck(mgr *backup.Manager, retention int) *SnapshotCheck {
	return &SnapshotCheck{mgr: mgr, retention: retention}
}

// Name returns the unique identifier for this check.
func (c *SnapshotCheck) Name() string {
	return "snapshots"
}

// Category returns the grouping for this check.
func (c *SnapshotCheck) Category() string {
	return "backup"
}

// Run executes the snapshot check.
func (c *SnapshotCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	snaps, err := c.mgr.List()
	if errors.Is(err, backup.ErrNoBackupsFound) {
		result.Status = SeverityInfo
		result.Message = "no snapshots in " + c.mgr.Dir()
		result.FixHint = "Create one with: lighthub backup create"
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot list snapshots: %v", err)
		return result
	}

	var invalid []string
	for _, s := range snaps {
		if !s.Valid {
			invalid = append(invalid, s.ID)
		}
	}
	result.Details = map[string]any{
		"count":  len(snaps),
		"latest": snaps[0].ID,
	}

	switch {
	case len(invalid) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d of %d snapshots cannot be restored: %s", len(invalid), len(snaps), strings.Join(invalid, ", "))
		result.FixHint = "Inspect them with: lighthub backup inspect <id>"
	case len(snaps) > c.retention:
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("%d snapshots, more than the retention of %d", len(snaps), c.retention)
		result.FixHint = "Run: lighthub backup prune"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d snapshot(s), latest %s", len(snaps), snaps[0].ID)
	}
	return result
}

// ConfigCheck reports whether the configuration loaded.
type ConfigCheck struct {
	path    string
	loadErr error
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a config check from the result of config.Load.
func NewConfigCheck(path string, loadErr error) *ConfigCheck {
	return &ConfigCheck{path: path, loadErr: loadErr}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the config check.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.path},
	}
	if c.loadErr != nil {
		result.Status = SeverityError
		result.Message = c.loadErr.Error()
		var fe *config.FieldError
		if errors.As(c.loadErr, &fe) {
			result.FixHint = fmt.Sprintf("Run: lighthub config set %s <value>", fe.Field)
		}
		return result
	}
	if _, err := os.Stat(c.path); err != nil {
		result.Status = SeverityInfo
		result.Message = "no config file, defaults in use"
		return result
	}
	result.Status = SeverityPass
	result.Message = "config is valid"
	return result
}
