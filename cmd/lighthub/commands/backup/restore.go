package backup

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/backup"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/cli/prompt"
	"github.com/thoreinstein/lighthub/internal/container"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/inspect"
	"github.com/thoreinstein/lighthub/internal/logging"
)

var (
	restoreFile     string
	restoreYes      bool
	restoreNoBackup bool
)

// newSelector is replaced in tests.
var newSelector = prompt.NewSelector

func init() {
	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "Restore from a container file instead of a snapshot")
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip the confirmation prompt")
	restoreCmd.Flags().BoolVar(&restoreNoBackup, "no-backup", false, "Do not snapshot the current state first")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore from a snapshot",
	Long: `Restore the aliases and settings from a snapshot or container file.

Without a backup ID or --file, you choose from the available snapshots.
Unless --no-backup is given, the current state is snapshotted first.

A container with the wrong header is rejected before anything changes.
If the aliases are restored but the settings cannot be, the restored
aliases are kept and the previous settings stay in place.`,
	Example: `  # Choose a snapshot interactively
  lighthub backup restore

  # Restore a specific snapshot without prompting
  lighthub backup restore 20260123T100712 --yes

  # Restore an exported container
  lighthub backup restore --file gateway.bin

  See Also:
    lighthub backup list    - List available snapshots
    lighthub backup inspect - Describe a container file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	return runRestoreWithWriter(cmd, args, cmd.OutOrStdout())
}

func runRestoreWithWriter(cmd *cobra.Command, args []string, w io.Writer) error {
	if len(args) == 1 && restoreFile != "" {
		return errors.NewUserError(errors.New("cannot use a backup ID together with --file"), "")
	}

	cfg := flags.GetConfig()
	logger := logging.FromContext(cmd.Context())
	mgr := cli.NewManager(cfg, logger)
	sel := newSelector()

	var (
		src   *os.File
		label string
		err   error
	)
	switch {
	case restoreFile != "":
		src, err = os.Open(restoreFile)
		if err != nil {
			return errors.NewUserError(err, "Check the --file path")
		}
		label = restoreFile
	default:
		id := ""
		if len(args) == 1 {
			id = args[0]
		} else if id, err = chooseSnapshot(mgr, sel); err != nil {
			return err
		}
		src, _, err = mgr.Open(id)
		if err != nil {
			return errors.NewUserError(err, "Run 'lighthub backup list' to see available backups")
		}
		label = "backup " + id
	}
	defer src.Close()

	if !restoreYes {
		ok, err := sel.Confirm(fmt.Sprintf("Restore %s? This replaces all aliases and settings.", label))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Restore cancelled")
			return nil
		}
	}

	st, err := cli.OpenStore(cfg, logger)
	if err != nil {
		return errors.NewSystemError(err, "Check that data_dir is writable")
	}

	if !restoreNoBackup {
		if err := mgr.EnsureSnapshot(st); err != nil {
			return errors.NewSystemError(err, "Use --no-backup to restore without a safety snapshot")
		}
	}

	outcome, err := st.RestoreBackup(cmd.Context(), src)
	if err != nil {
		if outcome == container.OutcomeInvalidFile {
			return errors.NewUserError(
				errors.Wrapf(errors.Mark(err, errors.ErrInvalidBackup), "restoring %s", label),
				"Run 'lighthub backup inspect' on the file to see what is wrong with it",
			)
		}
		return errors.Wrapf(err, "restoring %s", label)
	}

	cli.Success(w, "Restored %s (%d aliases)", label, st.Aliases().Len())
	return nil
}

// chooseSnapshot asks which snapshot to restore.
func chooseSnapshot(mgr *backup.Manager, sel *prompt.Selector) (string, error) {
	snaps, err := mgr.List()
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return "", errors.NewUserError(err, "Create one with: lighthub backup create")
		}
		return "", errors.Wrap(err, "listing backups")
	}

	labels := make([]string, len(snaps))
	for i, s := range snaps {
		labels[i] = fmt.Sprintf("%s  %s  %d aliases", s.ID, cli.Bytes(s.Size), s.Aliases)
		if !s.Valid {
			labels[i] += "  (invalid)"
		}
	}

	idx, err := sel.Select("Select a backup to restore", labels, func(i int) string {
		return previewSnapshot(snaps[i])
	})
	if err != nil {
		return "", err
	}
	return snaps[idx].ID, nil
}

// previewSnapshot renders the inspection report of a snapshot.
func previewSnapshot(s backup.Snapshot) string {
	f, err := os.Open(s.Path)
	if err != nil {
		return err.Error()
	}
	defer f.Close()

	rep, err := inspect.Inspect(f)
	if err != nil {
		return err.Error()
	}
	var buf bytes.Buffer
	if err := inspect.Render(&buf, rep, inspect.FormatText); err != nil {
		return err.Error()
	}
	return buf.String()
}
