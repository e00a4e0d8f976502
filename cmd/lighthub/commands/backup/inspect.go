package backup

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/backup"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/inspect"
	"github.com/thoreinstein/lighthub/internal/logging"
)

var inspectFormat string

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", inspect.FormatText,
		"Output format: "+strings.Join(inspect.Formats(), ", "))
	Cmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <id|path>",
	Short: "Describe a container without restoring it",
	Long: `Describe a backup container: its header, the aliases it holds and
the size of its settings document. Nothing is restored or modified.

The argument is either a snapshot ID or a path to a container file.`,
	Example: `  # Inspect a snapshot
  lighthub backup inspect 20260123T100712

  # Inspect an exported container as YAML
  lighthub backup inspect ./gateway.bin --format yaml

  See Also:
    lighthub backup list    - List available snapshots
    lighthub backup restore - Restore from a snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	return runInspectWithWriter(cmd, cmd.OutOrStdout(), args[0])
}

func runInspectWithWriter(cmd *cobra.Command, w io.Writer, target string) error {
	if !inspect.ValidFormat(inspectFormat) {
		return errors.NewUserError(
			errors.Newf("unknown format %q", inspectFormat),
			"Valid formats: "+strings.Join(inspect.Formats(), ", "),
		)
	}

	path, err := resolveContainer(cmd, target)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.NewUserError(err, "Pass a snapshot ID from 'lighthub backup list' or a container path")
	}
	defer f.Close()

	rep, err := inspect.Inspect(f)
	if err != nil {
		return errors.NewUserError(errors.Mark(err, errors.ErrInvalidBackup), "The file is not a backup container")
	}
	return inspect.Render(w, rep, inspectFormat)
}

// resolveContainer maps a snapshot ID to its file. Anything that is not an
// ID is treated as a path.
func resolveContainer(cmd *cobra.Command, target string) (string, error) {
	if _, _, err := backup.ParseID(target); err != nil {
		return target, nil
	}
	mgr := cli.NewManager(flags.GetConfig(), logging.FromContext(cmd.Context()))
	snap, err := mgr.Get(target)
	if err != nil {
		return "", errors.NewUserError(err, "Run 'lighthub backup list' to see available backups")
	}
	return snap.Path, nil
}
