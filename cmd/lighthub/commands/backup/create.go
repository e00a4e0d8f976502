package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/backup"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/pkg/fileutil"
)

var createOutput string

func init() {
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "",
		"Write the container to a file (or - for stdout) instead of the snapshot directory")
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a snapshot",
	Long: `Create a snapshot of the current aliases and settings.

The snapshot is written to the backup directory and old snapshots beyond
backup.retention are pruned. With --output the container is written to the
given file instead, and nothing is pruned.`,
	Example: `  # Create a snapshot
  lighthub backup create

  # Export a container to a file
  lighthub backup create --output gateway.bin

  # Stream a container to stdout
  lighthub backup create -o - > gateway.bin

  See Also:
    lighthub backup list    - List available snapshots
    lighthub backup restore - Restore from a snapshot`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	return runCreateWithWriter(cmd, cmd.OutOrStdout())
}

func runCreateWithWriter(cmd *cobra.Command, w io.Writer) error {
	cfg := flags.GetConfig()
	logger := logging.FromContext(cmd.Context())

	st, err := cli.OpenStore(cfg, logger)
	if err != nil {
		return errors.NewSystemError(err, "Check that data_dir is readable")
	}

	switch createOutput {
	case "":
		snap, err := cli.NewManager(cfg, logger).Create(st)
		if err != nil {
			return errors.NewSystemError(err, "Check that the backup directory is writable")
		}
		cli.Success(w, "Created snapshot %s (%s, %d aliases)", snap.ID, cli.Bytes(snap.Size), snap.Aliases)
		return nil
	case "-":
		_, err := st.WriteBackup(w)
		return errors.Wrap(err, "writing backup")
	default:
		return exportBackup(w, st, createOutput)
	}
}

// exportBackup writes a container to path, replacing it only on success.
func exportBackup(w io.Writer, st backup.Source, path string) error {
	f, err := fileutil.CreateAtomic(path, 0o600)
	if err != nil {
		return errors.NewSystemError(err, "Check that the output directory exists")
	}
	n, err := st.WriteBackup(f)
	if err != nil {
		f.Abort()
		return errors.Wrap(err, "writing backup")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing output file")
	}
	cli.Success(w, "Wrote %s to %s", cli.Bytes(n), path)
	fmt.Fprintln(w, cli.Dim("Restore it with: lighthub backup restore --file %s", path))
	return nil
}
