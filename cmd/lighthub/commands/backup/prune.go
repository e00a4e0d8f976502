package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"Number of snapshots to retain (default: backup.retention)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old snapshots",
	Long: `Remove snapshots beyond the retention count.

By default keeps backup.retention snapshots and removes older ones.
Use the --keep flag to specify a different count.`,
	Example: `  # Keep the configured number of snapshots
  lighthub backup prune

  # Keep only the 3 most recent snapshots
  lighthub backup prune --keep 3

  # Remove all snapshots
  lighthub backup prune --keep 0

  See Also:
    lighthub backup list   - List available snapshots
    lighthub backup create - Create a new snapshot`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	return runPruneWithWriter(cmd, cmd.OutOrStdout())
}

func runPruneWithWriter(cmd *cobra.Command, w io.Writer) error {
	cfg := flags.GetConfig()
	keep := pruneKeep
	if !cmd.Flags().Changed("keep") {
		keep = cfg.Backup.Retention
	}
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	mgr := cli.NewManager(cfg, logging.FromContext(cmd.Context()))
	removed, err := mgr.Prune(keep)
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}

	if len(removed) == 0 {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}
	for _, id := range removed {
		fmt.Fprintf(w, "  removed %s\n", cli.ID(id))
	}
	cli.Success(w, "Removed %d backup(s), kept %d", len(removed), keep)
	return nil
}
