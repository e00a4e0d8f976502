package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/backup"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available snapshots",
	Long: `List all snapshots in the backup directory, most recent first.

Snapshots that are not valid containers are listed but marked, and
cannot be restored.`,
	Example: `  # List all snapshots
  lighthub backup list

  # Output as JSON
  lighthub backup list --json

  See Also:
    lighthub backup restore - Restore from a snapshot
    lighthub backup create  - Create a new snapshot`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd, cmd.OutOrStdout())
}

func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	mgr := cli.NewManager(flags.GetConfig(), logging.FromContext(cmd.Context()))

	snaps, err := mgr.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	if listJSON {
		if snaps == nil {
			snaps = []backup.Snapshot{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(snaps), "encoding output")
	}

	if len(snaps) == 0 {
		fmt.Fprintf(w, "No backups found in %s\n", mgr.Dir())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSIZE\tALIASES\t")
	for _, s := range snaps {
		status := ""
		if !s.Valid {
			status = cli.Dim("(invalid)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			cli.ID(s.ID),
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			cli.Bytes(s.Size),
			s.Aliases,
			status,
		)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing output")
	}
	fmt.Fprintf(w, "\n%s\n", cli.Dim("%d backup(s) in %s", len(snaps), mgr.Dir()))
	return nil
}
