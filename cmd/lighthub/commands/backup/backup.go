// Package backup provides CLI commands for managing state snapshots.
package backup

import (
	"github.com/spf13/cobra"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage state snapshots",
	Long: `Manage snapshots of the gateway state.

A snapshot is a backup container holding the alias table and the settings
document, the same bytes GET /backup serves. Restoring a snapshot replaces
the aliases first and then the settings.

Snapshots are stored in <data_dir>/backups unless backup.dir is set.`,
	Example: `  # List all snapshots
  lighthub backup list

  # Create a snapshot
  lighthub backup create

  # Restore a snapshot, choosing interactively
  lighthub backup restore

  # Restore a specific snapshot without prompting
  lighthub backup restore 20260123T100712 --yes

  # Remove old snapshots, keeping the 3 most recent
  lighthub backup prune --keep 3

  See Also:
    lighthub backup list    - List available snapshots
    lighthub backup restore - Restore from a snapshot
    lighthub backup create  - Create a snapshot
    lighthub backup prune   - Remove old snapshots
    lighthub backup inspect - Describe a container file
    lighthub backup diff    - Show what a restore would change`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
