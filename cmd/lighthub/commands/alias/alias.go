// Package alias provides CLI commands for managing group aliases.
package alias

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/store"
)

// Cmd is the root alias command.
var Cmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage group aliases",
	Long: `Manage the alias table mapping names to remote groups.

Each alias names one group on one remote: a device ID, a group number and
a device type. Changes are written to the data directory immediately.
Stop a running daemon first, or use the HTTP API instead, so the daemon
does not overwrite them.`,
	Example: `  # List aliases
  lighthub alias list

  # Add or update an alias
  lighthub alias set kitchen --device-id 0x1234 --group 1 --type rgb_cct

  # Remove an alias
  lighthub alias remove kitchen

  See Also:
    lighthub alias list   - List aliases
    lighthub alias set    - Add or update an alias
    lighthub alias remove - Remove an alias`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// openStore opens the configured store for a command.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	st, err := cli.OpenStore(flags.GetConfig(), logging.FromContext(cmd.Context()))
	if err != nil {
		return nil, errors.NewSystemError(err, "Check that data_dir is readable")
	}
	return st, nil
}
