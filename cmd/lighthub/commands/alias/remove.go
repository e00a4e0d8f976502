package alias

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/cli/prompt"
	"github.com/thoreinstein/lighthub/internal/errors"
)

var removeYes bool

// newSelector is replaced in tests.
var newSelector = prompt.NewSelector

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip the confirmation prompt")
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove [name]",
	Aliases: []string{"rm"},
	Short:   "Remove an alias",
	Long: `Remove an alias from the table.

Without a name, you choose the alias to remove.`,
	Example: `  # Remove an alias
  lighthub alias remove kitchen --yes

  # Choose the alias interactively
  lighthub alias remove

  See Also:
    lighthub alias list - List aliases`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	return runRemoveWithWriter(cmd, args, cmd.OutOrStdout())
}

func runRemoveWithWriter(cmd *cobra.Command, args []string, w io.Writer) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	sel := newSelector()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		entries := st.Aliases().Entries()
		if len(entries) == 0 {
			fmt.Fprintln(w, "No aliases defined")
			return nil
		}
		labels := make([]string, len(entries))
		for i, e := range entries {
			labels[i] = e.Name
		}
		idx, err := sel.Select("Select an alias to remove", labels, func(i int) string {
			e := entries[i]
			return fmt.Sprintf("alias:  %s\nid:     %d\ndevice: 0x%04X\ngroup:  %d\ntype:   %s\n",
				e.Name, e.ID, e.DeviceID, e.GroupID, e.DeviceType)
		})
		if err != nil {
			return err
		}
		name = entries[idx].Name
	}

	if !removeYes {
		ok, err := sel.Confirm(fmt.Sprintf("Remove alias %s?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Removal cancelled")
			return nil
		}
	}

	if err := st.DeleteAlias(name); err != nil {
		if errors.Is(err, alias.ErrNotFound) {
			return errors.NewUserError(err, "Run 'lighthub alias list' to see defined aliases")
		}
		return errors.Wrapf(err, "removing alias %s", name)
	}
	cli.Success(w, "Removed alias %s", name)
	return nil
}
