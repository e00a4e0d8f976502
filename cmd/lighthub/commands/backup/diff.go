package backup

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/inspect"
	"github.com/thoreinstein/lighthub/internal/logging"
)

var diffFormat string

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", inspect.FormatText, "Output format: text, json")
	Cmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff <id|path> [<id|path>]",
	Short: "Show what a restore would change",
	Long: `Compare a snapshot or container file with the current state, or two
containers with each other. Nothing is restored or modified.

With one argument the output shows what restoring it would change. With
two it shows the changes from the first to the second.

Passwords are masked in the text output. The json output carries the
settings change as a merge patch that PATCH /settings accepts.`,
	Example: `  # What would restoring this snapshot change?
  lighthub backup diff 20260123T100712

  # Compare two snapshots
  lighthub backup diff 20260120T080000 20260123T100712

  # Settings change as a merge patch
  lighthub backup diff ./gateway.bin --format json

  See Also:
    lighthub backup inspect - Describe a container file
    lighthub backup restore - Restore from a snapshot`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	return runDiffWithWriter(cmd, cmd.OutOrStdout(), args)
}

func runDiffWithWriter(cmd *cobra.Command, w io.Writer, args []string) error {
	if diffFormat != inspect.FormatText && diffFormat != inspect.FormatJSON {
		return errors.NewUserError(errors.Newf("unknown format %q", diffFormat), "Valid formats: text, json")
	}

	var from *inspect.State
	if len(args) == 2 {
		st, err := readState(cmd, args[0])
		if err != nil {
			return err
		}
		from = st
	} else {
		st, err := cli.OpenStore(flags.GetConfig(), logging.FromContext(cmd.Context()))
		if err != nil {
			return errors.NewSystemError(err, "Check that the data directory is readable")
		}
		from = &inspect.State{Aliases: st.Aliases(), Settings: st.Settings()}
	}

	to, err := readState(cmd, args[len(args)-1])
	if err != nil {
		return err
	}

	changes, err := inspect.Diff(from, to)
	if err != nil {
		return err
	}
	return inspect.RenderDiff(w, changes, diffFormat)
}

func readState(cmd *cobra.Command, target string) (*inspect.State, error) {
	path, err := resolveContainer(cmd, target)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewUserError(err, "Pass a snapshot ID from 'lighthub backup list' or a container path")
	}
	defer f.Close()

	st, err := inspect.ReadState(f)
	if err != nil {
		return nil, errors.NewUserError(err, "Run 'lighthub backup inspect "+target+"' for details")
	}
	return st, nil
}
