package alias

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List aliases",
	Long:  `List all aliases in name order.`,
	Example: `  # List aliases
  lighthub alias list

  # Output as JSON
  lighthub alias list --json

  See Also:
    lighthub alias set - Add or update an alias`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd, cmd.OutOrStdout())
}

func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	entries := st.Aliases().Entries()

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(entries), "encoding output")
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No aliases defined")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDEVICE\tGROUP\tTYPE\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t0x%04X\t%d\t%s\t%s\n",
			cli.ID(e.Name), e.DeviceID, e.GroupID, e.DeviceType, cli.Dim("%d", e.ID))
	}
	return errors.Wrap(tw.Flush(), "writing output")
}
