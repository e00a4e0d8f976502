package alias

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
)

var (
	setDeviceID   string
	setGroup      uint8
	setDeviceType string
)

func init() {
	setCmd.Flags().StringVar(&setDeviceID, "device-id", "", "Remote device ID (decimal or 0x hex)")
	setCmd.Flags().Uint8Var(&setGroup, "group", 0, "Group number on the remote (0 is all groups)")
	setCmd.Flags().StringVarP(&setDeviceType, "type", "t", "",
		"Device type: "+strings.Join(alias.DeviceTypes(), ", "))
	_ = setCmd.MarkFlagRequired("device-id")
	_ = setCmd.MarkFlagRequired("type")
	Cmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Add or update an alias",
	Long: `Add an alias, or point an existing alias at a different group.

An existing alias keeps its numeric ID.`,
	Example: `  # Alias group 1 of remote 0x1234
  lighthub alias set kitchen --device-id 0x1234 --group 1 --type rgb_cct

  See Also:
    lighthub alias list   - List aliases
    lighthub alias remove - Remove an alias`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	return runSetWithWriter(cmd, args[0], cmd.OutOrStdout())
}

func runSetWithWriter(cmd *cobra.Command, name string, w io.Writer) error {
	id, err := parseIdentity(setDeviceID, setGroup, setDeviceType)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	e, err := st.SetAlias(name, id)
	if err != nil {
		if errors.Is(err, alias.ErrInvalidName) {
			return errors.NewUserError(err, "Alias names are 1-64 bytes and cannot contain NUL")
		}
		return errors.Wrapf(err, "setting alias %s", name)
	}
	cli.Success(w, "Alias %s -> 0x%04X group %d (%s)", e.Name, e.DeviceID, e.GroupID, e.DeviceType)
	return nil
}

// parseIdentity validates the flag values of alias set.
func parseIdentity(deviceID string, group uint8, deviceType string) (alias.Identity, error) {
	dev, err := strconv.ParseUint(deviceID, 0, 16)
	if err != nil {
		return alias.Identity{}, errors.NewUserError(
			errors.Newf("invalid device ID %q", deviceID),
			"Device IDs are 0-65535, e.g. 4660 or 0x1234",
		)
	}
	dt, err := alias.ParseDeviceType(deviceType)
	if err != nil {
		return alias.Identity{}, errors.NewUserError(err,
			"Valid types: "+strings.Join(alias.DeviceTypes(), ", "))
	}
	return alias.Identity{DeviceID: uint16(dev), GroupID: group, DeviceType: dt}, nil
}
