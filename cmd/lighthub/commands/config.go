package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lighthub/internal/config"
	"github.com/thoreinstein/lighthub/internal/editor"
	"github.com/thoreinstein/lighthub/internal/errors"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lighthub configuration",
	Long: `Manage lighthub configuration stored in config.yaml.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  lighthub config

  # Get a specific value
  lighthub config get backup.retention

  # Set a value
  lighthub config set listen 127.0.0.1:9000

See Also: lighthub serve, lighthub backup`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get a single configuration value by key. Nested keys use dot notation.`,
	Example: `  # Get the listen address
  lighthub config get listen

See Also: lighthub config set, lighthub config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

The resulting configuration is validated before it is written.`,
	Example: `  # Keep ten snapshots
  lighthub config set backup.retention 10

See Also: lighthub config get, lighthub config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  # List all configuration
  lighthub config list

See Also: lighthub config get, lighthub config set`,
	RunE: runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your editor and validate it on exit.

Uses $EDITOR, then $VISUAL, then nano or vi. If no configuration file
exists, one holding the current values is written first.`,
	Example: `  # Open config in default editor
  lighthub config edit

  # Open with a specific editor
  EDITOR="code --wait" lighthub config edit

See Also: lighthub config list, lighthub doctor`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	return runConfigEditWithStreams(cmd, editor.Streams{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})
}

func runConfigEditWithStreams(cmd *cobra.Command, s editor.Streams) error {
	path := config.Path()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(); err != nil {
			return err
		}
	}

	fmt.Fprintf(s.Out, "Location: %s\n", path)
	if err := editor.Open(cmd.Context(), path, s); err != nil {
		return errors.NewUserError(err, "Set $EDITOR to your preferred editor")
	}

	if _, err := config.Load(path); err != nil {
		return errors.NewConfigError(err)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	return runConfigGetWithWriter(cmd.OutOrStdout(), args[0])
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	if !config.ValidKey(key) {
		return unknownKeyError(key)
	}
	fmt.Fprintln(w, viper.GetString(key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	return runConfigSetWithWriter(cmd.OutOrStdout(), args[0], args[1])
}

func runConfigSetWithWriter(w io.Writer, key, value string) error {
	if !config.ValidKey(key) {
		return unknownKeyError(key)
	}

	parsed, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	prev := viper.Get(key)
	viper.Set(key, parsed)

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		viper.Set(key, prev)
		return errors.Wrap(err, "unmarshaling config")
	}
	if errs := config.Validate(&cfg); len(errs) > 0 {
		viper.Set(key, prev)
		return errors.NewUserError(errs[0], "Fix the value and try again")
	}

	if err := config.Save(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %s = %v\n", key, parsed)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	return runConfigListWithWriter(cmd.OutOrStdout())
}

func runConfigListWithWriter(w io.Writer) error {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "unmarshaling config")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing output")
}

// parseConfigValue converts value to the type stored under key.
func parseConfigValue(key, value string) (any, error) {
	switch key {
	case config.KeyWriteBuffer, config.KeyRestoreBuffer, config.KeyRetention:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.NewUserError(errors.Newf("%s must be an integer, got %q", key, value), "")
		}
		return n, nil
	case config.KeyMaxUpload:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.NewUserError(errors.Newf("%s must be an integer, got %q", key, value), "")
		}
		return n, nil
	default:
		return value, nil
	}
}

func unknownKeyError(key string) error {
	return errors.NewUserError(
		errors.Newf("unknown config key %q", key),
		"Valid keys: "+strings.Join(config.Keys(), ", "),
	)
}
