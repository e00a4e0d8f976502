package commands

import (
	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/alias"
	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/backup"
)

func init() {
	rootCmd.AddCommand(backup.Cmd)
	rootCmd.AddCommand(alias.Cmd)
}
