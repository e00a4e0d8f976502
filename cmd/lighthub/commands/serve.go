package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
	"github.com/thoreinstein/lighthub/internal/server"
)

var listenAddr string

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (overrides listen)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP daemon",
	Long: `Serve the gateway state over HTTP until interrupted.

GET /backup downloads a backup container and POST /backup restores one.
Aliases and settings are available under /aliases and /settings.`,
	Example: `  # Listen on the configured address
  lighthub serve

  # Listen on a specific address
  lighthub serve --listen 127.0.0.1:9000

  See Also: lighthub backup, lighthub config`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := flags.GetConfig()
	logger := logging.FromContext(cmd.Context())

	st, err := cli.OpenStore(cfg, logger)
	if err != nil {
		return errors.NewSystemError(err, "Check that data_dir is writable")
	}

	sc := cli.ServerConfig(cfg)
	if listenAddr != "" {
		sc.Address = listenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(sc, st, logger).Serve(ctx)
}
