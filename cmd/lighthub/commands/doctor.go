package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands/flags"
	"github.com/thoreinstein/lighthub/internal/cli"
	"github.com/thoreinstein/lighthub/internal/config"
	"github.com/thoreinstein/lighthub/internal/doctor"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/logging"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false, "show passed checks too")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "repair fixable permission issues")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose installation issues",
	Long: `Run diagnostic checks on the lighthub configuration and data directory.

Checks that the config loads, that the settings file and alias table load,
that files holding passwords are private, and that snapshots are restorable.

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Show problems
  lighthub doctor

  # Show every check and repair permissions
  lighthub doctor --all --fix

  See Also: lighthub config, lighthub backup list`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// errDoctorWarnings and errDoctorErrors carry the doctor exit codes.
var (
	errDoctorWarnings = errors.New("warnings found")
	errDoctorErrors   = errors.New("errors found")
)

func runDoctor(cmd *cobra.Command, _ []string) error {
	return runDoctorWithWriter(cmd, cmd.OutOrStdout())
}

func runDoctorWithWriter(cmd *cobra.Command, w io.Writer) error {
	cfg := flags.GetConfig()
	if cfg == nil {
		// The config did not validate; check what it names anyway.
		cfg = &config.Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			return errors.Wrap(err, "unmarshaling config")
		}
	}
	logger := logging.FromContext(cmd.Context())

	runner := doctor.NewRunner(
		doctor.NewConfigCheck(config.Path(), configLoadErr),
		doctor.NewStateCheck(cfg.DataDir),
		doctor.NewPermissionCheck(cfg.DataDir, cfg.SnapshotDir()),
		doctor.NewSnapshotCheck(cli.NewManager(cfg, logger), cfg.Backup.Retention),
	)
	report := runner.Run()

	var fixes []doctor.FixResult
	if doctorFix {
		fixes = runner.Fix()
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := struct {
			*doctor.Report
			Fixes []doctor.FixResult `json:"fixes,omitempty"`
		}{report, fixes}
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else {
		outputDoctorText(w, report, fixes)
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			cli.Success(w, "fixed %s: %s", f.Path, f.Description)
		} else {
			cli.Warn(w, "could not fix %s: %s", f.Path, f.Description)
		}
	}

	for _, result := range report.Results {
		if !doctorVerbose && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && result.Status != doctor.SeverityPass {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
