package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ErrUnknownFormat is returned by Render for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the formats accepted by Render.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatTOML}
}

// Render writes rep to w in the given format.
func Render(w io.Writer, rep *Report, format string) error {
	switch format {
	case FormatText, "":
		return renderText(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(rep), "encoding json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(rep), "encoding toml")
	default:
		return errors.WithHint(
			errors.Wrapf(ErrUnknownFormat, "%q", format),
			fmt.Sprintf("Valid formats: %v", Formats()),
		)
	}
}

// ValidFormat reports whether Render accepts format.
func ValidFormat(format string) bool {
	return slices.Contains(Formats(), format)
}

func renderText(w io.Writer, rep *Report) error {
	status := "valid"
	if !rep.Valid {
		status = "invalid: " + rep.Problem
	}
	fmt.Fprintf(w, "Header:   %s (version %d)\n", rep.Magic, rep.Version)
	fmt.Fprintf(w, "Status:   %s\n", status)
	fmt.Fprintf(w, "Settings: %d bytes\n", rep.SettingsBytes)
	fmt.Fprintf(w, "Aliases:  %d\n", len(rep.Aliases))
	if len(rep.Aliases) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tALIAS\tDEVICE\tGROUP\tTYPE")
	for _, e := range rep.Aliases {
		fmt.Fprintf(tw, "  %d\t%s\t0x%04X\t%d\t%s\n", e.ID, e.Name, e.DeviceID, e.GroupID, e.DeviceType)
	}
	return errors.Wrap(tw.Flush(), "writing report")
}
