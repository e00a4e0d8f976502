package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/thoreinstein/lighthub/internal/alias"
	"github.com/thoreinstein/lighthub/internal/errors"
	"github.com/thoreinstein/lighthub/internal/settings"
)

// Alias change kinds.
const (
	AliasAdded   = "added"
	AliasRemoved = "removed"
	AliasChanged = "changed"
)

// AliasChange describes one alias that differs between two states.
type AliasChange struct {
	Name   string          `json:"name" yaml:"name" toml:"name"`
	Change string          `json:"change" yaml:"change" toml:"change"`
	From   *alias.Identity `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty"`
	To     *alias.Identity `json:"to,omitempty" yaml:"to,omitempty" toml:"to,omitempty"`
}

// Changes is the difference between two states. SettingsPatch is the
// merge patch that turns the old settings into the new ones.
type Changes struct {
	Aliases       []AliasChange   `json:"aliases" yaml:"aliases" toml:"aliases"`
	SettingsPatch json.RawMessage `json:"settings_patch" yaml:"-" toml:"-"`

	settingsLines []diffmatchpatch.Diff
}

// Empty reports whether the states are identical.
func (c *Changes) Empty() bool {
	return len(c.Aliases) == 0 && string(c.SettingsPatch) == "{}"
}

// Diff compares two states. Credentials are redacted in the line diff but
// present in the patch.
func Diff(from, to *State) (*Changes, error) {
	patch, err := settings.MergeDiff(from.Settings, to.Settings)
	if err != nil {
		return nil, err
	}

	a, err := json.MarshalIndent(from.Settings.Redacted(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings")
	}
	b, err := json.MarshalIndent(to.Settings.Redacted(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling settings")
	}

	return &Changes{
		Aliases:       diffAliases(from.Aliases, to.Aliases),
		SettingsPatch: patch,
		settingsLines: lineDiff(string(a)+"\n", string(b)+"\n"),
	}, nil
}

func diffAliases(from, to *alias.Table) []AliasChange {
	names := append(from.Names(), to.Names()...)
	slices.Sort(names)
	names = slices.Compact(names)

	changes := []AliasChange{}
	for _, name := range names {
		old, inFrom := from.Get(name)
		cur, inTo := to.Get(name)
		switch {
		case inFrom && !inTo:
			changes = append(changes, AliasChange{Name: name, Change: AliasRemoved, From: &old.Identity})
		case !inFrom && inTo:
			changes = append(changes, AliasChange{Name: name, Change: AliasAdded, To: &cur.Identity})
		case old.Identity != cur.Identity:
			changes = append(changes, AliasChange{Name: name, Change: AliasChanged, From: &old.Identity, To: &cur.Identity})
		}
	}
	return changes
}

// lineDiff runs a line-mode diff: lines are mapped to runes, diffed, then
// mapped back.
func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// RenderDiff writes c to w. The text format prints alias changes and a
// unified-style settings diff; json prints the aliases and the patch.
func RenderDiff(w io.Writer, c *Changes, format string) error {
	switch format {
	case FormatText, "":
		renderDiffText(w, c)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(c), "encoding json")
	default:
		return errors.WithHint(
			errors.Wrapf(ErrUnknownFormat, "%q", format),
			fmt.Sprintf("Valid formats: %v", []string{FormatText, FormatJSON}),
		)
	}
}

func renderDiffText(w io.Writer, c *Changes) {
	if c.Empty() {
		fmt.Fprintln(w, "No differences")
		return
	}

	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()

	if len(c.Aliases) > 0 {
		fmt.Fprintln(w, "Aliases:")
		for _, ch := range c.Aliases {
			switch ch.Change {
			case AliasAdded:
				fmt.Fprintln(w, add("+ "+ch.Name+" "+identity(ch.To)))
			case AliasRemoved:
				fmt.Fprintln(w, del("- "+ch.Name+" "+identity(ch.From)))
			default:
				fmt.Fprintf(w, "~ %s %s -> %s\n", ch.Name, identity(ch.From), identity(ch.To))
			}
		}
	}

	if string(c.SettingsPatch) == "{}" {
		return
	}
	if len(c.Aliases) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Settings:")
	for _, d := range c.settingsLines {
		prefix := "  "
		paint := fmt.Sprint
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+ ", add
		case diffmatchpatch.DiffDelete:
			prefix, paint = "- ", del
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprint(w, paint(prefix+strings.TrimSuffix(line, "\n")), "\n")
		}
	}
}

func identity(id *alias.Identity) string {
	return fmt.Sprintf("0x%04X group %d (%s)", id.DeviceID, id.GroupID, id.DeviceType)
}
