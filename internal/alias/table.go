package alias

import (
	"maps"
	"slices"

	"github.com/thoreinstein/lighthub/internal/errors"
)

// Table maps alias names to group identities. It is not safe for
// concurrent use; the owner serializes access.
type Table struct {
	entries map[string]Entry
	nextID  uint32
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[string]Entry), nextID: 1}
}

// Len returns the number of aliases.
func (t *Table) Len() int {
	return len(t.entries)
}

// Get returns the entry for name.
func (t *Table) Get(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Set creates or updates the alias name. An existing alias keeps its ID.
func (t *Table) Set(name string, id Identity) (Entry, error) {
	if err := ValidateName(name); err != nil {
		return Entry{}, err
	}
	if !id.DeviceType.Valid() {
		return Entry{}, errors.Wrapf(ErrUnknownDeviceType, "tag %d", uint8(id.DeviceType))
	}

	e, ok := t.entries[name]
	if !ok {
		e = Entry{ID: t.nextID, Name: name}
		t.nextID++
	}
	e.Identity = id
	t.entries[name] = e
	return e, nil
}

// put inserts a decoded entry verbatim, keeping nextID past every ID seen.
func (t *Table) put(e Entry) {
	t.entries[e.Name] = e
	if e.ID >= t.nextID {
		t.nextID = e.ID + 1
	}
}

// Delete removes name. It returns ErrNotFound when the alias is absent.
func (t *Table) Delete(name string) error {
	if _, ok := t.entries[name]; !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	delete(t.entries, name)
	return nil
}

// Names returns all alias names in ascending order.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// Entries returns all entries ordered by name.
func (t *Table) Entries() []Entry {
	names := t.Names()
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = t.entries[n]
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	return &Table{entries: maps.Clone(t.entries), nextID: t.nextID}
}

// Equal reports whether both tables hold the same entries.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return maps.Equal(t.entries, other.entries)
}
