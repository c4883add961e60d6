package core

import (
	"maps"
	"slices"
)

// A grid feature mode. Modes are the boolean switches that change how the
// virtualization engine lays out slots, e.g. whether group footers occupy
// slots or whether a new-item placeholder row is appended.
type Mode struct {
	Name    string
	Value   int
	Default bool
}

func entryForMode(name string, value int, defaultMode bool) Mode {
	return Mode{
		Name:    name,
		Value:   value,
		Default: defaultMode,
	}
}

var (
	// Every data row carries a details area below its cells.
	ModeRowDetailsVisible = entryForMode("row_details_visible", 1, false)

	// Each group gets a footer slot after its last item.
	ModeShowGroupFooters = entryForMode("show_group_footers", 2, false)

	// A new-item placeholder row is appended after the last data row.
	ModeCanUserAddRows = entryForMode("can_user_add_rows", 3, false)

	// Rows cannot enter edit mode.
	ModeReadOnly = entryForMode("read_only", 4, false)

	// The full list of available entries.
	entries = []Mode{
		ModeRowDetailsVisible,
		ModeShowGroupFooters,
		ModeCanUserAddRows,
		ModeReadOnly,
	}
)

// A Packed map of all settable modes with their defaults. This shouldn't be
// used directly but rather through the ModeState struct
var ModePacked = func() map[Mode]bool {
	packed := make(map[Mode]bool, len(entries))
	for _, m := range entries {
		packed[m] = m.Default
	}
	return packed
}()

type ModeState struct {
	// The values of current modes
	values map[Mode]bool
	// The default values of modes
	defaults map[Mode]bool
}

func NewModeState(values map[Mode]bool, def map[Mode]bool) *ModeState {
	state := &ModeState{
		defaults: maps.Clone(def),
		values:   maps.Clone(values),
	}
	if values == nil {
		state.values = make(map[Mode]bool)
	}
	if def == nil {
		state.defaults = make(map[Mode]bool)
	}
	return state
}

func (s *ModeState) Set(m Mode, value bool) {
	s.values[m] = value
}

func (s *ModeState) Get(m Mode) bool {
	return s.values[m]
}

func (s *ModeState) Reset() {
	s.values = make(map[Mode]bool)
	maps.Copy(s.values, s.defaults)
}

func ModeFromInt(input int) *Mode {
	for entry := range slices.Values(entries) {
		if entry.Value == input {
			return &entry
		}
	}
	return nil
}

func ModeFromName(name string) *Mode {
	for entry := range slices.Values(entries) {
		if entry.Name == name {
			return &entry
		}
	}
	return nil
}
