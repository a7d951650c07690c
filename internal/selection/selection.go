// Package selection tracks per-feature selection and commit state, and the
// grouped-toggle rule for small features sharing a label.
package selection

import "sort"

// State is the selection lifecycle of one feature. Committed is terminal:
// once a feature is committed, toggles and deselects leave it untouched.
type State int

const (
	Unselected State = iota
	Selected
	Committed
)

// Machine owns selection state. It is mutated only from the UI update loop.
type Machine struct {
	selected  map[string]struct{}
	committed map[string]struct{}
	memberOf  map[string][]string // feature → its same-label small group
}

// New creates an empty machine.
func New() *Machine {
	return &Machine{
		selected:  make(map[string]struct{}),
		committed: make(map[string]struct{}),
		memberOf:  make(map[string][]string),
	}
}

// SetGrouping installs the small-feature label groups from the resolver.
// Features absent from every group (large features, unmatched features)
// toggle individually.
func (m *Machine) SetGrouping(groups map[string][]string) {
	m.memberOf = make(map[string][]string)
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for _, id := range members {
			m.memberOf[id] = members
		}
	}
}

// LoadCommitted seeds the committed set, e.g. from the day store at session
// start. Committed identifiers are set-additive.
func (m *Machine) LoadCommitted(ids []string) {
	for _, id := range ids {
		m.committed[id] = struct{}{}
		delete(m.selected, id)
	}
}

// State returns the feature's current state.
func (m *Machine) State(id string) State {
	if _, ok := m.committed[id]; ok {
		return Committed
	}
	if _, ok := m.selected[id]; ok {
		return Selected
	}
	return Unselected
}

func (m *Machine) group(id string) []string {
	if members, ok := m.memberOf[id]; ok {
		return members
	}
	return []string{id}
}

// Toggle flips the feature between unselected and selected. For a member of
// a small-feature group the whole group flips atomically: the majority state
// before the toggle decides the direction. Committed features never change.
// It reports whether anything changed.
func (m *Machine) Toggle(id string) bool {
	if m.State(id) == Committed {
		return false
	}
	members := m.group(id)

	sel := 0
	for _, mid := range members {
		if m.State(mid) == Selected {
			sel++
		}
	}
	makeSelected := sel*2 < len(members)

	changed := false
	for _, mid := range members {
		switch m.State(mid) {
		case Committed:
			continue
		case Selected:
			if !makeSelected {
				delete(m.selected, mid)
				changed = true
			}
		case Unselected:
			if makeSelected {
				m.selected[mid] = struct{}{}
				changed = true
			}
		}
	}
	return changed
}

// Deselect forces selected→unselected for the feature (group-wide for small
// groups). Committed features are untouched. Reports whether anything
// changed.
func (m *Machine) Deselect(id string) bool {
	changed := false
	for _, mid := range m.group(id) {
		if m.State(mid) == Selected {
			delete(m.selected, mid)
			changed = true
		}
	}
	return changed
}

// Commit moves the whole selected set to committed and clears it, returning
// the newly committed identifiers sorted.
func (m *Machine) Commit() []string {
	moved := make([]string, 0, len(m.selected))
	for id := range m.selected {
		m.committed[id] = struct{}{}
		moved = append(moved, id)
	}
	m.selected = make(map[string]struct{})
	sort.Strings(moved)
	return moved
}

// SelectedIDs returns the pending selection, sorted.
func (m *Machine) SelectedIDs() []string { return sortedKeys(m.selected) }

// CommittedIDs returns the committed set, sorted.
func (m *Machine) CommittedIDs() []string { return sortedKeys(m.committed) }

// SelectedCount returns the number of pending-selected features.
func (m *Machine) SelectedCount() int { return len(m.selected) }

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
