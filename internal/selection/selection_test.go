package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleIndividual(t *testing.T) {
	m := New()
	assert.Equal(t, Unselected, m.State("f1"))

	require.True(t, m.Toggle("f1"))
	assert.Equal(t, Selected, m.State("f1"))

	require.True(t, m.Toggle("f1"))
	assert.Equal(t, Unselected, m.State("f1"))
}

func TestToggleGroupAtomic(t *testing.T) {
	m := New()
	m.SetGrouping(map[string][]string{
		"INV-3": {"a", "b", "c"},
	})

	require.True(t, m.Toggle("b"))
	assert.Equal(t, Selected, m.State("a"))
	assert.Equal(t, Selected, m.State("b"))
	assert.Equal(t, Selected, m.State("c"))

	require.True(t, m.Toggle("a"))
	assert.Equal(t, Unselected, m.State("a"))
	assert.Equal(t, Unselected, m.State("b"))
	assert.Equal(t, Unselected, m.State("c"))
}

func TestToggleGroupMajorityRule(t *testing.T) {
	m := New()
	m.SetGrouping(map[string][]string{
		"INV-3": {"a", "b", "c"},
	})

	// One of three selected: minority selected, toggle selects the rest.
	m.Toggle("a") // all selected
	m.Deselect("a")
	m.selected["a"] = struct{}{} // only a selected

	require.True(t, m.Toggle("b"))
	assert.Equal(t, []string{"a", "b", "c"}, m.SelectedIDs())

	// Two of three selected: majority selected, toggle deselects all.
	delete(m.selected, "c")
	require.True(t, m.Toggle("c"))
	assert.Empty(t, m.SelectedIDs())
}

func TestSingletonGroupsIgnored(t *testing.T) {
	m := New()
	m.SetGrouping(map[string][]string{
		"INV-3": {"a"},
		"INV-4": {"b", "c"},
	})

	m.Toggle("a")
	assert.Equal(t, Unselected, m.State("b"), "singleton group must not link features")
	assert.Equal(t, Selected, m.State("a"))
}

func TestCommittedImmutable(t *testing.T) {
	m := New()
	m.LoadCommitted([]string{"f1"})

	assert.False(t, m.Toggle("f1"))
	assert.Equal(t, Committed, m.State("f1"))

	assert.False(t, m.Deselect("f1"))
	assert.Equal(t, Committed, m.State("f1"))
}

func TestGroupToggleSkipsCommittedMembers(t *testing.T) {
	m := New()
	m.SetGrouping(map[string][]string{
		"INV-3": {"a", "b", "c"},
	})
	m.LoadCommitted([]string{"b"})

	require.True(t, m.Toggle("a"))
	assert.Equal(t, Selected, m.State("a"))
	assert.Equal(t, Committed, m.State("b"))
	assert.Equal(t, Selected, m.State("c"))

	require.True(t, m.Toggle("a"))
	assert.Equal(t, Unselected, m.State("a"))
	assert.Equal(t, Committed, m.State("b"))
	assert.Equal(t, Unselected, m.State("c"))
}

func TestDeselectGroupWide(t *testing.T) {
	m := New()
	m.SetGrouping(map[string][]string{
		"INV-3": {"a", "b"},
	})
	m.Toggle("a")
	require.Equal(t, 2, m.SelectedCount())

	require.True(t, m.Deselect("b"))
	assert.Zero(t, m.SelectedCount())

	// Deselecting an unselected feature is a no-op.
	assert.False(t, m.Deselect("b"))
}

func TestCommit(t *testing.T) {
	m := New()
	m.Toggle("f2")
	m.Toggle("f1")

	moved := m.Commit()
	assert.Equal(t, []string{"f1", "f2"}, moved, "commit returns moved ids sorted")
	assert.Zero(t, m.SelectedCount())
	assert.Equal(t, Committed, m.State("f1"))
	assert.Equal(t, Committed, m.State("f2"))

	// Nothing selected: commit is empty, committed set unchanged.
	assert.Empty(t, m.Commit())
	assert.Equal(t, []string{"f1", "f2"}, m.CommittedIDs())
}

func TestLoadCommittedClearsPendingSelection(t *testing.T) {
	m := New()
	m.Toggle("f1")
	m.LoadCommitted([]string{"f1"})
	assert.Zero(t, m.SelectedCount())
	assert.Equal(t, Committed, m.State("f1"))
}

func TestSetGroupingReplacesPrevious(t *testing.T) {
	m := New()
	m.SetGrouping(map[string][]string{"INV-3": {"a", "b"}})
	m.SetGrouping(map[string][]string{"INV-4": {"c", "d"}})

	m.Toggle("a")
	assert.Equal(t, Unselected, m.State("b"), "stale grouping applied")
}
