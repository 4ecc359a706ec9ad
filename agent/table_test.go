package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moby/fdbkit/api"
)

func TestTableApplyIdempotent(t *testing.T) {
	tbl, err := newTable(nil)
	require.NoError(t, err)

	e := entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2")

	changed, err := tbl.Apply(added(e, 1))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tbl.Apply(added(e, 1))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, tbl.Entries("s1"), 1)

	changed, err = tbl.Apply(removed(e, 2))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tbl.Apply(removed(e, 2))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, tbl.Entries("s1"))

	// removing something never seen is a no-op
	changed, err = tbl.Apply(removed(entry("b9", "s1", "a2", "fa:16:3e:00:00:09", "192.168.0.2"), 3))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestTableApplyTombstone(t *testing.T) {
	tbl, err := newTable(nil)
	require.NoError(t, err)

	e := entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2")

	// The removal overtakes the creation.
	_, err = tbl.Apply(removed(e, 6))
	require.NoError(t, err)
	changed, err := tbl.Apply(added(e, 5))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, tbl.Entries("s1"))
}

func TestTableApplyStale(t *testing.T) {
	tbl, err := newTable(nil)
	require.NoError(t, err)

	e1 := entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2")
	e2 := entry("b2", "s1", "a3", "fa:16:3e:00:00:02", "192.168.0.3")

	_, err = tbl.Replace("s1", []*api.ForwardingEntry{e1}, api.Version{Index: 10})
	require.NoError(t, err)
	assert.Equal(t, api.Version{Index: 10}, tbl.Version("s1"))

	// Already covered by the snapshot.
	changed, err := tbl.Apply(removed(e1, 9))
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = tbl.Apply(added(e2, 10))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = tbl.Apply(added(e2, 11))
	require.NoError(t, err)
	assert.True(t, changed)

	entries := tbl.Entries("s1")
	require.Len(t, entries, 2)
	assert.Equal(t, "b1", entries[0].Binding.ID)
	assert.Equal(t, "b2", entries[1].Binding.ID)
}

func TestTableReplace(t *testing.T) {
	tbl, err := newTable(nil)
	require.NoError(t, err)

	e1 := entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2")
	e2 := entry("b2", "s1", "a3", "fa:16:3e:00:00:02", "192.168.0.3")
	e3 := entry("b3", "s2", "a3", "fa:16:3e:00:00:03", "192.168.0.3")

	_, err = tbl.Apply(added(e1, 1))
	require.NoError(t, err)
	_, err = tbl.Apply(added(e3, 2))
	require.NoError(t, err)

	changed, err := tbl.Replace("s1", []*api.ForwardingEntry{e2}, api.Version{Index: 4})
	require.NoError(t, err)
	assert.True(t, changed)

	entries := tbl.Entries("s1")
	require.Len(t, entries, 1)
	assert.Equal(t, "b2", entries[0].Binding.ID)
	// other segments are untouched
	assert.Len(t, tbl.Entries("s2"), 1)

	changed, err = tbl.Replace("s1", []*api.ForwardingEntry{e2}, api.Version{Index: 5})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = tbl.Replace("s1", nil, api.Version{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, tbl.Entries("s1"))
}

func TestTableReplaceKeepsNewerRemovals(t *testing.T) {
	tbl, err := newTable(nil)
	require.NoError(t, err)

	e1 := entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2")
	_, err = tbl.Apply(removed(e1, 8))
	require.NoError(t, err)

	// A snapshot older than the removal still lists the binding.
	_, err = tbl.Replace("s1", []*api.ForwardingEntry{e1}, api.Version{Index: 7})
	require.NoError(t, err)
	assert.Empty(t, tbl.Entries("s1"))
}

func TestTablePersists(t *testing.T) {
	db := openTestDB(t)
	tbl, err := newTable(db)
	require.NoError(t, err)

	e1 := entry("b1", "s1", "a2", "fa:16:3e:00:00:01", "192.168.0.2")
	e2 := entry("b2", "s1", "a3", "fa:16:3e:00:00:02", "192.168.0.3")
	e3 := entry("b3", "s2", "a3", "fa:16:3e:00:00:03", "192.168.0.3")

	_, err = tbl.Replace("s1", []*api.ForwardingEntry{e1, e2}, api.Version{Index: 3})
	require.NoError(t, err)
	_, err = tbl.Apply(removed(e1, 4))
	require.NoError(t, err)
	_, err = tbl.Apply(added(e3, 5))
	require.NoError(t, err)

	reloaded, err := newTable(db)
	require.NoError(t, err)
	assert.Equal(t, tbl.Entries("s1"), reloaded.Entries("s1"))
	assert.Equal(t, tbl.Entries("s2"), reloaded.Entries("s2"))
	assert.Equal(t, api.Version{Index: 3}, reloaded.Version("s1"))
}
