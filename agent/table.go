package agent

import (
	"sort"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/moby/fdbkit/api"
)

// segmentTable is the local view of one segment.
type segmentTable struct {
	// version is the store version of the last resync. Changes at or below
	// it are already reflected.
	version api.Version
	entries map[string]*api.ForwardingEntry
	// removed remembers the version a binding was removed at, so an add
	// delivered out of order does not resurrect it.
	removed map[string]api.Version
}

func newSegmentTable() *segmentTable {
	return &segmentTable{
		entries: make(map[string]*api.ForwardingEntry),
		removed: make(map[string]api.Version),
	}
}

// table is the agent's forwarding database. Every change is written through
// to db when one is configured.
type table struct {
	mu       sync.RWMutex
	db       *bolt.DB
	segments map[string]*segmentTable
}

// newTable loads the table persisted in db. db may be nil.
func newTable(db *bolt.DB) (*table, error) {
	t := &table{
		db:       db,
		segments: make(map[string]*segmentTable),
	}
	if db == nil {
		return t, nil
	}

	if err := InitDB(db); err != nil {
		return nil, err
	}
	err := db.View(func(tx *bolt.Tx) error {
		for _, segmentID := range GetSegments(tx) {
			entries, err := GetEntries(tx, segmentID)
			if err != nil {
				return err
			}
			seg := newSegmentTable()
			seg.version = GetSegmentVersion(tx, segmentID)
			for _, e := range entries {
				seg.entries[e.Binding.ID] = e
			}
			t.segments[segmentID] = seg
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *table) segment(segmentID string) *segmentTable {
	seg, ok := t.segments[segmentID]
	if !ok {
		seg = newSegmentTable()
		t.segments[segmentID] = seg
	}
	return seg
}

func (t *table) update(fn func(tx *bolt.Tx) error) error {
	if t.db == nil {
		return nil
	}
	return t.db.Update(fn)
}

// Apply folds a pushed change set into the table and reports whether the
// table changed. Adding a known binding and removing an unknown one are
// no-ops. Changes already covered by the segment's last resync are ignored.
func (t *table) Apply(cs *api.ChangeSet) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seg := t.segment(cs.SegmentID)
	if cs.Version.Index != 0 && cs.Version.Index <= seg.version.Index {
		return false, nil
	}

	switch cs.Kind {
	case api.ChangeAdded:
		if cs.Entry == nil || cs.Entry.Binding == nil || cs.Entry.Location == nil {
			return false, nil
		}
		if _, ok := seg.entries[cs.BindingID]; ok {
			return false, nil
		}
		if v, ok := seg.removed[cs.BindingID]; ok && cs.Version.Index <= v.Index {
			return false, nil
		}
		entry := cs.Entry.Copy()
		if err := t.update(func(tx *bolt.Tx) error {
			return PutEntry(tx, entry)
		}); err != nil {
			return false, err
		}
		seg.entries[cs.BindingID] = entry
		return true, nil
	case api.ChangeRemoved:
		seg.removed[cs.BindingID] = cs.Version
		if _, ok := seg.entries[cs.BindingID]; !ok {
			return false, nil
		}
		if err := t.update(func(tx *bolt.Tx) error {
			return DeleteEntry(tx, cs.SegmentID, cs.BindingID)
		}); err != nil {
			return false, err
		}
		delete(seg.entries, cs.BindingID)
		return true, nil
	}
	return false, nil
}

// Replace makes the segment's view equal to an authoritative snapshot taken
// at version, and reports whether the table changed.
func (t *table) Replace(segmentID string, entries []*api.ForwardingEntry, version api.Version) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.segment(segmentID)
	seg := newSegmentTable()
	seg.version = version
	for _, e := range entries {
		seg.entries[e.Binding.ID] = e.Copy()
	}
	// Removals newer than the snapshot still apply.
	for id, v := range old.removed {
		if v.Index > version.Index {
			seg.removed[id] = v
			delete(seg.entries, id)
		}
	}

	changed := len(old.entries) != len(seg.entries)
	if !changed {
		for id := range seg.entries {
			if _, ok := old.entries[id]; !ok {
				changed = true
				break
			}
		}
	}

	if err := t.update(func(tx *bolt.Tx) error {
		if err := DeleteSegment(tx, segmentID); err != nil {
			return err
		}
		if err := PutSegmentVersion(tx, segmentID, version); err != nil {
			return err
		}
		for _, e := range seg.entries {
			if err := PutEntry(tx, e); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return false, err
	}

	t.segments[segmentID] = seg
	return changed, nil
}

// Version returns the store version of the segment's last resync.
func (t *table) Version(segmentID string) api.Version {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if seg, ok := t.segments[segmentID]; ok {
		return seg.version
	}
	return api.Version{}
}

// Entries returns the entries of a segment ordered by binding ID.
func (t *table) Entries(segmentID string) []*api.ForwardingEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seg, ok := t.segments[segmentID]
	if !ok {
		return nil
	}
	entries := make([]*api.ForwardingEntry, 0, len(seg.entries))
	for _, e := range seg.entries {
		entries = append(entries, e.Copy())
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding.ID < entries[j].Binding.ID
	})
	return entries
}
