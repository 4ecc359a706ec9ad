package api

import "fmt"

// ChangeKind is the direction of a forwarding database change.
type ChangeKind int

const (
	// ChangeAdded announces a new binding.
	ChangeAdded ChangeKind = iota + 1
	// ChangeRemoved announces a binding was deleted.
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// ChangeSet is a notification pushed to agents hosting a segment. Added
// changes carry the full entry. Removed changes only carry identifiers.
//
// Version is the store version the change was committed at. Agents use it to
// discard notifications already reflected in a later resync.
type ChangeSet struct {
	Kind      ChangeKind       `json:"kind"`
	Entry     *ForwardingEntry `json:"entry,omitempty"`
	BindingID string           `json:"binding_id"`
	SegmentID string           `json:"segment_id"`
	Version   Version          `json:"version"`
}

// BindingAdded builds the notification for a newly committed binding.
func BindingAdded(entry *ForwardingEntry, version Version) *ChangeSet {
	return &ChangeSet{
		Kind:      ChangeAdded,
		Entry:     entry,
		BindingID: entry.Binding.ID,
		SegmentID: entry.Binding.SegmentID,
		Version:   version,
	}
}

// BindingRemoved builds the notification for a deleted binding.
func BindingRemoved(b *Binding, version Version) *ChangeSet {
	return &ChangeSet{
		Kind:      ChangeRemoved,
		BindingID: b.ID,
		SegmentID: b.SegmentID,
		Version:   version,
	}
}
