package store

import (
	memdb "github.com/hashicorp/go-memdb"

	"github.com/moby/fdbkit/api"
)

const tableSegment = "segment"

func init() {
	register(ObjectStoreConfig{
		Table: &memdb.TableSchema{
			Name: tableSegment,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: idIndexer{},
				},
			},
		},
		Save: func(tx ReadTx, snapshot *api.StoreSnapshot) error {
			var err error
			snapshot.Segments, err = FindSegments(tx, All)
			return err
		},
		Restore: func(memDBTx *memdb.Txn, snapshot *api.StoreSnapshot) error {
			if _, err := memDBTx.DeleteAll(tableSegment, indexID); err != nil {
				return err
			}
			for _, s := range snapshot.Segments {
				if err := memDBTx.Insert(tableSegment, s.Copy()); err != nil {
					return err
				}
			}
			return nil
		},
		NewStoreAction: func(c api.Event) (api.StoreAction, error) {
			switch v := c.(type) {
			case api.EventCreateSegment:
				return api.StoreAction{Kind: api.StoreActionKindCreate, Segment: v.Segment}, nil
			case api.EventDeleteSegment:
				return api.StoreAction{Kind: api.StoreActionKindRemove, Segment: v.Segment}, nil
			}
			return api.StoreAction{}, errUnknownStoreAction
		},
	})
}

// CreateSegment adds a new segment to the store.
// Returns ErrExist if the ID is already taken.
func CreateSegment(tx Tx, s *api.Segment) error {
	return tx.create(tableSegment, s)
}

// DeleteSegment removes a segment from the store, together with every binding that
// references it, and returns the removed bindings.
// Returns ErrNotExist if the segment doesn't exist.
func DeleteSegment(tx Tx, id string) ([]*api.Binding, error) {
	if tx.lookup(tableSegment, indexID, id) == nil {
		return nil, ErrNotExist
	}
	removed, err := deleteBindings(tx, BySegmentID(id))
	if err != nil {
		return nil, err
	}
	return removed, tx.delete(tableSegment, id)
}

// GetSegment looks up a segment by ID.
// Returns nil if the segment doesn't exist.
func GetSegment(tx ReadTx, id string) *api.Segment {
	s := tx.get(tableSegment, id)
	if s == nil {
		return nil
	}
	return s.(*api.Segment)
}

// FindSegments selects a set of segments and returns them.
func FindSegments(tx ReadTx, by By) ([]*api.Segment, error) {
	checkType := func(by By) error {
		switch by.(type) {
		case byIDPrefix:
			return nil
		default:
			return ErrInvalidFindBy
		}
	}

	list := []*api.Segment{}
	appendResult := func(o api.StoreObject) {
		list = append(list, o.(*api.Segment))
	}

	err := tx.find(tableSegment, by, checkType, appendResult)
	return list, err
}
