package store

import (
	"fmt"
	"strings"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/moby/fdbkit/api"
)

const tableBinding = "binding"

func init() {
	register(ObjectStoreConfig{
		Table: &memdb.TableSchema{
			Name: tableBinding,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: idIndexer{},
				},
				indexPortID: {
					Name:    indexPortID,
					Indexer: bindingFieldIndexer{field: bindingPortID},
				},
				indexSegment: {
					Name:    indexSegment,
					Indexer: bindingFieldIndexer{field: bindingSegmentID},
				},
				indexAgentID: {
					Name:    indexAgentID,
					Indexer: bindingFieldIndexer{field: bindingAgentID},
				},
				indexTriple: {
					Name:    indexTriple,
					Indexer: bindingIndexerByTriple{},
				},
			},
		},
		Save: func(tx ReadTx, snapshot *api.StoreSnapshot) error {
			var err error
			snapshot.Bindings, err = FindBindings(tx, All)
			return err
		},
		Restore: func(memDBTx *memdb.Txn, snapshot *api.StoreSnapshot) error {
			if _, err := memDBTx.DeleteAll(tableBinding, indexID); err != nil {
				return err
			}
			for _, b := range snapshot.Bindings {
				if err := memDBTx.Insert(tableBinding, b.Copy()); err != nil {
					return err
				}
			}
			return nil
		},
		NewStoreAction: func(c api.Event) (api.StoreAction, error) {
			switch v := c.(type) {
			case api.EventCreateBinding:
				return api.StoreAction{Kind: api.StoreActionKindCreate, Binding: v.Binding}, nil
			case api.EventDeleteBinding:
				return api.StoreAction{Kind: api.StoreActionKindRemove, Binding: v.Binding}, nil
			}
			return api.StoreAction{}, errUnknownStoreAction
		},
	})
}

// CreateBinding adds a new binding to the store. The port, segment and agent
// it references must exist in the same transaction; their location is
// attached to the creation event.
// Returns ErrExist if the ID is already taken, and ErrDanglingReference if a
// referenced object is missing.
func CreateBinding(tx Tx, b *api.Binding) error {
	port := GetPort(tx, b.PortID)
	if port == nil {
		return errors.Wrapf(ErrDanglingReference, "port %s", b.PortID)
	}
	segment := GetSegment(tx, b.SegmentID)
	if segment == nil {
		return errors.Wrapf(ErrDanglingReference, "segment %s", b.SegmentID)
	}
	agent := GetAgent(tx, b.AgentID)
	if agent == nil {
		return errors.Wrapf(ErrDanglingReference, "agent %s", b.AgentID)
	}

	if err := tx.create(tableBinding, b); err != nil {
		return err
	}
	tx.setLocation(b.ID, api.NewLocation(port, segment, agent))
	return nil
}

// DeleteBinding removes a binding from the store.
// Returns ErrNotExist if the binding doesn't exist.
func DeleteBinding(tx Tx, id string) error {
	return tx.delete(tableBinding, id)
}

// GetBinding looks up a binding by ID.
// Returns nil if the binding doesn't exist.
func GetBinding(tx ReadTx, id string) *api.Binding {
	b := tx.get(tableBinding, id)
	if b == nil {
		return nil
	}
	return b.(*api.Binding)
}

// FindBindings selects a set of bindings and returns them.
func FindBindings(tx ReadTx, by By) ([]*api.Binding, error) {
	checkType := func(by By) error {
		switch by.(type) {
		case byIDPrefix, byPort, bySegment, byAgent, byTriple:
			return nil
		default:
			return ErrInvalidFindBy
		}
	}

	bindingList := []*api.Binding{}
	appendResult := func(o api.StoreObject) {
		bindingList = append(bindingList, o.(*api.Binding))
	}

	err := tx.find(tableBinding, by, checkType, appendResult)
	return bindingList, err
}

// ListBindings returns one page of the bindings matching every non-empty
// field of filters, ordered by ID.
//
// A forward page holds the first opts.Limit bindings whose ID is greater than
// opts.Marker. With opts.PageReverse, the page holds the last opts.Limit
// bindings whose ID is smaller than opts.Marker, still in ascending order. A
// zero limit returns every remaining binding. The marker does not need to
// name an existing binding.
func ListBindings(tx ReadTx, filters api.BindingFilters, opts api.ListOptions) ([]*api.Binding, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("invalid limit %d", opts.Limit)
	}

	var (
		index string
		value string
		field func(*api.Binding) string
	)
	switch {
	case filters.PortID != "":
		index, value, field = indexPortID, filters.PortID, bindingPortID
	case filters.SegmentID != "":
		index, value, field = indexSegment, filters.SegmentID, bindingSegmentID
	case filters.AgentID != "":
		index, value, field = indexAgentID, filters.AgentID, bindingAgentID
	}

	// Walk the narrowest index available. Secondary index entries are the
	// field followed by the ID, so every walk is in ID order and a marker
	// seeks straight to its position.
	var (
		it  memdb.ResultIterator
		err error
	)
	switch {
	case index == "" && opts.Marker != "":
		it, err = tx.lowerBound(tableBinding, indexID, opts.PageReverse, opts.Marker)
	case index == "":
		it, err = tx.iterate(tableBinding, indexID, opts.PageReverse)
	case opts.Marker != "":
		it, err = tx.lowerBound(tableBinding, index, opts.PageReverse, value, opts.Marker)
	default:
		it, err = tx.iterate(tableBinding, index, opts.PageReverse, value)
	}
	if err != nil {
		return nil, err
	}

	page := []*api.Binding{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		b := obj.(*api.Binding)
		// A seek does not stay within the value, stop at its end.
		if field != nil && field(b) != value {
			break
		}
		if opts.Marker != "" {
			if !opts.PageReverse && b.ID <= opts.Marker {
				continue
			}
			if opts.PageReverse && b.ID >= opts.Marker {
				continue
			}
		}
		if !matchBinding(filters, b) {
			continue
		}
		page = append(page, b.Copy())
		if opts.Limit > 0 && len(page) == opts.Limit {
			break
		}
	}

	if opts.PageReverse {
		for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
			page[i], page[j] = page[j], page[i]
		}
	}
	return page, nil
}

func matchBinding(filters api.BindingFilters, b *api.Binding) bool {
	return (filters.PortID == "" || filters.PortID == b.PortID) &&
		(filters.SegmentID == "" || filters.SegmentID == b.SegmentID) &&
		(filters.AgentID == "" || filters.AgentID == b.AgentID)
}

// deleteBindings removes every binding selected by by.
func deleteBindings(tx Tx, by By) ([]*api.Binding, error) {
	bindings, err := FindBindings(tx, by)
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		if err := tx.delete(tableBinding, b.ID); err != nil {
			return nil, err
		}
	}
	return bindings, nil
}

func bindingPortID(b *api.Binding) string    { return b.PortID }
func bindingSegmentID(b *api.Binding) string { return b.SegmentID }
func bindingAgentID(b *api.Binding) string   { return b.AgentID }

type bindingFieldIndexer struct {
	field func(*api.Binding) string
}

// FromArgs takes the field value and, optionally, a binding ID to seek to
// within that value.
func (bi bindingFieldIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 2 {
		return fromArgs(args...)
	}
	val, err := fromArgs(args[0])
	if err != nil {
		return nil, err
	}
	id, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("argument must be a string: %#v", args[1])
	}
	return append(val, id...), nil
}

func (bi bindingFieldIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	b, ok := obj.(*api.Binding)
	if !ok {
		panic("unexpected type passed to FromObject")
	}

	// Add the null character as a terminator
	return true, []byte(bi.field(b) + "\x00"), nil
}

type bindingIndexerByTriple struct{}

func (bi bindingIndexerByTriple) FromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("must provide port, segment and agent")
	}
	parts := make([]string, 0, 3)
	for _, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("argument must be a string: %#v", arg)
		}
		parts = append(parts, s)
	}
	return []byte(strings.Join(parts, "\x00") + "\x00"), nil
}

func (bi bindingIndexerByTriple) FromObject(obj interface{}) (bool, []byte, error) {
	b, ok := obj.(*api.Binding)
	if !ok {
		panic("unexpected type passed to FromObject")
	}

	return true, []byte(b.PortID + "\x00" + b.SegmentID + "\x00" + b.AgentID + "\x00"), nil
}
