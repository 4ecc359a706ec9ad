package store

import (
	memdb "github.com/hashicorp/go-memdb"

	"github.com/moby/fdbkit/api"
)

const tablePort = "port"

func init() {
	register(ObjectStoreConfig{
		Table: &memdb.TableSchema{
			Name: tablePort,
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
			snapshot.Ports, err = FindPorts(tx, All)
			return err
		},
		Restore: func(memDBTx *memdb.Txn, snapshot *api.StoreSnapshot) error {
			if _, err := memDBTx.DeleteAll(tablePort, indexID); err != nil {
				return err
			}
			for _, p := range snapshot.Ports {
				if err := memDBTx.Insert(tablePort, p.Copy()); err != nil {
					return err
				}
			}
			return nil
		},
		NewStoreAction: func(c api.Event) (api.StoreAction, error) {
			switch v := c.(type) {
			case api.EventCreatePort:
				return api.StoreAction{Kind: api.StoreActionKindCreate, Port: v.Port}, nil
			case api.EventDeletePort:
				return api.StoreAction{Kind: api.StoreActionKindRemove, Port: v.Port}, nil
			}
			return api.StoreAction{}, errUnknownStoreAction
		},
	})
}

// CreatePort adds a new port to the store.
// Returns ErrExist if the ID is already taken.
func CreatePort(tx Tx, p *api.Port) error {
	return tx.create(tablePort, p)
}

// DeletePort removes a port from the store, together with every binding that
// references it, and returns the removed bindings.
// Returns ErrNotExist if the port doesn't exist.
func DeletePort(tx Tx, id string) ([]*api.Binding, error) {
	if tx.lookup(tablePort, indexID, id) == nil {
		return nil, ErrNotExist
	}
	removed, err := deleteBindings(tx, ByPortID(id))
	if err != nil {
		return nil, err
	}
	return removed, tx.delete(tablePort, id)
}

// GetPort looks up a port by ID.
// Returns nil if the port doesn't exist.
func GetPort(tx ReadTx, id string) *api.Port {
	p := tx.get(tablePort, id)
	if p == nil {
		return nil
	}
	return p.(*api.Port)
}

// FindPorts selects a set of ports and returns them.
func FindPorts(tx ReadTx, by By) ([]*api.Port, error) {
	checkType := func(by By) error {
		switch by.(type) {
		case byIDPrefix:
			return nil
		default:
			return ErrInvalidFindBy
		}
	}

	list := []*api.Port{}
	appendResult := func(o api.StoreObject) {
		list = append(list, o.(*api.Port))
	}

	err := tx.find(tablePort, by, checkType, appendResult)
	return list, err
}
