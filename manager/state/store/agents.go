package store

import (
	memdb "github.com/hashicorp/go-memdb"

	"github.com/moby/fdbkit/api"
)

const tableAgent = "agent"

func init() {
	register(ObjectStoreConfig{
		Table: &memdb.TableSchema{
			Name: tableAgent,
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
			snapshot.Agents, err = FindAgents(tx, All)
			return err
		},
		Restore: func(memDBTx *memdb.Txn, snapshot *api.StoreSnapshot) error {
			if _, err := memDBTx.DeleteAll(tableAgent, indexID); err != nil {
				return err
			}
			for _, a := range snapshot.Agents {
				if err := memDBTx.Insert(tableAgent, a.Copy()); err != nil {
					return err
				}
			}
			return nil
		},
		NewStoreAction: func(c api.Event) (api.StoreAction, error) {
			switch v := c.(type) {
			case api.EventCreateAgent:
				return api.StoreAction{Kind: api.StoreActionKindCreate, Agent: v.Agent}, nil
			case api.EventDeleteAgent:
				return api.StoreAction{Kind: api.StoreActionKindRemove, Agent: v.Agent}, nil
			}
			return api.StoreAction{}, errUnknownStoreAction
		},
	})
}

// CreateAgent adds a new agent to the store.
// Returns ErrExist if the ID is already taken.
func CreateAgent(tx Tx, a *api.Agent) error {
	return tx.create(tableAgent, a)
}

// DeleteAgent removes an agent from the store, together with every binding that
// references it, and returns the removed bindings.
// Returns ErrNotExist if the agent doesn't exist.
func DeleteAgent(tx Tx, id string) ([]*api.Binding, error) {
	if tx.lookup(tableAgent, indexID, id) == nil {
		return nil, ErrNotExist
	}
	removed, err := deleteBindings(tx, ByAgentID(id))
	if err != nil {
		return nil, err
	}
	return removed, tx.delete(tableAgent, id)
}

// GetAgent looks up an agent by ID.
// Returns nil if the agent doesn't exist.
func GetAgent(tx ReadTx, id string) *api.Agent {
	a := tx.get(tableAgent, id)
	if a == nil {
		return nil
	}
	return a.(*api.Agent)
}

// FindAgents selects a set of agents and returns them.
func FindAgents(tx ReadTx, by By) ([]*api.Agent, error) {
	checkType := func(by By) error {
		switch by.(type) {
		case byIDPrefix:
			return nil
		default:
			return ErrInvalidFindBy
		}
	}

	list := []*api.Agent{}
	appendResult := func(o api.StoreObject) {
		list = append(list, o.(*api.Agent))
	}

	err := tx.find(tableAgent, by, checkType, appendResult)
	return list, err
}
