package store

import (
	memdb "github.com/hashicorp/go-memdb"

	"github.com/moby/fdbkit/api"
)

// ObjectStoreConfig provides the necessary methods to store a particular object
// type inside MemoryStore.
type ObjectStoreConfig struct {
	Table          *memdb.TableSchema
	Save           func(ReadTx, *api.StoreSnapshot) error
	Restore        func(*memdb.Txn, *api.StoreSnapshot) error
	NewStoreAction func(api.Event) (api.StoreAction, error)
}

// idIndexer indexes any store object by its ID.
type idIndexer struct{}

func (idIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	return fromArgs(args...)
}

func (idIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	o, ok := obj.(api.StoreObject)
	if !ok {
		panic("unexpected type passed to FromObject")
	}

	// Add the null character as a terminator
	val := o.GetID() + "\x00"
	return true, []byte(val), nil
}

func (idIndexer) PrefixFromArgs(args ...interface{}) ([]byte, error) {
	return prefixFromArgs(args...)
}
