package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docker/go-events"
	memdb "github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/watch"
)

const (
	indexID      = "id"
	indexPortID  = "portid"
	indexSegment = "segmentid"
	indexAgentID = "agentid"
	indexTriple  = "triple"

	tableVersion = "version"
	versionKey   = "version"

	prefix = "_prefix"
)

var (
	// ErrExist is returned by create operations if the provided ID is already
	// taken.
	ErrExist = errors.New("object already exists")

	// ErrNotExist is returned by altering operations (delete) if the
	// provided ID is not found.
	ErrNotExist = errors.New("object does not exist")

	// ErrInvalidFindBy is returned if an unrecognized type is passed to Find.
	ErrInvalidFindBy = errors.New("invalid find argument type")

	// ErrDanglingReference is returned when an object references another
	// object that is not in the store.
	ErrDanglingReference = errors.New("referenced object does not exist")

	errUnknownStoreAction = errors.New("unknown store action")
)

var (
	objectStorers []ObjectStoreConfig
	schema        = &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableVersion: {
				Name: tableVersion,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: versionIndexer{},
					},
				},
			},
		},
	}
)

func register(os ObjectStoreConfig) {
	objectStorers = append(objectStorers, os)
	schema.Tables[os.Table.Name] = os.Table
}

// Committer makes the changes of an update durable. Commit is called with the
// version the update will produce and its actions, before the update becomes
// visible to readers. If it returns an error the update is aborted.
type Committer interface {
	Commit(ctx context.Context, version api.Version, actions []api.StoreAction) error
}

// MemoryStore is a concurrency-safe, in-memory implementation of the Store
// interface.
type MemoryStore struct {
	// updateLock must be held during an update transaction.
	updateLock sync.Mutex

	memDB *memdb.MemDB
	queue *watch.Queue

	committer Committer
}

// NewMemoryStore returns an in-memory store. The argument is an optional
// Committer which will be used to persist changes before they are applied.
func NewMemoryStore(committer Committer) *MemoryStore {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		// This shouldn't fail
		panic(err)
	}

	return &MemoryStore{
		memDB:     memDB,
		queue:     watch.NewQueue(),
		committer: committer,
	}
}

// Close closes the memory store and frees its associated resources.
func (s *MemoryStore) Close() error {
	return s.queue.Close()
}

func fromArgs(args ...interface{}) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("must provide only a single argument")
	}
	arg, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("argument must be a string: %#v", args[0])
	}
	// Add the null character as a terminator
	arg += "\x00"
	return []byte(arg), nil
}

func prefixFromArgs(args ...interface{}) ([]byte, error) {
	val, err := fromArgs(args...)
	if err != nil {
		return nil, err
	}

	// Strip the null terminator, the rest is a prefix
	n := len(val)
	if n > 0 {
		return val[:n-1], nil
	}
	return val, nil
}

// ReadTx is a read transaction. Note that transaction does not imply
// any internal batching. It only means that the transaction presents a
// consistent view of the data that cannot be affected by other
// transactions.
type ReadTx interface {
	lookup(table, index, id string) api.StoreObject
	get(table, id string) api.StoreObject
	find(table string, by By, checkType func(By) error, appendResult func(api.StoreObject)) error
	iterate(table, index string, reverse bool, args ...interface{}) (memdb.ResultIterator, error)
	lowerBound(table, index string, reverse bool, args ...interface{}) (memdb.ResultIterator, error)

	// Version returns the store version the transaction observes.
	Version() api.Version
}

type readTx struct {
	memDBTx *memdb.Txn
}

// View executes a read transaction.
func (s *MemoryStore) View(cb func(ReadTx)) {
	memDBTx := s.memDB.Txn(false)

	readTx := readTx{
		memDBTx: memDBTx,
	}
	cb(readTx)
	memDBTx.Commit()
}

// Tx is a read/write transaction. Note that transaction does not imply
// any internal batching. The purpose of this transaction is to give the
// user a guarantee that its changes won't be visible to other transactions
// until the transaction is over.
type Tx interface {
	ReadTx
	create(table string, o api.StoreObject) error
	delete(table, id string) error
	// setLocation attaches a resolved location to the creation event of a
	// binding made in this transaction.
	setLocation(bindingID string, l *api.Location)
}

type tx struct {
	readTx
	curVersion api.Version
	now        time.Time
	changelist []api.Event
}

// Version returns the version of the last committed update as seen by this
// transaction. Objects created in a write transaction carry the version the
// transaction will commit at.
func (tx readTx) Version() api.Version {
	v, err := tx.memDBTx.First(tableVersion, indexID, versionKey)
	if err != nil || v == nil {
		return api.Version{}
	}
	return v.(*versionEntry).Version
}

func (s *MemoryStore) update(committer Committer, cb func(Tx) error) error {
	s.updateLock.Lock()
	defer s.updateLock.Unlock()

	memDBTx := s.memDB.Txn(true)

	var tx tx
	tx.init(memDBTx)

	err := cb(&tx)

	if err == nil {
		if len(tx.changelist) == 0 {
			memDBTx.Commit()
			return nil
		}

		if err = memDBTx.Insert(tableVersion, &versionEntry{Version: tx.curVersion}); err == nil && committer != nil {
			var sa []api.StoreAction
			sa, err = tx.changelistStoreActions()
			if err == nil {
				err = committer.Commit(context.Background(), tx.curVersion, sa)
			}
		}
	}

	if err != nil {
		memDBTx.Abort()
		return err
	}

	memDBTx.Commit()

	for _, c := range tx.changelist {
		s.queue.Publish(c)
	}
	s.queue.Publish(api.EventCommit{Version: tx.curVersion})
	return nil
}

// Update executes a read/write transaction. The changes made by cb are
// applied atomically if it returns nil, and discarded otherwise. Once
// applied, the change events are published on the watch queue in the order
// they were made, followed by an EventCommit carrying the new version.
func (s *MemoryStore) Update(cb func(Tx) error) error {
	return s.update(s.committer, cb)
}

func (tx *tx) init(memDBTx *memdb.Txn) {
	tx.memDBTx = memDBTx
	tx.curVersion = readTx{memDBTx: memDBTx}.Version()
	tx.curVersion.Index++
	tx.now = time.Now().UTC()
	tx.changelist = nil
}

func newStoreAction(c api.Event) (api.StoreAction, error) {
	for _, os := range objectStorers {
		sa, err := os.NewStoreAction(c)
		if err == nil {
			return sa, nil
		} else if err != errUnknownStoreAction {
			return api.StoreAction{}, err
		}
	}

	return api.StoreAction{}, errors.New("unrecognized event type")
}

func (tx tx) changelistStoreActions() ([]api.StoreAction, error) {
	var actions []api.StoreAction

	for _, c := range tx.changelist {
		sa, err := newStoreAction(c)
		if err != nil {
			return nil, err
		}
		actions = append(actions, sa)
	}

	return actions, nil
}

// lookup is an internal typed wrapper around memdb.
func (tx readTx) lookup(table, index, id string) api.StoreObject {
	j, err := tx.memDBTx.First(table, index, id)
	if err != nil {
		return nil
	}
	if j != nil {
		return j.(api.StoreObject)
	}
	return nil
}

// create adds a new object to the store.
// Returns ErrExist if the ID is already taken.
func (tx *tx) create(table string, o api.StoreObject) error {
	if tx.lookup(table, indexID, o.GetID()) != nil {
		return ErrExist
	}

	copy := o.CopyStoreObject()
	meta := copy.GetMeta()
	meta.Version = tx.curVersion
	meta.CreatedAt = tx.now
	meta.UpdatedAt = tx.now
	copy.SetMeta(meta)

	err := tx.memDBTx.Insert(table, copy)
	if err == nil {
		tx.changelist = append(tx.changelist, copy.EventCreate())
		o.SetMeta(meta)
	}
	return err
}

// delete removes an object from the store.
// Returns ErrNotExist if the object doesn't exist.
func (tx *tx) delete(table, id string) error {
	n := tx.lookup(table, indexID, id)
	if n == nil {
		return ErrNotExist
	}

	err := tx.memDBTx.Delete(table, n)
	if err == nil {
		tx.changelist = append(tx.changelist, n.EventDelete())
	}
	return err
}

func (tx *tx) setLocation(bindingID string, l *api.Location) {
	for i := len(tx.changelist) - 1; i >= 0; i-- {
		if e, ok := tx.changelist[i].(api.EventCreateBinding); ok && e.Binding.ID == bindingID {
			e.Location = l
			tx.changelist[i] = e
			return
		}
	}
}

// get looks up an object by ID.
// Returns nil if the object doesn't exist.
func (tx readTx) get(table, id string) api.StoreObject {
	o := tx.lookup(table, indexID, id)
	if o == nil {
		return nil
	}
	return o.CopyStoreObject()
}

// iterate returns a raw iterator over an index, ascending or descending.
func (tx readTx) iterate(table, index string, reverse bool, args ...interface{}) (memdb.ResultIterator, error) {
	if reverse {
		return tx.memDBTx.GetReverse(table, index, args...)
	}
	return tx.memDBTx.Get(table, index, args...)
}

// lowerBound returns an iterator starting at args. Forward iterators yield
// keys greater than or equal to args in ascending order, reverse iterators
// keys smaller than or equal to args in descending order.
func (tx readTx) lowerBound(table, index string, reverse bool, args ...interface{}) (memdb.ResultIterator, error) {
	if reverse {
		return tx.memDBTx.ReverseLowerBound(table, index, args...)
	}
	return tx.memDBTx.LowerBound(table, index, args...)
}

// find selects a set of objects calls a callback for each matching object.
func (tx readTx) find(table string, by By, checkType func(By) error, appendResult func(api.StoreObject)) error {
	fromResultIterators := func(its ...memdb.ResultIterator) {
		ids := make(map[string]struct{})
		for _, it := range its {
			for {
				obj := it.Next()
				if obj == nil {
					break
				}
				o := obj.(api.StoreObject)
				id := o.GetID()
				if _, exists := ids[id]; !exists {
					appendResult(o.CopyStoreObject())
					ids[id] = struct{}{}
				}
			}
		}
	}

	iters, err := tx.findIterators(table, by, checkType)
	if err != nil {
		return err
	}

	fromResultIterators(iters...)

	return nil
}

func (tx readTx) findIterators(table string, by By, checkType func(By) error) ([]memdb.ResultIterator, error) {
	switch by.(type) {
	case byAll, orCombinator: // generic types
	default: // all other types
		if err := checkType(by); err != nil {
			return nil, err
		}
	}

	switch v := by.(type) {
	case byAll:
		it, err := tx.memDBTx.Get(table, indexID)
		if err != nil {
			return nil, err
		}
		return []memdb.ResultIterator{it}, nil
	case orCombinator:
		var iters []memdb.ResultIterator
		for _, subBy := range v.bys {
			it, err := tx.findIterators(table, subBy, checkType)
			if err != nil {
				return nil, err
			}
			iters = append(iters, it...)
		}
		return iters, nil
	case byIDPrefix:
		it, err := tx.memDBTx.Get(table, indexID+prefix, string(v))
		if err != nil {
			return nil, err
		}
		return []memdb.ResultIterator{it}, nil
	case byPort:
		it, err := tx.memDBTx.Get(table, indexPortID, string(v))
		if err != nil {
			return nil, err
		}
		return []memdb.ResultIterator{it}, nil
	case bySegment:
		it, err := tx.memDBTx.Get(table, indexSegment, string(v))
		if err != nil {
			return nil, err
		}
		return []memdb.ResultIterator{it}, nil
	case byAgent:
		it, err := tx.memDBTx.Get(table, indexAgentID, string(v))
		if err != nil {
			return nil, err
		}
		return []memdb.ResultIterator{it}, nil
	case byTriple:
		it, err := tx.memDBTx.Get(table, indexTriple, v.portID, v.segmentID, v.agentID)
		if err != nil {
			return nil, err
		}
		return []memdb.ResultIterator{it}, nil
	default:
		return nil, ErrInvalidFindBy
	}
}

// Save serializes the data in the store.
func (s *MemoryStore) Save(tx ReadTx) (*api.StoreSnapshot, error) {
	snapshot := api.StoreSnapshot{Version: tx.Version()}
	for _, os := range objectStorers {
		if err := os.Save(tx, &snapshot); err != nil {
			return nil, err
		}
	}

	return &snapshot, nil
}

// Restore sets the contents of the store to the serialized data in the
// argument. The restored objects keep their metadata, and the store version
// becomes the snapshot's version.
func (s *MemoryStore) Restore(snapshot *api.StoreSnapshot) error {
	s.updateLock.Lock()
	defer s.updateLock.Unlock()

	memDBTx := s.memDB.Txn(true)

	for _, os := range objectStorers {
		if err := os.Restore(memDBTx, snapshot); err != nil {
			memDBTx.Abort()
			return err
		}
	}
	if err := memDBTx.Insert(tableVersion, &versionEntry{Version: snapshot.Version}); err != nil {
		memDBTx.Abort()
		return err
	}

	memDBTx.Commit()
	s.queue.Publish(api.EventCommit{Version: snapshot.Version})
	return nil
}

// WatchQueue returns the publish/subscribe queue.
func (s *MemoryStore) WatchQueue() *watch.Queue {
	return s.queue
}

// ViewAndWatch calls a callback which can observe the state of this
// MemoryStore. It also returns a channel that will return further events
// from this point so the snapshot can be kept up to date. The watch channel
// must be released with watch.StopWatch when it is no longer needed. The
// channel is guaranteed to get all events after the moment of the snapshot,
// and only those events.
func ViewAndWatch(store *MemoryStore, cb func(ReadTx) error, specifiers ...api.Event) (watch chan events.Event, cancel func(), err error) {
	// Using Update to lock the store and guarantee consistency between
	// the watcher and the the state seen by the callback. snapshotReadTx
	// exposes this Tx as a ReadTx so the callback can't modify it.
	err = store.Update(func(tx Tx) error {
		if err := cb(tx); err != nil {
			return err
		}
		watch, cancel = Watch(store.WatchQueue(), specifiers...)
		return nil
	})
	if watch != nil && err != nil {
		cancel()
		cancel = nil
		watch = nil
	}
	return
}

// Watch takes a variable number of events to match against. The subscriber
// will receive events that match any of the arguments passed to Watch.
//
// Examples:
//
//	// subscribe to all events
//	Watch(q)
//
//	// subscribe to binding deletions on one segment
//	Watch(q, api.EventDeleteBinding{Binding: &api.Binding{SegmentID: id},
//		Checks: []api.BindingCheckFunc{api.BindingCheckSegment}})
func Watch(queue *watch.Queue, specifiers ...api.Event) (eventq chan events.Event, cancel func()) {
	if len(specifiers) == 0 {
		return queue.Watch()
	}
	return queue.CallbackWatch(Matcher(specifiers...))
}

// Matcher returns an events.Matcher that Matches the specifiers with OR logic.
func Matcher(specifiers ...api.Event) events.MatcherFunc {
	return events.MatcherFunc(func(event events.Event) bool {
		for _, s := range specifiers {
			if s.Matches(event) {
				return true
			}
		}
		return false
	})
}

type versionEntry struct {
	api.Version
}

type versionIndexer struct{}

func (versionIndexer) FromArgs(args ...interface{}) ([]byte, error) {
	return fromArgs(args...)
}

func (versionIndexer) FromObject(obj interface{}) (bool, []byte, error) {
	return true, []byte(versionKey + "\x00"), nil
}
