// Package storage persists the forwarding database of a manager in a bolt
// database, so a restarted manager serves the same bindings.
//
// Every committed store update is written as one bolt transaction, objects
// encoded with the api CBOR codec.
package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/log"
)

// Layout:
//
//	bucket(v1.ports.<id>)    -> port
//	bucket(v1.segments.<id>) -> segment
//	bucket(v1.agents.<id>)   -> agent
//	bucket(v1.bindings.<id>) -> binding
//	bucket(v1.meta)          -> version
var (
	bucketKeyStorageVersion = []byte("v1")
	bucketKeyPorts          = []byte("ports")
	bucketKeySegments       = []byte("segments")
	bucketKeyAgents         = []byte("agents")
	bucketKeyBindings       = []byte("bindings")
	bucketKeyMeta           = []byte("meta")
	keyVersion              = []byte("version")

	objectBuckets = [][]byte{bucketKeyPorts, bucketKeySegments, bucketKeyAgents, bucketKeyBindings}
)

type bucketKeyPath [][]byte

func (bk bucketKeyPath) String() string {
	return string(bytes.Join([][]byte(bk), []byte("/")))
}

// Storage is a bolt-backed store.Committer.
type Storage struct {
	db *bolt.DB
}

// Open opens or creates the bolt database at path.
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open state database %s", path)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, key := range append(objectBuckets, bucketKeyMeta) {
			if _, err := createBucketIfNotExists(tx, bucketKeyStorageVersion, key); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize state database")
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Commit writes the actions of a store update and its version in a single
// bolt transaction.
func (s *Storage) Commit(ctx context.Context, version api.Version, actions []api.StoreAction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, sa := range actions {
			if err := applyStoreAction(tx, sa); err != nil {
				return err
			}
		}
		return put(getBucket(tx, bucketKeyStorageVersion, bucketKeyMeta), keyVersion, &version)
	})
}

func applyStoreAction(tx *bolt.Tx, sa api.StoreAction) error {
	obj := sa.Object()
	if obj == nil {
		return errors.New("store action carries no object")
	}

	bkt := getBucket(tx, bucketKeyStorageVersion, objectBucket(sa))
	if bkt == nil {
		return errors.Errorf("missing bucket for %T", obj)
	}

	switch sa.Kind {
	case api.StoreActionKindCreate:
		return put(bkt, []byte(obj.GetID()), obj)
	case api.StoreActionKindRemove:
		return bkt.Delete([]byte(obj.GetID()))
	}
	return errors.Errorf("unknown store action kind %d", sa.Kind)
}

func objectBucket(sa api.StoreAction) []byte {
	switch {
	case sa.Port != nil:
		return bucketKeyPorts
	case sa.Segment != nil:
		return bucketKeySegments
	case sa.Agent != nil:
		return bucketKeyAgents
	}
	return bucketKeyBindings
}

// Load reads back the full content of the database.
func (s *Storage) Load() (*api.StoreSnapshot, error) {
	var snapshot api.StoreSnapshot

	err := s.db.View(func(tx *bolt.Tx) error {
		if p := getBucket(tx, bucketKeyStorageVersion, bucketKeyMeta).Get(keyVersion); p != nil {
			if err := api.Unmarshal(p, &snapshot.Version); err != nil {
				return errors.Wrap(err, "failed to decode store version")
			}
		}

		if err := walkBucket(tx, bucketKeyPorts, func(k, v []byte) error {
			var p api.Port
			if err := api.Unmarshal(v, &p); err != nil {
				return errors.Wrapf(err, "failed to decode %s", bucketKeyPath{bucketKeyStorageVersion, bucketKeyPorts, k})
			}
			snapshot.Ports = append(snapshot.Ports, &p)
			return nil
		}); err != nil {
			return err
		}
		if err := walkBucket(tx, bucketKeySegments, func(k, v []byte) error {
			var seg api.Segment
			if err := api.Unmarshal(v, &seg); err != nil {
				return errors.Wrapf(err, "failed to decode %s", bucketKeyPath{bucketKeyStorageVersion, bucketKeySegments, k})
			}
			snapshot.Segments = append(snapshot.Segments, &seg)
			return nil
		}); err != nil {
			return err
		}
		if err := walkBucket(tx, bucketKeyAgents, func(k, v []byte) error {
			var a api.Agent
			if err := api.Unmarshal(v, &a); err != nil {
				return errors.Wrapf(err, "failed to decode %s", bucketKeyPath{bucketKeyStorageVersion, bucketKeyAgents, k})
			}
			snapshot.Agents = append(snapshot.Agents, &a)
			return nil
		}); err != nil {
			return err
		}
		return walkBucket(tx, bucketKeyBindings, func(k, v []byte) error {
			var b api.Binding
			if err := api.Unmarshal(v, &b); err != nil {
				return errors.Wrapf(err, "failed to decode %s", bucketKeyPath{bucketKeyStorageVersion, bucketKeyBindings, k})
			}
			snapshot.Bindings = append(snapshot.Bindings, &b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.L.WithField("version", snapshot.Version.Index).Debugf("loaded %d bindings from state database", len(snapshot.Bindings))
	return &snapshot, nil
}

// walkBucket calls fn for every key of a top-level bucket. A missing bucket
// is empty.
func walkBucket(tx *bolt.Tx, key []byte, fn func(k, v []byte) error) error {
	bkt := getBucket(tx, bucketKeyStorageVersion, key)
	if bkt == nil {
		return nil
	}
	return bkt.ForEach(fn)
}

func put(bkt *bolt.Bucket, key []byte, v interface{}) error {
	p, err := api.Marshal(v)
	if err != nil {
		return err
	}
	return bkt.Put(key, p)
}

func createBucketIfNotExists(tx *bolt.Tx, keys ...[]byte) (*bolt.Bucket, error) {
	bkt, err := tx.CreateBucketIfNotExists(keys[0])
	if err != nil {
		return nil, err
	}

	for _, key := range keys[1:] {
		bkt, err = bkt.CreateBucketIfNotExists(key)
		if err != nil {
			return nil, err
		}
	}

	return bkt, nil
}

func getBucket(tx *bolt.Tx, keys ...[]byte) *bolt.Bucket {
	bkt := tx.Bucket(keys[0])

	for _, key := range keys[1:] {
		if bkt == nil {
			log.L.Debugf("getBucket %v, missing at %v", bucketKeyPath(keys), string(key))
			break
		}
		bkt = bkt.Bucket(key)
	}

	return bkt
}
