package agent

import (
	"bytes"
	"encoding/binary"

	bolt "go.etcd.io/bbolt"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/log"
)

// Layout:
//
//	bucket(v1.segments.<id>) ->
//			version (store version of the last resync)
//			bucket(entries.<binding id>) -> forwarding entry
var (
	bucketKeyStorageVersion = []byte("v1")
	bucketKeySegments       = []byte("segments")
	bucketKeyEntries        = []byte("entries")
	bucketKeyVersion        = []byte("version")
)

type bucketKeyPath [][]byte

func (bk bucketKeyPath) String() string {
	return string(bytes.Join([][]byte(bk), []byte("/")))
}

// InitDB prepares db to hold the agent's forwarding table.
func InitDB(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := createBucketIfNotExists(tx, bucketKeyStorageVersion, bucketKeySegments)
		return err
	})
}

// GetSegments returns the identifiers of every stored segment.
func GetSegments(tx *bolt.Tx) []string {
	bkt := getSegmentsBucket(tx)
	if bkt == nil {
		return nil
	}

	var segments []string
	if err := bkt.ForEach(func(k, v []byte) error {
		if v == nil {
			segments = append(segments, string(k))
		}
		return nil
	}); err != nil {
		log.L.WithError(err).Errorf("error in GetSegments ForEach")
	}
	return segments
}

// GetSegmentVersion returns the store version of the segment's last resync.
func GetSegmentVersion(tx *bolt.Tx, segmentID string) api.Version {
	bkt := getSegmentBucket(tx, segmentID)
	if bkt == nil {
		return api.Version{}
	}
	p := bkt.Get(bucketKeyVersion)
	if len(p) != 8 {
		return api.Version{}
	}
	return api.Version{Index: binary.BigEndian.Uint64(p)}
}

// PutSegmentVersion records the store version of a segment's resync.
func PutSegmentVersion(tx *bolt.Tx, segmentID string, version api.Version) error {
	return withCreateSegmentBucketIfNotExists(tx, segmentID, func(bkt *bolt.Bucket) error {
		p := make([]byte, 8)
		binary.BigEndian.PutUint64(p, version.Index)
		return bkt.Put(bucketKeyVersion, p)
	})
}

// GetEntries returns the stored forwarding entries of a segment.
func GetEntries(tx *bolt.Tx, segmentID string) ([]*api.ForwardingEntry, error) {
	bkt := getBucket(tx, bucketKeyStorageVersion, bucketKeySegments, []byte(segmentID), bucketKeyEntries)
	if bkt == nil {
		return nil, nil
	}

	var entries []*api.ForwardingEntry
	err := bkt.ForEach(func(k, v []byte) error {
		var e api.ForwardingEntry
		if err := api.Unmarshal(v, &e); err != nil {
			return err
		}
		entries = append(entries, &e)
		return nil
	})
	return entries, err
}

// PutEntry stores a forwarding entry under its segment.
func PutEntry(tx *bolt.Tx, entry *api.ForwardingEntry) error {
	bkt, err := createBucketIfNotExists(tx, bucketKeyStorageVersion, bucketKeySegments,
		[]byte(entry.Binding.SegmentID), bucketKeyEntries)
	if err != nil {
		return err
	}
	p, err := api.Marshal(entry)
	if err != nil {
		return err
	}
	return bkt.Put([]byte(entry.Binding.ID), p)
}

// DeleteEntry removes a forwarding entry. Unknown entries are ignored.
func DeleteEntry(tx *bolt.Tx, segmentID, bindingID string) error {
	bkt := getBucket(tx, bucketKeyStorageVersion, bucketKeySegments, []byte(segmentID), bucketKeyEntries)
	if bkt == nil {
		return nil
	}
	return bkt.Delete([]byte(bindingID))
}

// DeleteSegment removes a segment with all its entries.
func DeleteSegment(tx *bolt.Tx, segmentID string) error {
	bkt := getSegmentsBucket(tx)
	if bkt == nil || bkt.Bucket([]byte(segmentID)) == nil {
		return nil
	}
	return bkt.DeleteBucket([]byte(segmentID))
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

func withCreateSegmentBucketIfNotExists(tx *bolt.Tx, segmentID string, fn func(bkt *bolt.Bucket) error) error {
	bkt, err := createBucketIfNotExists(tx, bucketKeyStorageVersion, bucketKeySegments, []byte(segmentID))
	if err != nil {
		return err
	}

	return fn(bkt)
}

func getSegmentBucket(tx *bolt.Tx, segmentID string) *bolt.Bucket {
	return getBucket(tx, bucketKeyStorageVersion, bucketKeySegments, []byte(segmentID))
}

func getSegmentsBucket(tx *bolt.Tx) *bolt.Bucket {
	return getBucket(tx, bucketKeyStorageVersion, bucketKeySegments)
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
