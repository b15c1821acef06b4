package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	postedBucket     = "posted_articles"
	expiryValueBytes = 8
	// defaultLockTimeout bounds how long an operation waits on a lock held by another process.
	defaultLockTimeout = time.Second
)

// boltStore implements a Store backed by BoltDB. Values are an 8-byte big-endian expiry
// followed by the primary post id. The file is opened for each operation and closed
// right after, so the file lock is only held while a record is read or written and
// overlapping processes can share the same path.
type boltStore struct {
	path            string
	lockTimeout     time.Duration
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	articleTTL      time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt prepares a BoltDB-backed Store. The database file is created on first use.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	store := &boltStore{
		path:            path,
		lockTimeout:     defaultLockTimeout,
		articleTTL:      opts.ArticleTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close is a no-op; each operation closes the database it opened.
func (b *boltStore) Close() error {
	return nil
}

// update opens the database, runs fn against the posted bucket inside a write
// transaction and closes the file again.
func (b *boltStore) update(fn func(bucket *bolt.Bucket) error) error {
	db, err := bolt.Open(b.path, 0o600, &bolt.Options{Timeout: b.lockTimeout})
	if err != nil {
		return fmt.Errorf("open bbolt db: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(postedBucket))
		if err != nil {
			return fmt.Errorf("init bucket: %w", err)
		}
		return fn(bucket)
	})
}

// SeenArticle reports whether an unexpired record exists for id.
func (b *boltStore) SeenArticle(id string) (bool, error) {
	_, ok, err := b.PostFor(id)
	return ok, err
}

// PostFor returns the primary post id recorded for id. Expired records are deleted on read.
func (b *boltStore) PostFor(id string) (string, bool, error) {
	if b == nil {
		return "", false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return "", false, err
	}

	var (
		postID string
		found  bool
	)
	err := b.update(func(bucket *bolt.Bucket) error {
		key := []byte(id)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, pid, ok := decodeRecord(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(key)
		}

		postID, found = pid, true
		return nil
	})
	return postID, found, err
}

// MarkArticle records that id was posted as postID.
func (b *boltStore) MarkArticle(id, postID string) error {
	if b == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.update(func(bucket *bolt.Bucket) error {
		return bucket.Put([]byte(id), encodeRecord(now.Add(b.articleTTL), postID))
	})
}

// maybeCleanupExpired removes expired records on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.update(func(bucket *bolt.Bucket) error {
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeRecord(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeRecord(expiry time.Time, postID string) []byte {
	buf := make([]byte, expiryValueBytes+len(postID))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryValueBytes:], postID)
	return buf
}

// decodeRecord splits a stored value into its expiry and post id.
func decodeRecord(value []byte) (time.Time, string, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, "", false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, "", false
	}
	return time.Unix(unix, 0), string(value[expiryValueBytes:]), true
}
