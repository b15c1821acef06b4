package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreMarksAndExpiresArticles(t *testing.T) {
	opts := Options{
		ArticleTTL:      time.Minute,
		CleanupInterval: time.Hour,
	}

	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "relay.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	clock := time.Date(2025, time.November, 17, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	store.lastCleanup.Store(clock.Unix())

	seen, err := store.SeenArticle("id1")
	if err != nil || seen {
		t.Fatalf("expected unseen article, seen=%v err=%v", seen, err)
	}

	if err := store.MarkArticle("id1", "post-42"); err != nil {
		t.Fatalf("MarkArticle: %v", err)
	}

	postID, ok, err := store.PostFor("id1")
	if err != nil || !ok || postID != "post-42" {
		t.Fatalf("PostFor = %q, %v, %v", postID, ok, err)
	}

	clock = clock.Add(2 * time.Minute)
	seen, err = store.SeenArticle("id1")
	if err != nil {
		t.Fatalf("SeenArticle after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltStoreCleanupSweepsExpired(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "nested", "relay.db"), Options{
		ArticleTTL:      time.Minute,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	clock := time.Now()
	store.now = func() time.Time { return clock }
	if err := store.MarkArticle("old", "p1"); err != nil {
		t.Fatalf("MarkArticle: %v", err)
	}

	clock = clock.Add(5 * time.Minute)
	if err := store.maybeCleanupExpired(clock); err != nil {
		t.Fatalf("maybeCleanupExpired: %v", err)
	}
	if _, ok, _ := store.PostFor("old"); ok {
		t.Fatalf("expected expired record to be swept")
	}
}

func TestBoltStoreSharesPathBetweenStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.db")
	opts := Options{ArticleTTL: time.Hour, CleanupInterval: time.Hour}

	first, err := openBolt(path, opts)
	if err != nil {
		t.Fatalf("openBolt first: %v", err)
	}
	defer first.Close()
	second, err := openBolt(path, opts)
	if err != nil {
		t.Fatalf("openBolt second: %v", err)
	}
	defer second.Close()

	if err := first.MarkArticle("id1", "post-1"); err != nil {
		t.Fatalf("MarkArticle: %v", err)
	}
	postID, ok, err := second.PostFor("id1")
	if err != nil || !ok || postID != "post-1" {
		t.Fatalf("second store PostFor = %q, %v, %v", postID, ok, err)
	}
}

func TestBoltStoreReportsHeldLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.db")
	storeRaw, err := openBolt(path, Options{ArticleTTL: time.Hour, CleanupInterval: time.Hour})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	store.lockTimeout = 50 * time.Millisecond

	holder, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("bolt.Open: %v", err)
	}

	if _, err := store.SeenArticle("id1"); err == nil {
		t.Fatalf("expected lock timeout while another handle holds the file")
	}

	if err := holder.Close(); err != nil {
		t.Fatalf("close holder: %v", err)
	}
	if err := store.MarkArticle("id1", "post-1"); err != nil {
		t.Fatalf("MarkArticle after release: %v", err)
	}
}

func TestDecodeRecordRejectsShortValues(t *testing.T) {
	if _, _, ok := decodeRecord([]byte{1, 2, 3}); ok {
		t.Fatalf("expected short value to be rejected")
	}
	exp := time.Unix(1_700_000_000, 0)
	got, pid, ok := decodeRecord(encodeRecord(exp, "abc"))
	if !ok || !got.Equal(exp) || pid != "abc" {
		t.Fatalf("decodeRecord = %v %q %v", got, pid, ok)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkArticle("x", "p"); err != nil {
		t.Fatalf("noop store MarkArticle: %v", err)
	}
	if seen, _ := store.SeenArticle("x"); seen {
		t.Fatalf("noop store must never report seen")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
