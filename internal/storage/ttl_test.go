package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestGet_ErrNotFound(t *testing.T) {
	mem := NewMemory()
	if _, err := mem.Get([]byte("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("MemoryDB.Get() err = %v, want ErrNotFound", err)
	}

	bdb, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer bdb.Close()
	if _, err := bdb.Get([]byte("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("BadgerDB.Get() err = %v, want ErrNotFound", err)
	}
}

func TestMemoryDB_TTL(t *testing.T) {
	db := NewMemory()
	now := time.Unix(1_700_000_000, 0)
	db.now = func() time.Time { return now }

	if err := db.PutWithTTL([]byte("k"), []byte("v"), time.Minute); err != nil {
		t.Fatalf("PutWithTTL() error: %v", err)
	}
	if ok, _ := db.Has([]byte("k")); !ok {
		t.Fatal("entry should be live before expiry")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := db.Has([]byte("k")); ok {
		t.Error("entry should expire after ttl")
	}
	if _, err := db.Get([]byte("k")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry err = %v, want ErrNotFound", err)
	}
}

func TestMemoryDB_GetReturnsCopy(t *testing.T) {
	db := NewMemory()
	db.Put([]byte("k"), []byte("abc"))
	v, _ := db.Get([]byte("k"))
	v[0] = 'z'
	again, _ := db.Get([]byte("k"))
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get(): %q", again)
	}
}

func TestMemoryDB_Concurrent(t *testing.T) {
	db := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := []byte(fmt.Sprintf("k%d-%d", i, j))
				db.Put(key, []byte("v"))
				db.Get(key)
				db.ForEach([]byte("k"), func(_, _ []byte) error { return nil })
			}
		}(i)
	}
	wg.Wait()

	var n int
	db.ForEach(nil, func(_, _ []byte) error { n++; return nil })
	if n != 800 {
		t.Errorf("key count = %d, want 800", n)
	}
}

func TestPrefixDB_PutWithTTL(t *testing.T) {
	inner := NewMemory()
	now := time.Unix(1_700_000_000, 0)
	inner.now = func() time.Time { return now }
	p := NewPrefixDB(inner, []byte("testnet/"))

	if err := p.PutWithTTL([]byte("bal"), []byte("1"), time.Second); err != nil {
		t.Fatalf("PutWithTTL() error: %v", err)
	}
	if ok, _ := inner.Has([]byte("testnet/bal")); !ok {
		t.Fatal("inner should hold prefixed key")
	}
	now = now.Add(time.Hour)
	if ok, _ := p.Has([]byte("bal")); ok {
		t.Error("prefixed ttl entry should expire")
	}
}

func TestBadgerDB_PutWithTTL(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()

	if err := db.PutWithTTL([]byte("k"), []byte("v"), time.Hour); err != nil {
		t.Fatalf("PutWithTTL() error: %v", err)
	}
	v, err := db.Get([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Errorf("Get() = %q, %v", v, err)
	}
}
