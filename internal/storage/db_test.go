package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// total encodes a cached balance the way the points cache stores it.
func total(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// runDBSuite checks the DB contract against a fresh store per case.
func runDBSuite(t *testing.T, open func(t *testing.T) DB) {
	t.Helper()

	const owner = "bal/0x2::coin::Coin<0xabc::loyalty::LOYALTY>/0x0000000000000000000000000000000000000000000000000000000000000a11"

	t.Run("StoreAndRead", func(t *testing.T) {
		db := open(t)
		if err := db.Put([]byte(owner), total(1500)); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		got, err := db.Get([]byte(owner))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if binary.BigEndian.Uint64(got) != 1500 {
			t.Errorf("Get() = %x, want total 1500", got)
		}
	})

	t.Run("MissIsErrNotFound", func(t *testing.T) {
		db := open(t)
		_, err := db.Get([]byte(owner))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() err = %v, want ErrNotFound", err)
		}
		ok, err := db.Has([]byte(owner))
		if err != nil || ok {
			t.Errorf("Has() = %v, %v; want false, nil", ok, err)
		}
	})

	t.Run("LaterTotalWins", func(t *testing.T) {
		db := open(t)
		db.Put([]byte(owner), total(10))
		db.Put([]byte(owner), total(7))
		got, err := db.Get([]byte(owner))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(got, total(7)) {
			t.Errorf("Get() = %x, want %x", got, total(7))
		}
	})

	t.Run("DeleteThenMiss", func(t *testing.T) {
		db := open(t)
		db.Put([]byte(owner), total(1))
		if err := db.Delete([]byte(owner)); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := db.Get([]byte(owner)); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after Delete() err = %v, want ErrNotFound", err)
		}
		if err := db.Delete([]byte(owner)); err != nil {
			t.Errorf("second Delete() error: %v", err)
		}
	})

	t.Run("ZeroTotalAndEmptyValue", func(t *testing.T) {
		db := open(t)
		db.Put([]byte("bal/t/zero"), total(0))
		db.Put([]byte("bal/t/empty"), []byte{})
		if got, err := db.Get([]byte("bal/t/zero")); err != nil || !bytes.Equal(got, total(0)) {
			t.Errorf("zero total Get() = %x, %v", got, err)
		}
		if got, err := db.Get([]byte("bal/t/empty")); err != nil || len(got) != 0 {
			t.Errorf("empty value Get() = %x, %v", got, err)
		}
	})

	t.Run("ForEachByTokenType", func(t *testing.T) {
		db := open(t)
		db.Put([]byte("bal/A/0x1"), total(1))
		db.Put([]byte("bal/A/0x2"), total(2))
		db.Put([]byte("bal/B/0x1"), total(3))

		var sum uint64
		var seen int
		err := db.ForEach([]byte("bal/A/"), func(key, value []byte) error {
			if !bytes.HasPrefix(key, []byte("bal/A/")) {
				t.Errorf("ForEach() yielded foreign key %q", key)
			}
			seen++
			sum += binary.BigEndian.Uint64(value)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if seen != 2 || sum != 3 {
			t.Errorf("ForEach(bal/A/) saw %d entries summing %d, want 2 and 3", seen, sum)
		}

		seen = 0
		db.ForEach([]byte("bal/C/"), func(_, _ []byte) error { seen++; return nil })
		if seen != 0 {
			t.Errorf("ForEach(bal/C/) saw %d entries, want 0", seen)
		}
	})
}

func TestMemoryDB(t *testing.T) {
	runDBSuite(t, func(t *testing.T) DB {
		db := NewMemory()
		t.Cleanup(func() { db.Close() })
		return db
	})
}

func TestBadgerDB(t *testing.T) {
	runDBSuite(t, func(t *testing.T) DB {
		db, err := NewBadger(t.TempDir())
		if err != nil {
			t.Fatalf("NewBadger() error: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db
	})
}

func TestBadgerDB_ReopenKeepsTotals(t *testing.T) {
	dir := t.TempDir()

	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	db.Put([]byte("bal/t/0x1"), total(42))
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	db, err = NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db.Close()
	got, err := db.Get([]byte("bal/t/0x1"))
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if binary.BigEndian.Uint64(got) != 42 {
		t.Errorf("total after reopen = %d, want 42", binary.BigEndian.Uint64(got))
	}
}
