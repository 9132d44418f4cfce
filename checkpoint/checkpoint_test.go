package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"
)

func openTestDB(tst *testing.T) *bolt.DB {
	dir, err := os.MkdirTemp("", "checkpoint")
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	tst.Cleanup(func() { os.RemoveAll(dir) })
	db, err := bolt.Open(filepath.Join(dir, "test.db"), 0600, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	tst.Cleanup(func() { db.Close() })
	return db
}

func TestRoundtrip(tst *testing.T) {
	db := openTestDB(tst)
	io := NewIO(db, Key(0.1, 100, 42), 0)

	saved := &Data{
		Alpha:   0.1,
		B:       100,
		Seed:    42,
		Lambdas: map[int]float64{0: 1.5, 7: 0.9},
	}
	if err := io.Save(saved); err != nil {
		tst.Fatal("Error: ", err)
	}

	loaded, err := io.Load()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if loaded == nil {
		tst.Fatal("Expected checkpoint data")
	}
	if !loaded.Matches(0.1, 100, 42) {
		tst.Errorf("Settings mismatch: %+v", loaded)
	}
	if len(loaded.Lambdas) != 2 || loaded.Lambdas[7] != 0.9 {
		tst.Errorf("Lambdas mismatch: %+v", loaded.Lambdas)
	}
	if loaded.Final {
		tst.Error("Expected unfinished checkpoint")
	}
}

func TestLoadMissing(tst *testing.T) {
	db := openTestDB(tst)
	io := NewIO(db, Key(0.05, 10, 1), 0)
	loaded, err := io.Load()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if loaded != nil {
		tst.Error("Expected no checkpoint, got", loaded)
	}
}

func TestNilDB(tst *testing.T) {
	io := NewIO(nil, Key(0.05, 10, 1), 0)
	if err := io.Save(&Data{}); err != nil {
		tst.Error("Expected nil db save to be a no-op, got", err)
	}
	loaded, err := io.Load()
	if err != nil || loaded != nil {
		tst.Error("Expected nil db load to be empty, got", loaded, err)
	}
}

func TestOld(tst *testing.T) {
	io := NewIO(nil, nil, 3600)
	if !io.Old() {
		tst.Error("Expected fresh IO to be old")
	}
	io.SetNow()
	if io.Old() {
		tst.Error("Expected IO to be recent after SetNow")
	}
}
