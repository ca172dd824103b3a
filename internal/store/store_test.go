package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newSQLite(t *testing.T) Snapshots {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newFile(t *testing.T) Snapshots {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return s
}

func newMemory(*testing.T) Snapshots {
	return NewMemoryStore()
}

var backends = []struct {
	name string
	open func(*testing.T) Snapshots
}{
	{"sqlite", newSQLite},
	{"file", newFile},
	{"memory", newMemory},
}

func TestSnapshots_SaveLoad(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			if _, err := s.Load(ctx, "cache_list.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load() on empty store error = %v, want ErrNotFound", err)
			}

			first := []byte(`[{"id":"a"}]`)
			if err := s.Save(ctx, "cache_list.json", first); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			second := []byte(`[{"id":"b"},{"id":"c"}]`)
			if err := s.Save(ctx, "cache_list.json", second); err != nil {
				t.Fatalf("Save() error: %v", err)
			}

			got, err := s.Load(ctx, "cache_list.json")
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if string(got) != string(second) {
				t.Errorf("Load() = %s, want %s", got, second)
			}

			if _, err := s.ModTime(ctx, "cache_list.json"); err != nil {
				t.Errorf("ModTime() error: %v", err)
			}
			if _, err := s.ModTime(ctx, "cache_detail_x.json"); !errors.Is(err, ErrNotFound) {
				t.Errorf("ModTime() missing error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSnapshots_DeleteClear(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			for _, k := range []string{"cache_list.json", "cache_detail_a.json", "cache_detail_b.json"} {
				if err := s.Save(ctx, k, []byte(`{}`)); err != nil {
					t.Fatalf("Save(%s) error: %v", k, err)
				}
			}

			if err := s.Delete(ctx, "cache_detail_a.json"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if err := s.Delete(ctx, "cache_detail_a.json"); err != nil {
				t.Errorf("Delete() of missing key error: %v", err)
			}
			if _, err := s.Load(ctx, "cache_detail_a.json"); !errors.Is(err, ErrNotFound) {
				t.Errorf("deleted key still loads: %v", err)
			}
			if _, err := s.Load(ctx, "cache_detail_b.json"); err != nil {
				t.Errorf("unrelated key lost: %v", err)
			}

			if err := s.Clear(ctx); err != nil {
				t.Fatalf("Clear() error: %v", err)
			}
			if _, err := s.Load(ctx, "cache_list.json"); !errors.Is(err, ErrNotFound) {
				t.Errorf("key survived Clear: %v", err)
			}
		})
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	for _, key := range []string{"", ".", "..", "../escape", `a\b`, "dir/file"} {
		if err := s.Save(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Save(%q) accepted", key)
		}
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := s.Save(context.Background(), "cache_list.json", []byte("[]")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "cache_list.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory = %v", names)
	}
}

func TestSQLiteStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	if err := s.Save(ctx, "cache_list.json", []byte("[]")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()

	var version int
	if err := s.db.Get(&version, "SELECT MAX(version) FROM schema_version"); err != nil {
		t.Fatal(err)
	}
	if version != len(migrations) {
		t.Errorf("schema version = %d, want %d", version, len(migrations))
	}

	var size int
	if err := s.db.Get(&size, "SELECT size FROM snapshots WHERE key = ?", "cache_list.json"); err != nil {
		t.Fatal(err)
	}
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
}

func TestSQLiteStore_KeysNewestFirst(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	defer s.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Save(ctx, "cache_detail_a.json", []byte("{}"))
	now = now.Add(time.Minute)
	s.Save(ctx, "cache_list.json", []byte("[]"))

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "cache_list.json" {
		t.Errorf("Keys() = %v", keys)
	}

	mt, err := s.ModTime(ctx, "cache_list.json")
	if err != nil || !mt.Equal(now) {
		t.Errorf("ModTime() = %v, %v; want %v", mt, err, now)
	}
}
