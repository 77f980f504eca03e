package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"restaurantcore/internal/infra/persistence/memory"
	"restaurantcore/internal/infra/persistence/sqlite"
	"restaurantcore/pkg/domain"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	store, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StorageMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected *memory.Store, got %T", store)
	}
}

func TestOpenPersistentStoreDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chain.db")
	store, err := OpenPersistentStore(context.Background(), StorageConfig{SQLitePath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	s, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected *sqlite.Store, got %T", store)
	}
	if s.Path() != path {
		t.Fatalf("expected path %s, got %s", path, s.Path())
	}

	svc := NewService(store)
	if _, err := svc.Dishes.Create(context.Background(), domain.Dish{Name: "Francesinha"}); err != nil {
		t.Fatalf("create through sqlite: %v", err)
	}
	_ = store.Close()

	reopened, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StorageSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if ok, _ := NewService(reopened).Exists(context.Background(), domain.EntityDish, 1); !ok {
		t.Fatalf("expected dish to survive reopen")
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	if _, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: "cassandra"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestSQLiteChangesUseServiceClock(t *testing.T) {
	store, err := OpenPersistentStore(context.Background(), StorageConfig{SQLitePath: filepath.Join(t.TempDir(), "chain.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	pub := &capturePublisher{}
	svc := NewService(store, WithClock(ClockFunc(func() time.Time { return testNow })), WithPublisher(pub))
	if _, err := svc.Positions.Create(context.Background(), domain.Position{Name: "Manager"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.batches) != 1 || !pub.batches[0][0].At.Equal(testNow) {
		t.Fatalf("expected change stamped at %s, got %+v", testNow, pub.batches)
	}
}
