package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurantcore/pkg/domain"
)

func TestStoreRunInTransactionAndSnapshots(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	changes, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.Get(domain.EntityDish, 1); ok {
			t.Fatalf("expected missing dish lookup")
		}
		created, err := tx.Insert(domain.Dish{Name: "Pretzel"})
		if err != nil {
			return err
		}
		if created.Identity() != 1 {
			t.Fatalf("expected identity 1, got %d", created.Identity())
		}
		if len(tx.List(domain.EntityDish)) != 1 {
			t.Fatalf("transaction view mismatch")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
	if len(changes) != 1 || changes[0].Action != domain.ActionCreate || changes[0].ID != 1 {
		t.Fatalf("unexpected changes %+v", changes)
	}

	snapshot := store.ExportState()
	if err := store.ImportState(domain.NewSnapshot()); err != nil {
		t.Fatalf("import empty: %v", err)
	}
	if countDishes(t, store) != 0 {
		t.Fatalf("expected cleared state")
	}
	if err := store.ImportState(snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	if countDishes(t, store) != 1 {
		t.Fatalf("expected restored state")
	}
	if store.NowFunc() == nil {
		t.Fatalf("expected now func")
	}
}

func countDishes(t *testing.T, store *Store) int {
	t.Helper()
	var n int
	if err := store.View(context.Background(), func(v domain.TransactionView) error {
		n = len(v.List(domain.EntityDish))
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return n
}

func TestStoreRollsBackOnError(t *testing.T) {
	store := NewStore()
	boom := errors.New("boom")
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.Insert(domain.Dish{Name: "Soup"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if countDishes(t, store) != 0 {
		t.Fatalf("failed transaction leaked state")
	}
}

func TestStoreIdentitiesAreNotReused(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	insert := func(name string) int {
		var id int
		_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			rec, err := tx.Insert(domain.Position{Name: name})
			id = rec.Identity()
			return err
		})
		if err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
		return id
	}
	if insert("Cook") != 1 || insert("Waiter") != 2 {
		t.Fatalf("unexpected identity sequence")
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.Delete(domain.EntityPosition, 2)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if id := insert("Host"); id != 3 {
		t.Fatalf("expected identity 3 after delete, got %d", id)
	}
}

func TestStoreInsertRejectsPresetIdentity(t *testing.T) {
	store := NewStore()
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.Insert(domain.Dish{DishID: 5, Name: "Soup"})
		return err
	})
	if err == nil {
		t.Fatalf("expected insert with identity to fail")
	}
}

func TestStoreReplaceAndDeleteMissing(t *testing.T) {
	store := NewStore()
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.Replace(domain.Dish{DishID: 9, Name: "Ghost"})
		return err
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on replace, got %v", err)
	}
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.Delete(domain.EntityDish, 9)
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestStoreStripsNavigationsAndRecordsBeforeAfter(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.Insert(domain.Dish{Name: "Pretzel", MenuItems: domain.Some([]domain.MenuItem{{MenuItemID: 1}})})
		return err
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	changes, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.Replace(domain.Dish{DishID: 1, Name: "Brezel"})
		return err
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	change := changes[0]
	if change.Before.(domain.Dish).Name != "Pretzel" || change.After.(domain.Dish).Name != "Brezel" {
		t.Fatalf("unexpected before/after %+v", change)
	}
	if !change.At.Equal(fixed) {
		t.Fatalf("expected change stamped with store clock, got %v", change.At)
	}
	snapshot := store.ExportState()
	dish := snapshot.Buckets[domain.EntityDish][0].(domain.Dish)
	if dish.MenuItems.Present() {
		t.Fatalf("stored record kept navigation")
	}
}

func TestImportStateRejectsInvalidSnapshots(t *testing.T) {
	store := NewStore()
	cases := map[string]domain.Snapshot{
		"duplicate id": {Buckets: map[domain.EntityType][]domain.Record{
			domain.EntityDish: {domain.Dish{DishID: 1}, domain.Dish{DishID: 1}},
		}},
		"zero id": {Buckets: map[domain.EntityType][]domain.Record{
			domain.EntityDish: {domain.Dish{Name: "x"}},
		}},
		"wrong bucket": {Buckets: map[domain.EntityType][]domain.Record{
			domain.EntityMenu: {domain.Dish{DishID: 1}},
		}},
		"unknown bucket": {Buckets: map[domain.EntityType][]domain.Record{
			"spaceship": {},
		}},
	}
	for name, snap := range cases {
		if err := store.ImportState(snap); err == nil {
			t.Fatalf("%s: expected import error", name)
		}
	}
}

func TestImportStateResumesSequences(t *testing.T) {
	store := NewStore()
	snap := domain.NewSnapshot()
	snap.Buckets[domain.EntityDish] = []domain.Record{domain.Dish{DishID: 7, Name: "Soup"}}
	if err := store.ImportState(snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		rec, err := tx.Insert(domain.Dish{Name: "Stew"})
		if err == nil && rec.Identity() != 8 {
			t.Fatalf("expected identity 8, got %d", rec.Identity())
		}
		return err
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestCanceledContextSkipsWork(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { called = true; return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if err := store.View(ctx, func(domain.TransactionView) error { called = true; return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if called {
		t.Fatalf("callback ran on canceled context")
	}
}

func TestCheckpointRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.Insert(domain.Dish{Name: "Sopa"})
		return err
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	restore := store.Checkpoint()
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.Insert(domain.Dish{Name: "Bolo"})
		return err
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	restore()

	if got := store.ExportState().Len(); got != 1 {
		t.Fatalf("expected 1 record after restore, got %d", got)
	}
	// the sequence is restored with the state
	changes, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.Insert(domain.Dish{Name: "Pudim"})
		return err
	})
	if err != nil || changes[0].ID != 2 {
		t.Fatalf("expected identity 2 after restore, got %+v (%v)", changes, err)
	}
}
