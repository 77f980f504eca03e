//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"restaurantcore/pkg/domain"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("restaurantcore"),
		tcpostgres.WithUsername("restaurant"),
		tcpostgres.WithPassword("restaurant"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	return dsn
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	store, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		loc, err := tx.Insert(domain.Location{Name: "Harbor", Address: "1 Pier", City: "Oslo", CountryCode: "NO"})
		if err != nil {
			return err
		}
		_, err = tx.Insert(domain.LocationHours{LocationID: loc.Identity(), DayOfWeek: 1, OpensAt: "09:00", ClosesAt: "17:00"})
		return err
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer func() { _ = reloaded.Close() }()
	snapshot := reloaded.ExportState()
	if got := len(snapshot.Buckets[domain.EntityLocationHours]); got != 1 {
		t.Fatalf("expected 1 location hours row, got %d", got)
	}
	hours := snapshot.Buckets[domain.EntityLocationHours][0].(domain.LocationHours)
	if hours.OpensAt != "09:00" || hours.LocationID != 1 {
		t.Fatalf("unexpected hours %+v", hours)
	}
}
