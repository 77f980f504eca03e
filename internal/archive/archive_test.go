package archive_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"restaurantcore/internal/archive"
	"restaurantcore/internal/blob"
	"restaurantcore/internal/core"
	"restaurantcore/pkg/domain"
)

var exportTime = time.Date(2024, time.May, 4, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T) *core.Service {
	t.Helper()
	return core.NewInMemoryService(
		core.WithClock(core.ClockFunc(func() time.Time { return exportTime })),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func seed(t *testing.T, svc *core.Service) {
	t.Helper()
	ctx := context.Background()
	loc, err := svc.Locations.Create(ctx, domain.Location{Name: "Harbor", Address: "1 Pier Rd", City: "Lisbon", CountryCode: "PRT"})
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if _, err := svc.Menus.Create(ctx, domain.Menu{Name: "Lunch", LocationID: loc.LocationID}); err != nil {
		t.Fatalf("menu: %v", err)
	}
	if _, err := svc.Dishes.Create(ctx, domain.Dish{Name: "Caldo Verde"}); err != nil {
		t.Fatalf("dish: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	src := newService(t)
	seed(t, src)

	info, err := archive.Export(ctx, src, store, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if info.Key != archive.Key(exportTime) || !strings.HasPrefix(info.Key, archive.Prefix) {
		t.Fatalf("unexpected key %q", info.Key)
	}
	if info.Metadata[archive.MetaRecords] != "3" || info.ContentType != archive.ContentType {
		t.Fatalf("unexpected info %+v", info)
	}

	dst := newService(t)
	n, err := archive.Import(ctx, dst, store, info.Key)
	if err != nil || n != 3 {
		t.Fatalf("import: %d %v", n, err)
	}
	menu, err := dst.Menus.Get(ctx, 1)
	if err != nil {
		t.Fatalf("menu after import: %v", err)
	}
	if loc, ok := menu.Location.Get(); !ok || loc.Name != "Harbor" {
		t.Fatalf("expected location navigation, got %+v", menu.Location)
	}
}

func TestExportNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	svc := newService(t)
	if _, err := archive.Export(ctx, svc, store, "snapshots/fixed.json"); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := archive.Export(ctx, svc, store, "snapshots/fixed.json"); !errors.Is(err, blob.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestImportRejectsBrokenArchive(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	// menu references a location that is not in the archive
	payload := `{"menu":[{"menu_id":1,"name":"Lunch","location_id":9}]}`
	if _, err := store.Put(ctx, "snapshots/broken.json", strings.NewReader(payload), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	svc := newService(t)
	seed(t, svc)
	if _, err := archive.Import(ctx, svc, store, "snapshots/broken.json"); !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if _, err := svc.Dishes.Get(ctx, 1); err != nil {
		t.Fatalf("state must survive a refused import: %v", err)
	}

	if _, err := store.Put(ctx, "snapshots/garbage.json", bytes.NewReader([]byte("{")), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := archive.Import(ctx, svc, store, "snapshots/garbage.json"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := archive.Import(ctx, svc, store, "snapshots/missing.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	if _, err := archive.Latest(ctx, store); !errors.Is(err, archive.ErrNoArchives) {
		t.Fatalf("expected ErrNoArchives, got %v", err)
	}
	svc := newService(t)
	older := archive.Key(exportTime.Add(-time.Hour))
	if _, err := archive.Export(ctx, svc, store, older); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := archive.Export(ctx, svc, store, ""); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := archive.Latest(ctx, store)
	if err != nil || got != archive.Key(exportTime) {
		t.Fatalf("latest = %q, %v", got, err)
	}
}
