package integration

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"restaurantcore/internal/archive"
	"restaurantcore/internal/blob"
	"restaurantcore/internal/core"
	"restaurantcore/pkg/domain"
)

// TestIntegrationSmoke runs a write, archive and restore cycle for each
// in-process storage backend against each blob backend.
func TestIntegrationSmoke(t *testing.T) {
	ctx := context.Background()

	storeVariants := []struct {
		name string
		cfg  func(t *testing.T) core.StorageConfig
	}{
		{"memory", func(*testing.T) core.StorageConfig { return core.StorageConfig{Driver: core.StorageMemory} }},
		{"sqlite", func(t *testing.T) core.StorageConfig {
			return core.StorageConfig{Driver: core.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "core.db")}
		}},
	}
	blobVariants := []struct {
		name string
		open func(t *testing.T) blob.Store
	}{
		{"memory", func(*testing.T) blob.Store { return blob.NewMemory() }},
		{"fs", func(t *testing.T) blob.Store {
			s, err := blob.Open(ctx, blob.Config{Driver: blob.DriverFilesystem, FSRoot: t.TempDir()})
			if err != nil {
				t.Fatalf("open fs blob: %v", err)
			}
			return s
		}},
		{"s3-mock", func(*testing.T) blob.Store { return blob.NewMockS3ForTests() }},
	}

	for _, sv := range storeVariants {
		for _, bv := range blobVariants {
			t.Run(sv.name+"/"+bv.name, func(t *testing.T) {
				src := openService(t, sv.cfg(t))
				loc, err := src.Locations.Create(ctx, domain.Location{Name: "Harbor", Address: "1 Pier Rd", City: "Lisbon", CountryCode: "PRT"})
				if err != nil {
					t.Fatalf("create location: %v", err)
				}
				if _, err := src.Menus.Create(ctx, domain.Menu{Name: "Lunch", LocationID: loc.LocationID}); err != nil {
					t.Fatalf("create menu: %v", err)
				}

				store := bv.open(t)
				info, err := archive.Export(ctx, src, store, "")
				if err != nil {
					t.Fatalf("export: %v", err)
				}

				dst := openService(t, sv.cfg(t))
				n, err := archive.Import(ctx, dst, store, info.Key)
				if err != nil || n != 2 {
					t.Fatalf("import: %d %v", n, err)
				}
				menu, err := dst.Menus.Get(ctx, 1)
				if err != nil {
					t.Fatalf("get menu: %v", err)
				}
				if l, ok := menu.Location.Get(); !ok || l.Name != "Harbor" {
					t.Fatalf("expected restored navigation, got %+v", menu.Location)
				}
				if err := dst.Locations.Delete(ctx, loc.LocationID); err == nil {
					t.Fatalf("restored menu should still guard its location")
				}
			})
		}
	}
}

func openService(t *testing.T, cfg core.StorageConfig) *core.Service {
	t.Helper()
	store, err := core.OpenPersistentStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return core.NewService(store, core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}
