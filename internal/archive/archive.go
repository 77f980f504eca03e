// Package archive moves store snapshots in and out of blob storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurantcore/internal/blob"
	"restaurantcore/pkg/domain"
)

// ContentType is recorded on every archived snapshot.
const ContentType = "application/json"

// Prefix is the key namespace used by Key and Latest.
const Prefix = "snapshots/"

// Metadata keys stored alongside an archive.
const (
	MetaRecords    = "records"
	MetaExportedAt = "exported-at"
)

// Service is the slice of core.Service an archive needs.
type Service interface {
	Snapshot() domain.Snapshot
	Restore(ctx context.Context, snapshot domain.Snapshot) error
	Now() time.Time
}

// Key names an archive by its export time, so lexical order is time order.
func Key(at time.Time) string {
	return Prefix + at.UTC().Format("20060102T150405.000000000Z") + ".json"
}

// Export writes the current state to key, or to Key(svc.Now()) when key is
// empty. Existing keys are never overwritten.
func Export(ctx context.Context, svc Service, store blob.Store, key string) (blob.Info, error) {
	now := svc.Now()
	if strings.TrimSpace(key) == "" {
		key = Key(now)
	}
	snapshot := svc.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode snapshot: %w", err)
	}
	info, err := store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: ContentType,
		Metadata: map[string]string{
			MetaRecords:    strconv.Itoa(snapshot.Len()),
			MetaExportedAt: now.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store archive %s: %w", key, err)
	}
	return info, nil
}

// Import reads the archive at key and restores it. The restore is refused
// when the snapshot violates any integrity rule; the current state is then
// left untouched.
func Import(ctx context.Context, svc Service, store blob.Store, key string) (int, error) {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("open archive %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()

	var snapshot domain.Snapshot
	if err := json.NewDecoder(rc).Decode(&snapshot); err != nil {
		return 0, fmt.Errorf("decode archive %s: %w", key, err)
	}
	if err := svc.Restore(ctx, snapshot); err != nil {
		return 0, err
	}
	return snapshot.Len(), nil
}

// ErrNoArchives is returned by Latest when the prefix is empty.
var ErrNoArchives = errors.New("no archives")

// Latest returns the newest archive key under Prefix.
func Latest(ctx context.Context, store blob.Store) (string, error) {
	infos, err := store.List(ctx, Prefix)
	if err != nil {
		return "", err
	}
	latest := ""
	for _, info := range infos {
		if info.Key > latest {
			latest = info.Key
		}
	}
	if latest == "" {
		return "", ErrNoArchives
	}
	return latest, nil
}
